package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUndocumentedPermissionsFlagsUncommentedWriteScope(t *testing.T) {
	src := "on: push\npermissions:\n  contents: write\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, undocumentedPermissionsAudit{}.Check(c), 1)
}

func TestUndocumentedPermissionsIgnoresCommentedWriteScope(t *testing.T) {
	src := "on: push\n# needed to push a release tag\npermissions:\n  contents: write\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, undocumentedPermissionsAudit{}.Check(c))
}

func TestUndocumentedPermissionsIgnoresReadOnlyScope(t *testing.T) {
	src := "on: push\npermissions:\n  contents: read\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, undocumentedPermissionsAudit{}.Check(c))
}

func TestUndocumentedPermissionsIgnoresBlanketGrant(t *testing.T) {
	src := "on: push\npermissions: write-all\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, undocumentedPermissionsAudit{}.Check(c))
}
