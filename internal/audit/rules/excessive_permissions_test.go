package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExcessivePermissionsFlagsAbsentTopLevelBlock(t *testing.T) {
	src := "on: push\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, excessivePermissionsAudit{}.Check(c), 1)
}

func TestExcessivePermissionsFlagsWriteAll(t *testing.T) {
	src := "on: push\npermissions: write-all\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, excessivePermissionsAudit{}.Check(c), 1)
}

func TestExcessivePermissionsIgnoresScopedPermissions(t *testing.T) {
	src := "on: push\npermissions:\n  contents: read\njobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Empty(t, excessivePermissionsAudit{}.Check(c))
}

func TestExcessivePermissionsFlagsJobLevelWriteAllInMultiJobWorkflow(t *testing.T) {
	src := "on: push\npermissions:\n  contents: read\njobs:\n  a:\n    runs-on: ubuntu-latest\n    permissions: write-all\n    steps:\n      - run: echo hi\n  b:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, excessivePermissionsAudit{}.Check(c), 1)
}
