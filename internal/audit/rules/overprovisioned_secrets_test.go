package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverprovisionedSecretsFlagsToJSONSecrets(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        env:\n          ALL: ${{ toJSON(secrets) }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, overprovisionedSecretsAudit{}.Check(c), 1)
}

func TestOverprovisionedSecretsFlagsComputedSecretIndex(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        env:\n          ONE: ${{ secrets[matrix.name] }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	require.Len(t, overprovisionedSecretsAudit{}.Check(c), 1)
}

func TestOverprovisionedSecretsIgnoresNamedSecret(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        env:\n          ONE: ${{ secrets.TOKEN }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, overprovisionedSecretsAudit{}.Check(c))
}

func TestOverprovisionedSecretsIgnoresLiteralIndex(t *testing.T) {
	src := "jobs:\n  build:\n    runs-on: ubuntu-latest\n    steps:\n      - run: echo hi\n        env:\n          ONE: ${{ secrets['TOKEN'] }}\n"
	tree, w := mustDecodeWorkflow(t, src)
	c := newRuleContext(tree, src, w)

	assert.Empty(t, overprovisionedSecretsAudit{}.Check(c))
}
