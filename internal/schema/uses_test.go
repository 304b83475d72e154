package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsesRepository(t *testing.T) {
	u, ok := ParseUses("actions/checkout@v4")
	require.True(t, ok)
	assert.Equal(t, UsesRepository, u.Kind)
	assert.Equal(t, "actions", u.Owner)
	assert.Equal(t, "checkout", u.Repo)
	assert.Equal(t, "v4", u.Ref)
	assert.False(t, u.Unpinned())
}

func TestParseUsesUnpinned(t *testing.T) {
	u, ok := ParseUses("actions/checkout")
	require.True(t, ok)
	assert.True(t, u.Unpinned())
}

func TestParseUsesDocker(t *testing.T) {
	u, ok := ParseUses("docker://alpine:3.19")
	require.True(t, ok)
	assert.Equal(t, UsesDocker, u.Kind)
	assert.Equal(t, "alpine", u.Image)
	assert.Equal(t, "3.19", u.Tag)
}

func TestParseUsesDockerDefaultsToLatest(t *testing.T) {
	u, ok := ParseUses("docker://alpine")
	require.True(t, ok)
	assert.Equal(t, "latest", u.Tag)
}

func TestParseUsesLocal(t *testing.T) {
	u, ok := ParseUses("./.github/actions/build")
	require.True(t, ok)
	assert.Equal(t, UsesLocal, u.Kind)
	assert.Equal(t, "./.github/actions/build", u.Path)
}

func TestParseUsesReusableWorkflow(t *testing.T) {
	u, ok := ParseUses("octo-org/octo-repo/.github/workflows/build.yml@main")
	require.True(t, ok)
	assert.Equal(t, UsesReusableWorkflow, u.Kind)
	assert.Equal(t, ".github/workflows/build.yml", u.Subpath)
	assert.Equal(t, "main", u.Ref)
}

func TestParseUsesWithSubpath(t *testing.T) {
	u, ok := ParseUses("actions/aws/ec2@v1")
	require.True(t, ok)
	assert.Equal(t, UsesRepository, u.Kind)
	assert.Equal(t, "ec2", u.Subpath)
}

func TestParseUsesEmptyIsInvalid(t *testing.T) {
	_, ok := ParseUses("")
	assert.False(t, ok)
}

func TestPinnedToSHA(t *testing.T) {
	u, _ := ParseUses("actions/checkout@a81bbbf8298c0fa03ea29cdc473d45769f953675")
	assert.True(t, u.PinnedToSHA())
	u2, _ := ParseUses("actions/checkout@v4")
	assert.False(t, u2.PinnedToSHA())
}

func TestSlugIsCaseInsensitive(t *testing.T) {
	u, _ := ParseUses("Actions/Checkout@v4")
	assert.Equal(t, "actions/checkout", u.Slug())
}
