package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "ccforge", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, flag := range []string{"config", "format", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}

func TestRootSubcommands(t *testing.T) {
	cmd := NewRootCmd()

	expected := []string{"generate", "build", "clean", "watch", "list", "init", "version", "completion"}
	for _, name := range expected {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "subcommand %q should resolve", name)
		assert.NotEqual(t, cmd, sub, "subcommand %q should not fall through to root", name)
	}
}

func TestGenerateAliasResolves(t *testing.T) {
	cmd := NewRootCmd()

	sub, _, err := cmd.Find([]string{"gen"})
	require.NoError(t, err)
	assert.Equal(t, "generate", sub.Name())
}
