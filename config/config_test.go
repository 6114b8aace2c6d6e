package config_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/nightsea987/compgraph/config"
)

func TestLoadDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	require.Equal(t, int64(64<<20), cfg.ChunkBytes)
	require.False(t, cfg.Verbose)
}

func TestLoadHonorsExplicitFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--chunk-bytes=1024", "--verbose"}))

	cfg, err := config.Load(fs)
	require.NoError(t, err)
	require.Equal(t, int64(1024), cfg.ChunkBytes)
	require.True(t, cfg.Verbose)
}
