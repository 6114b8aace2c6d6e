// Package config binds compgraph's run-time tunables (external sort's
// spill-chunk size and spill directory, and log verbosity) to flags and
// environment variables.
package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the resolved set of run-time tunables for an Executor.
type Config struct {
	// ChunkBytes bounds external sort's in-memory chunk size before it
	// spills to disk. Defaults to 64 MiB.
	ChunkBytes int64
	// TempDir is the directory external sort spill files are created in.
	// Defaults to the OS temp directory.
	TempDir string
	// Verbose enables Debug-level structured logging.
	Verbose bool
}

const (
	envChunkBytes = "COMPGRAPH_CHUNK_BYTES"
	envTempDir    = "COMPGRAPH_TEMP_DIR"
	envVerbose    = "COMPGRAPH_VERBOSE"

	defaultChunkBytes int64 = 64 << 20
)

// BindFlags registers compgraph's persistent flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.Int64("chunk-bytes", defaultChunkBytes, "external sort in-memory chunk size budget, in bytes")
	fs.String("temp-dir", "", "directory external sort spill files are created in (default: OS temp dir)")
	fs.BoolP("verbose", "v", false, "enable debug-level structured logging")
}

// Load resolves a Config from fs's bound flags, falling back to environment
// variables for anything left at its flag default, mirroring repl.go's
// "flag default, then BindEnv override" ordering.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}
	v.SetDefault("chunk-bytes", defaultChunkBytes)
	_ = v.BindEnv("chunk-bytes", envChunkBytes)
	_ = v.BindEnv("temp-dir", envTempDir)
	_ = v.BindEnv("verbose", envVerbose)

	cfg := Config{
		ChunkBytes: v.GetInt64("chunk-bytes"),
		TempDir:    v.GetString("temp-dir"),
		Verbose:    v.GetBool("verbose"),
	}
	if cfg.ChunkBytes <= 0 {
		cfg.ChunkBytes = defaultChunkBytes
	}
	return cfg, nil
}
