package main

import (
	"fmt"
	"os"

	zaplogfmt "github.com/jsternberg/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nightsea987/compgraph/config"
)

var rootCmd = &rootCommand{}

func main() {
	if err := rootCmd.execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the CLI's logfmt-encoded zap logger: terse single-line
// records to stderr, debug level only with --verbose.
func newLogger(cfg config.Config) *zap.Logger {
	level := zap.InfoLevel
	if cfg.Verbose {
		level = zap.DebugLevel
	}
	encoder := zaplogfmt.NewEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core)
}
