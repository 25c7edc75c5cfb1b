package main

import (
	"os"

	"github.com/jwalton/go-supportscolor"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// configureLogging routes the global logger to stderr as console output.
// The resolution engine traces every degraded read at debug level; the
// default error level keeps a normal run silent.
func configureLogging(debug bool) {
	level := zerolog.ErrorLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !supportscolor.Stderr().SupportsColor,
	})
}
