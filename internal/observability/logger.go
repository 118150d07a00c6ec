package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the console logger every binary installs at startup
// and rebinds the zerolog global so package-level logging lands in the
// same stream.
func InitLogger(app string) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Millisecond
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
