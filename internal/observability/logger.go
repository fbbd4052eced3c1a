package observability

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/danmuck/nexrmc/internal/logging"
)

// InitLogger configures the runtime logger and tags it with app. Logs go to
// stderr so stdout stays free for decoded output.
func InitLogger(app string) zerolog.Logger {
	logging.ConfigureRuntime()
	logger := log.Logger.With().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
