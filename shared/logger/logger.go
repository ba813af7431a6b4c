package logger

import (
	"context"
	"os"
	"time"
	"todoapp/config"
	"todoapp/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const LogFormatJSON = "json"

func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	log.Logger = log.Output(output)
	log.Trace().Msg("Zerolog initialized.")
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil {
		level = zerolog.TraceLevel
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}

// SetLogFormat switches the global logger to structured JSON lines when LOG_FORMAT=json.
func SetLogFormat(config *config.Config) {
	if config.Server.LogFormat != LogFormatJSON {
		return
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", config.App.Name).Logger()
	log.Trace().Msg("JSON log format enabled.")
}

// Ctx returns the global logger enriched with the request id carried by ctx, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	requestID, ok := ctx.Value(constant.ContextKeyRequestID).(string)
	if !ok || requestID == constant.Empty {
		return &log.Logger
	}

	l := log.With().Str("request_id", requestID).Logger()

	return &l
}
