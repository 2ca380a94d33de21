// Package logger builds the zap logger every TinKV component logs
// through. It exists because the rest of the tree only ever asks for a
// *zap.SugaredLogger by service name, never configures zap directly.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.SugaredLogger tagged with service. TINKV_ENV=production
// selects zap's JSON production config; anything else (including unset)
// selects the human-readable development config, matching the common
// convention of defaulting to the friendlier output locally and opting
// into structured JSON only in deployed environments.
func New(service string) *zap.SugaredLogger {
	var cfg zap.Config
	if os.Getenv("TINKV_ENV") == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	log, err := cfg.Build(zap.Fields(zap.String("service", service)))
	if err != nil {
		// cfg.Build only fails on a malformed config; the two configs above
		// are both zap's own defaults, so this would indicate a linked zap
		// version that changed its own validation rules.
		panic("logger: failed to build zap logger: " + err.Error())
	}

	return log.Sugar()
}
