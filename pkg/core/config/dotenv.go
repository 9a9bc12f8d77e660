package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewDotEnvModule loads variables from a .env file into the process
// environment. Existing variables are never overridden and a missing
// file is not an error.
func NewDotEnvModule(path string) fx.Option {
	if path == "" {
		path = ".env"
	}
	err := godotenv.Load(path)

	return fx.Module("dotenv",
		fx.Invoke(func(log *zap.Logger) {
			switch {
			case err == nil:
				log.Info("loaded .env file", zap.String("path", path))
			case errors.Is(err, fs.ErrNotExist):
				log.Debug("no .env file found", zap.String("path", path))
			default:
				log.Warn("failed to load .env file", zap.String("path", path), zap.Error(err))
			}
		}),
	)
}
