package app

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/adanyl0v/tasks-api/internal/config"
)

func MustReadConfig() {
	cfg, err := config.NewReader().Read()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to read config")
		panic(err)
	}
	globalLogger.Info().
		Str("env", cfg.Env).
		Strs("cors_origins", cfg.CORS.AllowedOrigins).
		Bool("cors_allow_all", cfg.CORS.AllowsAllOrigins()).
		Msg("read config")

	config.SetGlobal(cfg)
}
