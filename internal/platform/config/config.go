package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the server's environment-driven configuration.
type Config struct {
	Addr          string `env:"TALEWARD_ADDR" envDefault:":8080"`
	DBDSN         string `env:"TALEWARD_DB_DSN"`
	MigrationsDir string `env:"TALEWARD_MIGRATIONS_DIR" envDefault:"./migrations"`
	TuningPath    string `env:"TALEWARD_TUNING_PATH"`
	RollSeed      int64  `env:"TALEWARD_ROLL_SEED"`
}

// Load reads an optional .env file and then the process environment. A
// missing .env is not an error; an unparsable environment is.
func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
