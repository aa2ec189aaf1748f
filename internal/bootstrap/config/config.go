package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"qualrecon/internal/bootstrap/logging"
	"qualrecon/internal/errs"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Reconcile   ReconcileConfig   `mapstructure:"reconcile"`
	Eligibility EligibilityConfig `mapstructure:"eligibility"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type ReconcileConfig struct {
	// BatchSize is the staged-record page size per read-decide-flush cycle.
	BatchSize int `mapstructure:"batch_size"`
	// FundingFlushSize is how many qualifications the funding pass buffers
	// before flushing pending writes.
	FundingFlushSize int `mapstructure:"funding_flush_size"`
	// ImportUser tags discussion history rows written by automated runs.
	ImportUser string `mapstructure:"import_user"`
}

type EligibilityConfig struct {
	// RulesFile points at a TOML file overriding the built-in funding
	// eligibility rules. Empty means use the defaults.
	RulesFile string `mapstructure:"rules_file"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("QR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if cfg.Reconcile.BatchSize <= 0 {
		return Config{}, errors.New("reconcile.batch_size must be positive")
	}
	if cfg.Reconcile.FundingFlushSize <= 0 {
		return Config{}, errors.New("reconcile.funding_flush_size must be positive")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Int("batch_size", cfg.Reconcile.BatchSize),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "qualrecon")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".data/qualrecon.sqlite")
	v.SetDefault("reconcile.batch_size", 500)
	v.SetDefault("reconcile.funding_flush_size", 1000)
	v.SetDefault("reconcile.import_user", "register import")
	v.SetDefault("eligibility.rules_file", "")
}
