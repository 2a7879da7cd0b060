package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"complaint-service/internal/sla"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type SweepConfig struct {
	Interval    time.Duration
	Concurrency int
	LockTTL     time.Duration
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Redis       RedisConfig
	SLA         sla.Config
	Sweep       SweepConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
		},
		SLA: sla.Config{
			CriticalDays:      v.GetInt("SLA_CRITICAL_DAYS"),
			HighDays:          v.GetInt("SLA_HIGH_DAYS"),
			MediumDays:        v.GetInt("SLA_MEDIUM_DAYS"),
			LowDays:           v.GetInt("SLA_LOW_DAYS"),
			DirectOfficerDays: v.GetInt("SLA_DIRECT_OFFICER_DAYS"),
			EscalationCap:     v.GetInt("SLA_ESCALATION_CAP"),
		},
		Sweep: SweepConfig{
			Interval:    v.GetDuration("SWEEP_INTERVAL"),
			Concurrency: v.GetInt("SWEEP_CONCURRENCY"),
			LockTTL:     v.GetDuration("SWEEP_LOCK_TTL"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	defaults := sla.DefaultConfig()
	if cfg.SLA.CriticalDays <= 0 {
		cfg.SLA.CriticalDays = defaults.CriticalDays
	}
	if cfg.SLA.HighDays <= 0 {
		cfg.SLA.HighDays = defaults.HighDays
	}
	if cfg.SLA.MediumDays <= 0 {
		cfg.SLA.MediumDays = defaults.MediumDays
	}
	if cfg.SLA.LowDays <= 0 {
		cfg.SLA.LowDays = defaults.LowDays
	}
	if cfg.SLA.DirectOfficerDays <= 0 {
		cfg.SLA.DirectOfficerDays = defaults.DirectOfficerDays
	}
	if cfg.SLA.EscalationCap <= 0 {
		cfg.SLA.EscalationCap = defaults.EscalationCap
	}

	if cfg.Sweep.Interval <= 0 {
		cfg.Sweep.Interval = 15 * time.Minute
	}
	if cfg.Sweep.Concurrency <= 0 {
		cfg.Sweep.Concurrency = 4
	}
	if cfg.Sweep.LockTTL <= 0 {
		cfg.Sweep.LockTTL = 5 * time.Minute
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}
