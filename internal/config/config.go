// Package config loads newsticker settings from an optional .env file, an
// optional newsticker.yaml and the environment, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"newsticker/internal/logger"
)

const defaultConfigName = "newsticker"

var (
	ErrInvalidPolicy      = errors.New("ticker.on_transport_error must be retain or error")
	ErrInvalidControlAddr = errors.New("control.addr must be host:port")
	ErrInvalidPGPort      = errors.New("postgres.port must be between 1 and 65535")
)

type Config struct {
	FeedURL          string
	Animate          bool
	ShowDescription  bool
	OnTransportError string
	RegionID         string
	RegionClass      string

	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string

	ControlAddr string
	LogLevel    string
}

// Load reads configuration. dir, when non-empty, is searched for
// newsticker.yaml and .env before the working directory.
func Load(dir ...string) (Config, error) {
	envFiles := []string{".env"}
	for _, d := range dir {
		envFiles = append([]string{strings.TrimSuffix(d, "/") + "/.env"}, envFiles...)
	}
	for _, f := range envFiles {
		// A missing .env is normal.
		_ = godotenv.Load(f)
	}

	v := viper.New()
	v.SetConfigName(defaultConfigName)
	v.SetConfigType("yaml")
	for _, d := range dir {
		v.AddConfigPath(d)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("ticker.feed_url", "")
	v.SetDefault("ticker.animate", false)
	v.SetDefault("ticker.show_description", false)
	v.SetDefault("ticker.on_transport_error", "retain")
	v.SetDefault("ticker.region_id", "newsbox")
	v.SetDefault("ticker.region_class", "newsclass")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "changeme")
	v.SetDefault("postgres.dbname", "newsticker")
	v.SetDefault("control.addr", "127.0.0.1:8088")
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		FeedURL:          strings.TrimSpace(v.GetString("ticker.feed_url")),
		Animate:          v.GetBool("ticker.animate"),
		ShowDescription:  v.GetBool("ticker.show_description"),
		OnTransportError: strings.ToLower(strings.TrimSpace(v.GetString("ticker.on_transport_error"))),
		RegionID:         v.GetString("ticker.region_id"),
		RegionClass:      v.GetString("ticker.region_class"),
		PGHost:           v.GetString("postgres.host"),
		PGPort:           v.GetInt("postgres.port"),
		PGUser:           v.GetString("postgres.user"),
		PGPassword:       v.GetString("postgres.password"),
		PGDatabase:       v.GetString("postgres.dbname"),
		ControlAddr:      strings.TrimSpace(v.GetString("control.addr")),
		LogLevel:         v.GetString("log.level"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.OnTransportError {
	case "retain", "error":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidPolicy, c.OnTransportError)
	}
	if _, _, err := net.SplitHostPort(c.ControlAddr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidControlAddr, err)
	}
	if c.PGPort <= 0 || c.PGPort > 65535 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPGPort, c.PGPort)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// PostgresURL builds the lib/pq connection string.
func (c Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}
