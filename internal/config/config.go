package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/vitos/xau_money_management/internal/domain"
	"github.com/vitos/xau_money_management/internal/usecase"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend         BackendConfig         `yaml:"backend"`
	Polling         PollingConfig         `yaml:"polling"`
	MoneyManagement MoneyManagementConfig `yaml:"money_management"`
	Logging         LoggingConfig         `yaml:"logging"`
	Server          ServerConfig          `yaml:"server"`
	Storage         StorageConfig         `yaml:"storage"`
}

type BackendConfig struct {
	Mode      string    `yaml:"mode"` // "http" or "sim"
	URL       string    `yaml:"url"`
	Token     string    `yaml:"token"`
	TimeoutMs int       `yaml:"timeout_ms"`
	Symbol    string    `yaml:"symbol"`
	Sim       SimConfig `yaml:"sim"`
}

type SimConfig struct {
	Login        string  `yaml:"login"`
	StartBalance float64 `yaml:"start_balance"`
	StartPrice   float64 `yaml:"start_price"`
	Volatility   float64 `yaml:"volatility"`
	Seed         int64   `yaml:"seed"`
	// Per-poll chances for the auto-trade cycle; zero OpenChance disables it.
	OpenChance  float64 `yaml:"open_chance"`
	CloseChance float64 `yaml:"close_chance"`
}

type PollingConfig struct {
	AccountIntervalMs int `yaml:"account_interval_ms"`
}

// MoneyManagementConfig selects the level table. An explicit Levels list
// wins; otherwise a table is generated when LotSizes is set; otherwise the
// reference table is used.
type MoneyManagementConfig struct {
	Currency         string        `yaml:"currency"`
	StartBalance     float64       `yaml:"start_balance"`
	GrowthFactor     float64       `yaml:"growth_factor"`
	DailyTargetPct   float64       `yaml:"daily_target_pct"`
	WeeklyTargetPct  float64       `yaml:"weekly_target_pct"`
	MonthlyTargetPct float64       `yaml:"monthly_target_pct"`
	LotSizes         []float64     `yaml:"lot_sizes"`
	Levels           []domain.Tier `yaml:"levels"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Mode:      "sim",
			URL:       "http://localhost:8000",
			TimeoutMs: 10000,
			Symbol:    "XAUUSD",
			Sim: SimConfig{
				Login:        "SIM-001",
				StartBalance: 100,
				StartPrice:   2350,
				Volatility:   0.0005,
				Seed:         1,
				OpenChance:   0.2,
				CloseChance:  0.1,
			},
		},
		Polling: PollingConfig{AccountIntervalMs: 5000},
		MoneyManagement: MoneyManagementConfig{
			Currency:         "USD",
			StartBalance:     100,
			GrowthFactor:     1.5,
			DailyTargetPct:   usecase.DefaultDailyTargetPct,
			WeeklyTargetPct:  usecase.DefaultWeeklyTargetPct,
			MonthlyTargetPct: usecase.DefaultMonthlyTargetPct,
		},
		Logging: LoggingConfig{Level: "info", Encoding: "json"},
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Path: "money_management.db"},
	}
}

// Load reads a .env file if present, then the YAML file at path over the
// defaults, then environment overrides. A missing YAML file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("open config: %w", err)
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("XAU_BACKEND_URL"); v != "" {
		c.Backend.URL = v
		c.Backend.Mode = "http"
	}
	if v := os.Getenv("XAU_BACKEND_TOKEN"); v != "" {
		c.Backend.Token = v
	}
	if v := os.Getenv("XAU_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("XAU_SERVER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("XAU_SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case "http":
		if c.Backend.URL == "" {
			return fmt.Errorf("backend.url is required for http mode")
		}
	case "sim":
		if c.Backend.Sim.StartBalance < 0 {
			return fmt.Errorf("backend.sim.start_balance must not be negative")
		}
		if c.Backend.Sim.StartPrice <= 0 {
			return fmt.Errorf("backend.sim.start_price must be positive")
		}
		if outsideUnit(c.Backend.Sim.OpenChance) || outsideUnit(c.Backend.Sim.CloseChance) {
			return fmt.Errorf("backend.sim open_chance and close_chance must be within [0,1]")
		}
	default:
		return fmt.Errorf("backend.mode must be 'http' or 'sim'")
	}
	if c.Polling.AccountIntervalMs <= 0 {
		return fmt.Errorf("polling.account_interval_ms must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range")
	}
	if _, err := c.MoneyManagement.Table(); err != nil {
		return fmt.Errorf("money_management: %w", err)
	}
	return nil
}

// Table resolves the configured level table.
func (m MoneyManagementConfig) Table() (domain.LevelTable, error) {
	if len(m.Levels) > 0 {
		return domain.NewLevelTable(m.Levels)
	}
	if len(m.LotSizes) > 0 {
		return usecase.BuildLevelTable(usecase.TableParams{
			StartBalance:     m.StartBalance,
			GrowthFactor:     m.GrowthFactor,
			DailyTargetPct:   m.DailyTargetPct,
			WeeklyTargetPct:  m.WeeklyTargetPct,
			MonthlyTargetPct: m.MonthlyTargetPct,
			LotSizes:         m.LotSizes,
		})
	}
	return usecase.DefaultLevelTable(), nil
}

func outsideUnit(v float64) bool {
	return v < 0 || v > 1
}
