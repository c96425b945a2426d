package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	configFilePathENV = "CONFIG_FILE"
	tokenTelegramENV  = "TELEGRAM_TOKEN"
	databaseDSN       = "DATABASE_DSN"
	binanceKeyENV     = "BINANCE_API_KEY"
	binanceSecretENV  = "BINANCE_API_SECRET"
)

// Config ...
type Config struct {
	Telegram struct {
		Token  string `yaml:"token"`
		ChatID int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	DB      string `yaml:"db_dsn"`
	Binance struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		BaseURL   string `yaml:"base_url"`
	} `yaml:"binance"`
	Jaeger struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"jaeger"`

	// Strategy knobs. TrainsetEnd anchors the active pair vintage; the
	// price window starts 20 days before it so the rolling stats are warm
	// by the first tradeable bar.
	TrainsetEnd string `yaml:"trainset_end"` // YYYY-MM-DD

	RollingWindow int     `yaml:"rolling_window"` // bars, usually 20
	EntryMult     float64 `yaml:"entry_mult"`     // x rolling std
	ExitMult      float64 `yaml:"exit_mult"`      // x rolling mean

	// Fraction of account balance risked per pair. 0.04 allows full
	// allocation across 25 pairs.
	PositionSizePct float64 `yaml:"position_size_pct"`
}

func NewConfig() (*Config, error) {

	configFileName := os.Getenv(configFilePathENV)
	if configFileName == "" {
		configFileName = "values_local.yaml"
	}
	file, err := os.Open("configs/" + configFileName)
	if err != nil {
		log.Fatalf("Failed to open config file: %v", err)
	}

	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	config := Config{
		RollingWindow:   20,
		EntryMult:       0.5,
		ExitMult:        0.25,
		PositionSizePct: 0.04,
	}
	err = decoder.Decode(&config)
	if err != nil {
		log.Fatalf("Failed to decode config file: %v", err)
	}

	token := os.Getenv(tokenTelegramENV)
	if token != "" {
		config.Telegram.Token = token
	}

	dsn := os.Getenv(databaseDSN)
	if dsn != "" {
		config.DB = dsn
	}

	if v := os.Getenv(binanceKeyENV); v != "" {
		config.Binance.APIKey = v
	}
	if v := os.Getenv(binanceSecretENV); v != "" {
		config.Binance.APISecret = v
	}
	if config.Binance.BaseURL == "" {
		config.Binance.BaseURL = "https://fapi.binance.com"
	}

	return &config, nil
}

// TrainsetEndDate parses the configured vintage date.
func (c *Config) TrainsetEndDate() (time.Time, error) {
	return time.Parse("2006-01-02", c.TrainsetEnd)
}
