package global

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nathanieltooley/pokeduel/storage"
)

type GlobalConfig struct {
	// CollectionLocation is the json file saved teams live in
	CollectionLocation string
	// MoveCatalogLocation optionally points at a json or yaml file that replaces the built in moves
	MoveCatalogLocation string
	DatabaseDriver      string
	DatabaseDSN         string
	ListenAddr          string
	RoundDelayMs        int
	Debug               bool
}

const (
	ENV_DB_DRIVER      = "POKEDUEL_DB_DRIVER"
	ENV_DB_DSN         = "POKEDUEL_DB_DSN"
	ENV_ADDR           = "POKEDUEL_ADDR"
	ENV_ROUND_DELAY_MS = "POKEDUEL_ROUND_DELAY_MS"
	ENV_DEBUG          = "POKEDUEL_DEBUG"

	DEFAULT_LISTEN_ADDR    = ":8080"
	DEFAULT_ROUND_DELAY_MS = 1200
)

func DefaultConfigDir() string {
	configDir, _ := os.UserConfigDir()
	return filepath.Join(configDir, "pokeduel")
}

func DefaultConfigLocation() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

func SaveConfig(path string, config GlobalConfig) error {
	jsonString, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, jsonString, 0666)
}

// LoadConfig reads the config at path, writing out a default config if the file is missing or empty.
// Environment variables are applied last and are never written back to the file.
func LoadConfig(path string) (GlobalConfig, error) {
	configContents, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return GlobalConfig{}, err
	}

	var config GlobalConfig
	if len(configContents) > 0 {
		if err := json.Unmarshal(configContents, &config); err != nil {
			return GlobalConfig{}, err
		}
		config = populateConfig(config, filepath.Dir(path))
	} else {
		config = populateConfig(GlobalConfig{}, filepath.Dir(path))
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return config, err
		}
		if err := SaveConfig(path, config); err != nil {
			return config, err
		}
	}

	return applyEnv(config), nil
}

func populateConfig(config GlobalConfig, configDir string) GlobalConfig {
	if config.CollectionLocation == "" {
		config.CollectionLocation = filepath.Join(configDir, "saves", "teams.json")
	}
	if config.DatabaseDriver == "" {
		config.DatabaseDriver = storage.DRIVER_SQLITE
	}
	if config.DatabaseDSN == "" && config.DatabaseDriver == storage.DRIVER_SQLITE {
		config.DatabaseDSN = filepath.Join(configDir, "history.db")
	}
	if config.ListenAddr == "" {
		config.ListenAddr = DEFAULT_LISTEN_ADDR
	}
	if config.RoundDelayMs <= 0 {
		config.RoundDelayMs = DEFAULT_ROUND_DELAY_MS
	}

	return config
}

func applyEnv(config GlobalConfig) GlobalConfig {
	if driver := os.Getenv(ENV_DB_DRIVER); driver != "" {
		config.DatabaseDriver = driver
	}
	if dsn := os.Getenv(ENV_DB_DSN); dsn != "" {
		config.DatabaseDSN = dsn
	}
	if addr := os.Getenv(ENV_ADDR); addr != "" {
		config.ListenAddr = addr
	}
	if delay, err := strconv.Atoi(os.Getenv(ENV_ROUND_DELAY_MS)); err == nil && delay > 0 {
		config.RoundDelayMs = delay
	}
	if debug, err := strconv.ParseBool(os.Getenv(ENV_DEBUG)); err == nil {
		config.Debug = debug
	}

	return config
}
