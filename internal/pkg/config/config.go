package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`

	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`

	BaseUrl string `yaml:"base_url"`
	JWTKey  string `yaml:"jwt_key"`

	Policy Policy `yaml:"policy"`
}

// Policy groups the attendance transition knobs. Exit-count blacklisting is
// toggled here so the transition table stays intact while enforcement is off.
type Policy struct {
	DayStartThreshold    string `yaml:"day_start_threshold"`
	MaxAllowedExits      int    `yaml:"max_allowed_exits"`
	BlacklistWindowDays  int    `yaml:"blacklist_window_days"`
	EnforceExitBlacklist bool   `yaml:"enforce_exit_blacklist"`
}

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}

	if c.Policy.DayStartThreshold == "" {
		c.Policy.DayStartThreshold = "06:00"
	}
	if c.Policy.MaxAllowedExits == 0 {
		c.Policy.MaxAllowedExits = 3
	}
	if c.Policy.BlacklistWindowDays == 0 {
		c.Policy.BlacklistWindowDays = 3
	}

	return &c, nil
}
