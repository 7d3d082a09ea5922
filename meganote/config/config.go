package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML file.
const ConfigFileEnv = "MEGANOTE_CONFIG"

type Config struct {
	HTTPAddr       string        `yaml:"http_addr" env:"HTTP_ADDR"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT"`
	PublicOrigin   string        `yaml:"public_origin" env:"PUBLIC_ORIGIN"`
	StaticDir      string        `yaml:"static_dir" env:"STATIC_DIR"`
	LogDir         string        `yaml:"log_dir" env:"LOG_DIR"`

	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	DBUser         string `yaml:"db_user" env:"DB_USER"`
	DBPassword     string `yaml:"db_password" env:"DB_PASSWORD"`
	DBHost         string `yaml:"db_host" env:"DB_HOST"`
	DBPort         string `yaml:"db_port" env:"DB_PORT"`
	DBName         string `yaml:"db_name" env:"DB_NAME"`
	DBSSLMode      string `yaml:"db_sslmode" env:"DB_SSLMODE"`
	DBMaxOpenConns int    `yaml:"db_max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int    `yaml:"db_max_idle_conns" env:"DB_MAX_IDLE_CONNS"`

	JWTSecret  string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TOKEN_TTL"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	MessageMaxLength int `yaml:"message_max_length" env:"MESSAGE_MAX_LENGTH"`
}

func Default() Config {
	return Config{
		HTTPAddr:         ":8000",
		RequestTimeout:   60 * time.Second,
		PublicOrigin:     "http://localhost:8000",
		LogDir:           "./logs",
		DBHost:           "localhost",
		DBPort:           "5432",
		DBName:           "meganote",
		DBSSLMode:        "disable",
		DBMaxOpenConns:   20,
		DBMaxIdleConns:   5,
		TokenTTL:         time.Hour,
		BcryptCost:       10,
		MessageMaxLength: 4096,
	}
}

// LoadConfig layers defaults, the optional YAML file and the environment,
// in that order. A .env file in the working directory is loaded first.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := Default()
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.MessageMaxLength <= 0 {
		return fmt.Errorf("MESSAGE_MAX_LENGTH must be positive, got %d", c.MessageMaxLength)
	}
	return nil
}

// DSN returns DatabaseURL when set, otherwise a key/value DSN built from the DB_* fields.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost,
		c.DBPort,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBSSLMode,
	)
}
