package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     int            `json:"port"`
	Env      string         `json:"env"`
	Pepper   string         `json:"pepper"`
	HMACKey  string         `json:"hmac_key"`
	CSRFKey  string         `json:"csrf_key"`
	Database PostgresConfig `json:"database"`
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func DefaultConfig() Config {
	return Config{
		Port:     1111,
		Env:      "dev",
		Pepper:   "secret-random-string",
		HMACKey:  "secret-hmac-key",
		CSRFKey:  "32-byte-long-auth-key-goes-here!",
		Database: DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "warbler",
	}
}

// LoadConfig reads configuration from a .config.json file if present,
// otherwise falls back to the default dev setup. In production the file is
// required. A .env file, if present, plus real environment variables
// override individual values on top of either source.
func LoadConfig(prod bool) Config {
	c := DefaultConfig()
	f, err := os.Open(".config.json")
	if err != nil {
		if prod {
			panic("A .config.json file is required in production.")
		}
	} else {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			panic(err)
		}
		fmt.Println("Successfully loaded .config.json")
	}
	applyEnvOverrides(&c)
	if prod {
		c.Env = "prod"
	}
	return c
}

// applyEnvOverrides layers .env / environment values over the file config.
func applyEnvOverrides(c *Config) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv("PEPPER"); v != "" {
		c.Pepper = v
	}
	if v := os.Getenv("HMAC_KEY"); v != "" {
		c.HMACKey = v
	}
	if v := os.Getenv("CSRF_KEY"); v != "" {
		c.CSRFKey = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Database.Port = port
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		c.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
}
