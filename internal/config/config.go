package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the storefront system.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RabbitMQConfig holds RabbitMQ connection configuration.
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Load reads configuration from a YAML file. The file is expected to be
// two levels deep: a section header followed by key-value pairs.
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	scanner := bufio.NewScanner(file)

	var section string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		if err := config.set(section, key, value); err != nil {
			return nil, fmt.Errorf("failed to set config value %s.%s: %w", section, key, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if config.Database.Host == "" || config.RabbitMQ.Host == "" {
		return nil, fmt.Errorf("config is missing database or rabbitmq host")
	}

	return config, nil
}

func (c *Config) set(section, key, value string) error {
	atoi := func(v string) (int, error) {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid integer value %q: %w", v, err)
		}
		return n, nil
	}

	switch section + "." + key {
	case "database.host":
		c.Database.Host = value
	case "database.port":
		port, err := atoi(value)
		if err != nil {
			return err
		}
		c.Database.Port = port
	case "database.user":
		c.Database.User = value
	case "database.password":
		c.Database.Password = value
	case "database.database":
		c.Database.Database = value
	case "rabbitmq.host":
		c.RabbitMQ.Host = value
	case "rabbitmq.port":
		port, err := atoi(value)
		if err != nil {
			return err
		}
		c.RabbitMQ.Port = port
	case "rabbitmq.user":
		c.RabbitMQ.User = value
	case "rabbitmq.password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown config key %s.%s", section, key)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL.
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}
