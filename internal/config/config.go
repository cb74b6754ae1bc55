// Package config loads blog.toml.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Config mirrors blog.toml. Both tables are optional in the file; commands
// fail when the table they need is missing.
type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Client *ClientConfig `mapstructure:"client"`
}

// ServerConfig configures the serving side. Domain is the public host used
// to build permalinks; it and Author are required for the feed to build.
// DB is an SQLite file path, or a postgres:// URL to select PostgreSQL.
type ServerConfig struct {
	BlogName    string            `mapstructure:"blog_name"`
	Author      string            `mapstructure:"author"`
	Description string            `mapstructure:"description"`
	Domain      string            `mapstructure:"domain"`
	Addr        string            `mapstructure:"addr"`
	DB          string            `mapstructure:"db"`
	FooterLinks map[string]string `mapstructure:"footer_links"`
}

// ClientConfig configures the remote publishing commands.
type ClientConfig struct {
	Addr   string `mapstructure:"addr"`
	Secret string `mapstructure:"secret"`
}

// Load reads and decodes the config file at the given path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Server != nil {
		if cfg.Server.Addr == "" {
			cfg.Server.Addr = "127.0.0.1:8000"
		}
		if cfg.Server.DB == "" {
			cfg.Server.DB = "articles.db"
		}
	}
	return cfg, nil
}

// ServerOrErr returns the server table or an error when it is absent.
func (c *Config) ServerOrErr() (*ServerConfig, error) {
	if c.Server == nil {
		return nil, errors.New("no server config found")
	}
	return c.Server, nil
}

// ClientOrErr returns the client table or an error when it is absent.
func (c *Config) ClientOrErr() (*ClientConfig, error) {
	if c.Client == nil {
		return nil, errors.New("no client config found")
	}
	return c.Client, nil
}
