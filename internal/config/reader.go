package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const configPathEnv = "CONFIG_PATH"

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// FileReader reads a YAML (or any format cleanenv supports) config file,
// then overrides its values with the environment.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", r.path, err)
	}

	return cfg, nil
}

// NewReader picks a FileReader when CONFIG_PATH is set, EnvReader otherwise.
func NewReader() Reader {
	if path := os.Getenv(configPathEnv); path != "" {
		return NewFileReader(path)
	}
	return NewEnvReader()
}

// URL renders the pgx connection string.
func (c PostgresConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     c.Database,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

// AllowsAllOrigins reports whether the CORS list names no origin or
// contains a wildcard. Blank entries are ignored.
func (c CORSConfig) AllowsAllOrigins() bool {
	named := false
	for _, origin := range c.AllowedOrigins {
		switch strings.TrimSpace(origin) {
		case "":
		case "*":
			return true
		default:
			named = true
		}
	}
	return !named
}
