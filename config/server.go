package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ServerConfig contains process-level settings for the dedicated server.
// Values come from an optional .env file and the environment; command-line
// flags override them.
type ServerConfig struct {
	Name       string
	Port       uint   // necs websocket port
	HTTPAddr   string // browser websocket + health listener
	StaticDir  string // optional directory served at /
	Arena      string // optional TMX file replacing the embedded arena
	Control    string
	ReadyUp    bool
	RandServe  bool
	MasterURL  string
	PublicAddr string
	Region     string
	Version    string
	RedisURL   string
}

// DefaultServer returns the settings used when nothing is configured.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Name:      "Super Pong Server",
		Port:      7373,
		HTTPAddr:  ":8080",
		Control:   "direct",
		RandServe: true,
		Region:    "local",
	}
}

// LoadServer reads the given env files (".env" when none are named) into the
// process environment and builds a ServerConfig from it. Missing files are
// not an error.
func LoadServer(files ...string) (ServerConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return ServerConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
		log.Printf("[config] loaded environment from %s", f)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a ServerConfig from a lookup function.
func FromEnv(getenv func(string) string) (ServerConfig, error) {
	c := DefaultServer()

	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("SUPERPONG_NAME", &c.Name)
	str("SUPERPONG_HTTP_ADDR", &c.HTTPAddr)
	str("SUPERPONG_STATIC_DIR", &c.StaticDir)
	str("SUPERPONG_ARENA", &c.Arena)
	str("SUPERPONG_CONTROL", &c.Control)
	str("SUPERPONG_PUBLIC_ADDR", &c.PublicAddr)
	str("SUPERPONG_REGION", &c.Region)
	str("SUPERPONG_VERSION", &c.Version)
	str("MASTER_URL", &c.MasterURL)
	str("REDIS_URL", &c.RedisURL)

	if v := getenv("SUPERPONG_PORT"); v != "" {
		p, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("SUPERPONG_PORT: %w", err)
		}
		c.Port = uint(p)
	}
	if err := boolean("SUPERPONG_READY_UP", &c.ReadyUp); err != nil {
		return ServerConfig{}, err
	}
	if err := boolean("SUPERPONG_RANDOM_SERVE", &c.RandServe); err != nil {
		return ServerConfig{}, err
	}
	return c, nil
}
