package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Config is resolved in order from flags, CMFGAME_* environment variables,
// and the profile file ~/.cmfgame/env. The profile is read with godotenv
// but never exported into the process environment.
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	// Strategy is the bot strategy hint and autoplay use when --strategy is unset
	Strategy string
	Verbose  bool
}

func DefaultConfig() *Config {
	home := profileDir()
	env := profileLookup(filepath.Join(home, "env"))
	return &Config{
		ServerURL: env("CMFGAME_SERVER", "http://localhost:8080"),
		Token:     env("CMFGAME_TOKEN", ""),
		TokenFile: env("CMFGAME_TOKEN_FILE", filepath.Join(home, "token")),
		Output:    env("CMFGAME_OUTPUT", "text"),
		Strategy:  env("CMFGAME_STRATEGY", ""),
	}
}

// profileLookup prefers the process environment and falls back to the
// profile file. A missing or unreadable profile just means no fallbacks.
func profileLookup(path string) func(key, def string) string {
	profile, err := godotenv.Read(path)
	if err != nil {
		profile = map[string]string{}
	}
	return func(key, def string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		if v := profile[key]; v != "" {
			return v
		}
		return def
	}
}

func profileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cmfgame"
	}
	return filepath.Join(home, ".cmfgame")
}

// LoadToken reads the saved login token unless one was given explicitly.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Token = strings.TrimSpace(string(data))
	return nil
}

func (c *Config) SaveToken(token string) error {
	c.Token = token
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0o600)
}

// ClearToken forgets the token on logout.
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
