package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	APIConfig struct {
		BaseURL string
		Timeout time.Duration // 0: none enforced client-side
	}

	ServerConfig struct {
		Address         string
		Host            string
		DebugHost       string // "" disables the debug server
		ShutdownTimeout time.Duration
		SessionCookie   string
		SessionTTL      time.Duration
		SecureCookies   bool
		DisableReqLogs  bool
	}

	SessionConfig struct {
		Backend     string // memory, redis, postgres, sqlite, file
		RedisURL    string
		DatabaseURL string
		Dir         string // file backend
		Profile     string // file backend: one profile per terminal "tab"
	}

	Config struct {
		Env          string
		AppName      string
		Debug        bool
		TestMode     bool
		Build        string
		RollbarToken string
		LogLevel     string

		API     APIConfig
		Server  ServerConfig
		Session SessionConfig
	}
)

// LoadConfig reads the configuration from the environment.
// ENV selects the environment (DEV by default); `config/.env.<env>` is loaded when present.
func LoadConfig() (*Config, error) {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Solo Music Academy")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("logLevel", "info")
	v.SetDefault("apiBaseURL", "http://localhost:8080/api")
	v.SetDefault("apiTimeout", time.Duration(0))
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverHost", "localhost")
	v.SetDefault("debugHost", "")
	v.SetDefault("shutdownTimeout", 10*time.Second)
	v.SetDefault("sessionCookie", "academia_sid")
	v.SetDefault("sessionTTL", 7*24*time.Hour)
	v.SetDefault("secureCookies", false)
	v.SetDefault("disableReqLogs", false)
	v.SetDefault("sessionBackend", "memory")
	v.SetDefault("redisURL", "redis://localhost:6379/0")
	v.SetDefault("databaseURL", "")
	v.SetDefault("sessionDir", defaultSessionDir())
	v.SetDefault("sessionProfile", "default")
	v.SetDefault("testMode", false)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(configDir(), ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		LogLevel:     v.GetString("logLevel"),
		API: APIConfig{
			BaseURL: strings.TrimRight(v.GetString("apiBaseURL"), "/"),
			Timeout: v.GetDuration("apiTimeout"),
		},
		Server: ServerConfig{
			Address:         v.GetString("serverAddress"),
			Host:            v.GetString("serverHost"),
			DebugHost:       v.GetString("debugHost"),
			ShutdownTimeout: v.GetDuration("shutdownTimeout"),
			SessionCookie:   v.GetString("sessionCookie"),
			SessionTTL:      v.GetDuration("sessionTTL"),
			SecureCookies:   v.GetBool("secureCookies"),
			DisableReqLogs:  v.GetBool("disableReqLogs"),
		},
		Session: SessionConfig{
			Backend:     strings.ToLower(v.GetString("sessionBackend")),
			RedisURL:    v.GetString("redisURL"),
			DatabaseURL: v.GetString("databaseURL"),
			Dir:         v.GetString("sessionDir"),
			Profile:     v.GetString("sessionProfile"),
		},
	}, nil
}

func configDir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	return "config"
}

func defaultSessionDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "academia")
	}
	return ".academia"
}
