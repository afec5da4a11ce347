package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config holds all runtime settings for the console. Values come from an
// optional config file (console.yaml) overlaid with EREGISTER_* environment
// variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Services ServicesConfig `mapstructure:"services"`
	Session  SessionConfig  `mapstructure:"session"`
	List     ListConfig     `mapstructure:"list"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
	Env  string `mapstructure:"env"`
}

type ServicesConfig struct {
	AuthBaseURL   string        `mapstructure:"auth_base_url"`
	CourseBaseURL string        `mapstructure:"course_base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	CookieName   string `mapstructure:"cookie_name"`
	CookieMaxAge int    `mapstructure:"cookie_max_age"`
}

type ListConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given directory (or the working directory
// when empty) and the environment.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetConfigName("console")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("EREGISTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env vars still apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "[config.Load] read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "[config.Load] unmarshal config")
	}

	if cfg.Services.AuthBaseURL == "" {
		return Config{}, errors.New("[config.Load] services.auth_base_url is required")
	}
	if cfg.Services.CourseBaseURL == "" {
		return Config{}, errors.New("[config.Load] services.course_base_url is required")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.env", "DEV")
	v.SetDefault("services.auth_base_url", "http://localhost:5000/api/")
	v.SetDefault("services.course_base_url", "http://localhost:5001/api/")
	v.SetDefault("services.timeout", 15*time.Second)
	v.SetDefault("session.cookie_name", "consoleSessionId")
	v.SetDefault("session.cookie_max_age", 12*60*60)
	v.SetDefault("list.page_size", 50)
	v.SetDefault("list.search_debounce", 500*time.Millisecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}
