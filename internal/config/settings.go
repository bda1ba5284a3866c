package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	PoolSize int    `mapstructure:"pool_size"`
}

func (d DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
	Pass string `mapstructure:"pass"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int64  `mapstructure:"token_ttl_hours"`
}

// BackendConfig describes one model backend the router can select.
type BackendConfig struct {
	Name     string        `mapstructure:"name"`     // e.g. "deepseek-r1-0528"
	Role     string        `mapstructure:"role"`     // "precision" | "fast"
	Provider string        `mapstructure:"provider"` // "openai" | "ollama" | "gemini"
	Timeout  time.Duration `mapstructure:"timeout"`
	Priority int           `mapstructure:"priority"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
}

// RouterConfig holds the tunables of the degrade/recover machinery.
// All thresholds are configuration, not code: the upstream service gives no
// debounce guidance, so operators tune these instead of a baked-in cooldown.
type RouterConfig struct {
	WindowSize             int             `mapstructure:"window_size"`
	MinSamples             int             `mapstructure:"min_samples"`
	DegradeTimeoutRate     float64         `mapstructure:"degrade_timeout_rate"`
	DegradeAvgLatency      time.Duration   `mapstructure:"degrade_avg_latency"`
	UnavailableTimeoutRate float64         `mapstructure:"unavailable_timeout_rate"`
	MaxContextTurns        int             `mapstructure:"max_context_turns"`
	ContextTTLMins         int64           `mapstructure:"context_ttl_mins"`
	PrecisionFirst         bool            `mapstructure:"precision_first"`
	Backends               []BackendConfig `mapstructure:"backends"`
}

type Settings struct {
	DB     DBConfig     `mapstructure:"database"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Router RouterConfig `mapstructure:"router"`
	Addr   string       `mapstructure:"addr"`
	Env    string       `mapstructure:"env"`
	Debug  bool         `mapstructure:"debug" default:"false"`
}

func Load() (*Settings, error) {
	viper.SetConfigName("config_" + genEnv())
	viper.AddConfigPath(".")
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var settings Settings
	if err := viper.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	settings.Router.ApplyDefaults()

	return &settings, nil
}

// ApplyDefaults fills unset router knobs with operational defaults:
// 30% timeout rate / 2min mean latency to degrade, 5-round context,
// 20-call window.
func (rc *RouterConfig) ApplyDefaults() {
	if rc.WindowSize == 0 {
		rc.WindowSize = 20
	}
	if rc.MinSamples == 0 {
		rc.MinSamples = 5
	}
	if rc.DegradeTimeoutRate == 0 {
		rc.DegradeTimeoutRate = 0.3
	}
	if rc.DegradeAvgLatency == 0 {
		rc.DegradeAvgLatency = 120 * time.Second
	}
	if rc.UnavailableTimeoutRate == 0 {
		rc.UnavailableTimeoutRate = 0.6
	}
	if rc.MaxContextTurns == 0 {
		rc.MaxContextTurns = 10 // 5 user/assistant rounds
	}
	if rc.ContextTTLMins == 0 {
		rc.ContextTTLMins = 24 * 60
	}
}

func genEnv() string {
	env := viper.GetString("ENV")
	if env == "" {
		return "dev"
	}
	return env
}
