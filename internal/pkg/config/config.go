package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for our program, parsed from various
// sources. The `mapstructure` tags are used to map the fields to the
// viper configuration.
type Config struct {
	UserAgent         string `mapstructure:"user-agent"`
	MaxDepth          int    `mapstructure:"max-depth"`
	HTTPTimeout       int    `mapstructure:"http-timeout"`        // milliseconds
	MaxRetry          int    `mapstructure:"max-retry"`
	RetryBackoff      string `mapstructure:"retry-backoff"`       // exponential, linear or fixed
	RetryInitialDelay int    `mapstructure:"retry-initial-delay"` // milliseconds
	FollowScriptRefs  bool   `mapstructure:"follow-script-refs"`
	SandboxTimeout    int    `mapstructure:"sandbox-timeout"` // milliseconds
	LiteralTimeout    int    `mapstructure:"literal-timeout"` // milliseconds

	// Output
	Output string `mapstructure:"output"`
	Format string `mapstructure:"format"`

	// Logging
	NoStdoutLogging bool   `mapstructure:"no-stdout-log"`
	StdoutLogLevel  string `mapstructure:"log-level"`
	LogJSON         bool   `mapstructure:"log-json"`
	LogFile         string `mapstructure:"log-file"`
	LogFileLevel    string `mapstructure:"log-file-level"`
}

var (
	config *Config
	once   sync.Once
)

// InitConfig initializes the configuration.
// Flags -> Env -> Config file; latest has precedence over the rest.
func InitConfig() error {
	var err error
	once.Do(func() {
		config = &Config{}

		// Check if a config file is provided via flag
		if configFile := viper.GetString("config"); configFile != "" {
			viper.SetConfigFile(configFile)
		} else {
			home, homeErr := os.UserHomeDir()
			if homeErr != nil {
				fmt.Println(homeErr)
				os.Exit(1)
			}

			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName("launch-analyzer-config")
		}

		viper.SetEnvPrefix("LAUNCH_ANALYZER")
		replacer := strings.NewReplacer("-", "_", ".", "_")
		viper.SetEnvKeyReplacer(replacer)
		viper.AutomaticEnv()

		if readErr := viper.ReadInConfig(); readErr == nil {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}

		setDefaults()

		err = viper.Unmarshal(config)
	})
	return err
}

func setDefaults() {
	viper.SetDefault("user-agent", "adobe-launch-analyzer")
	viper.SetDefault("max-depth", 3)
	viper.SetDefault("http-timeout", 30000)
	viper.SetDefault("max-retry", 3)
	viper.SetDefault("retry-backoff", "exponential")
	viper.SetDefault("retry-initial-delay", 1000)
	viper.SetDefault("sandbox-timeout", 10000)
	viper.SetDefault("literal-timeout", 5000)
	viper.SetDefault("format", "json")
	viper.SetDefault("log-level", "info")
	viper.SetDefault("log-file-level", "info")
}

// BindFlags binds the flags to the viper configuration.
// This is needed because viper doesn't support same flag name accross
// multiple commands. Details here:
// https://github.com/spf13/viper/issues/375#issuecomment-794668149
func BindFlags(flagSet *pflag.FlagSet) {
	flagSet.VisitAll(func(flag *pflag.Flag) {
		viper.BindPFlag(flag.Name, flag)
	})
}

// Get returns the config struct
func Get() *Config {
	return config
}

// HTTPTimeoutDuration returns the per-request timeout as a duration.
func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Millisecond
}

// RetryInitialDelayDuration returns the backoff seed as a duration.
func (c *Config) RetryInitialDelayDuration() time.Duration {
	return time.Duration(c.RetryInitialDelay) * time.Millisecond
}

// SandboxTimeoutDuration returns the sandbox budget as a duration.
func (c *Config) SandboxTimeoutDuration() time.Duration {
	return time.Duration(c.SandboxTimeout) * time.Millisecond
}

// LiteralTimeoutDuration returns the literal-evaluation budget as a
// duration.
func (c *Config) LiteralTimeoutDuration() time.Duration {
	return time.Duration(c.LiteralTimeout) * time.Millisecond
}
