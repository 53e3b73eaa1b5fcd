package configs

import (
	"errors"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/RadicalxChange/lanna-edges/internal/logger"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	JWT struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"jwt"`
	Decay struct {
		// Secret guards the admin depreciation endpoint.
		Secret    string  `mapstructure:"secret"`
		Retention float64 `mapstructure:"retention"`
		// Schedule is an optional cron spec; empty disables the in-process
		// scheduler (an external scheduler can hit the endpoint instead).
		Schedule string `mapstructure:"schedule"`
	} `mapstructure:"decay"`
	Notify struct {
		WebhookURL string `mapstructure:"webhook-url"`
	} `mapstructure:"notify"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("decay.retention", 0.95)

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &fileLookupError) {
			logger.Log.Fatal("config file not found", zap.Error(err))
		}
		logger.Log.Fatal("failed to read config", zap.Error(err))
	}

	viper.Unmarshal(&AppConfig)

	if AppConfig.JWT.Secret == "" {
		logger.Log.Fatal("jwt.secret is required")
	}
	if AppConfig.Decay.Secret == "" {
		logger.Log.Fatal("decay.secret is required")
	}
}
