package config

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/corray333/backend-labs/orderpay/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// MustInit loads .env and the config.yaml of serviceName, then sets up the
// default logger. A missing .env is not an error.
func MustInit(serviceName string) {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/" + serviceName)
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	viper.SetDefault("service.name", serviceName)
	SetupLogger()
}

func SetupLogger() {
	handler := logger.NewHandler(&slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("log.level")),
	})
	log := slog.New(handler).With("service", viper.GetString("service.name"))
	slog.SetDefault(log)
}
