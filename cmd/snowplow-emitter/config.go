package main

import (
	"errors"
	"os"

	"github.com/spf13/viper"

	"github.com/snowplow-emitter/snowplow-emitter/internal/cmd/sender"
)

func loadConfig() (*sender.Config, error) {
	cfg := viper.New()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		cfg.SetConfigFile(path)
	} else {
		cfg.SetConfigName("config")
		cfg.SetConfigType("yaml")
		cfg.AddConfigPath("/etc/snowplow-emitter/")
		cfg.AddConfigPath(".")
	}
	sender.LoadViperDefaults(cfg)

	err := cfg.ReadInConfig()
	if err != nil {
		return nil, err
	}

	var senderCfg sender.Config
	sender.BindViperEnv(cfg, senderCfg)
	err = cfg.Unmarshal(&senderCfg)

	if err != nil {
		return nil, err
	}

	if senderCfg.CollectorURL == "" {
		return nil, errors.New("COLLECTOR_URL is required and can't be empty")
	}

	return &senderCfg, err
}
