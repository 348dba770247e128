package config

import (
	"github.com/rellab/rellab-server/server-go"
	"github.com/rellab/rellab-server/utils-go"
)

func ProvideServerConfig(config *Config) (*server.Config, error) {
	return utils.ConvertConfig[Config, server.Config](config)
}

func ProvideRedisConfig(config *Config) (*utils.RedisConfig, error) {
	return utils.ConvertConfig[Config, utils.RedisConfig](config)
}
