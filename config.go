package main

import (
	"os"

	"github.com/MixinNetwork/nfm/market"
	"github.com/MixinNetwork/nfm/mtg"
	"github.com/gofrs/uuid"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

type WorkerConfiguration struct {
	AssetId string `toml:"asset-id"`
}

type LoggerConfiguration struct {
	Level int `toml:"level"`
}

type Configuration struct {
	Market market.Configuration `toml:"market"`
	Worker WorkerConfiguration  `toml:"worker"`
	Logger LoggerConfiguration  `toml:"logger"`
	MTG    mtg.Configuration    `toml:"mtg"`
}

func Setup(path string) (*Configuration, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfiguration(f)
}

func parseConfiguration(data []byte) (*Configuration, error) {
	var conf Configuration
	err := toml.Unmarshal(data, &conf)
	if err != nil {
		return nil, err
	}
	_, _, err = conf.Market.Validate()
	if err != nil {
		return nil, err
	}
	id, err := uuid.FromString(conf.Worker.AssetId)
	if err != nil || id == uuid.Nil {
		return nil, errors.Errorf("invalid worker asset %s", conf.Worker.AssetId)
	}
	return &conf, nil
}
