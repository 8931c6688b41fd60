package main

import (
	"os"

	"github.com/hashicorp/go-hclog"

	"goicpbridge/bridge"
	"goicpbridge/config"
	"goicpbridge/trackers"
	"goicpbridge/workers"
	"goicpbridge/workers/handlers"
)

func main() {
	logger := hclog.New(&hclog.LoggerOptions{Name: "goicpbridge"})

	if err := config.Init(); err != nil {
		logger.Error("cannot load configuration", "err", err)
		os.Exit(1)
	}
	if level := hclog.LevelFromString(config.Config.Log.Level); level != hclog.NoLevel {
		logger.SetLevel(level)
	}
	logger.Info("starting ICP bridge gateway", "gateway", config.Config.Bridge.Gateway, "bridge", config.Config.Bridge.Address)

	registry := bridge.NewRegistry(config.Config.Bridge.Gateway, logger)

	client, err := registry.Load(config.Config.Bridge.Address)
	if err != nil {
		logger.Error("cannot load primary bridge", "err", err)
		os.Exit(1)
	}

	if subs, err := client.LoadSubBridges(); err == nil && len(subs) > 0 {
		logger.Info("delegated bridges loaded", "count", len(subs))
	}

	set := trackers.NewSet()
	defer set.Reset()

	handlers.Init(client, set, logger)

	workers.Worker_HTTP(logger)
}
