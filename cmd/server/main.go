package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fixdict/internal/api"
	"fixdict/internal/config"
	"fixdict/internal/dict"
)

func main() {
	cfg := config.LoadWithPath("fixdict.json")

	zerolog.SetGlobalLevel(cfg.ZerologLevel())
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	manifest, err := dict.LoadManifest(cfg.DictDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DictDir).Msg("cannot read dictionary directory")
	}
	if len(manifest.Versions) == 0 {
		log.Fatal().Str("dir", cfg.DictDir).Msg("no dictionary versions declared or found")
	}

	registry := dict.NewRegistry(cfg.DictDir, manifest.Versions)
	if !cfg.LazyLoad {
		registry.LoadAll()
	}

	deps := api.Deps{Registry: registry, DefaultVersion: cfg.DefaultVersion}
	log.Info().Str("port", cfg.Port).Str("default_version", cfg.DefaultVersion).Msg("starting fixdict server")
	if err := api.RunServer(":"+cfg.Port, deps); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
