package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/bank"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/config"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/entity"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/logging"
	"github.com/Automated-Datavault-Schema-Evolution/DataGenerator/internal/store"
)

// environment is everything a command needs to work on the corpus.
type environment struct {
	cfg     *config.Config
	logger  *slog.Logger
	catalog *entity.Catalog
	store   *store.Store
}

func loadEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, err
	}

	catalog, err := bank.Catalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build entity catalog: %w", err)
	}

	return &environment{
		cfg:     cfg,
		logger:  logger,
		catalog: catalog,
		store:   store.New(cfg.DataDir, cfg.ShardDir),
	}, nil
}

// parseEntities turns a list of entity names into types. Names may be
// given either as entity names or dataset names, comma separated or not.
func parseEntities(names []string) ([]entity.Type, error) {
	var types []entity.Type
	for _, raw := range names {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			t, err := entity.ParseType(name)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
	}
	return types, nil
}
