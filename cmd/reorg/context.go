package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"reorg/internal/config"
	"reorg/internal/engine"
	"reorg/internal/journal"
	"reorg/internal/logging"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	engineOnce sync.Once
	engine     *engine.Engine
	store      *journal.Store
	logger     *slog.Logger
	engineErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

// configPath returns the --config flag value, empty when unset.
func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureEngine lazily builds the logger, opens the journal store, and wires
// the engine. The store holds the journal lock until close.
func (c *commandContext) ensureEngine() (*engine.Engine, error) {
	c.engineOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.engineErr = err
			return
		}
		outputs := []string{"stderr"}
		if cfg.Paths.LogDir != "" {
			outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, "reorg.log"))
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: outputs,
		})
		if err != nil {
			c.engineErr = err
			return
		}
		store, err := journal.Open(cfg.Paths.JournalDir, logger)
		if err != nil {
			c.engineErr = err
			return
		}
		c.logger = logger
		c.store = store
		c.engine = engine.New(cfg, store, logger)
	})
	return c.engine, c.engineErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
}
