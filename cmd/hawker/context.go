package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"

	"hawker/internal/config"
	"hawker/internal/ipc"
	"hawker/internal/logging"
	"hawker/internal/registry"
	"hawker/internal/statestore"
	"hawker/internal/supervisor"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
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

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

// withSupervisor opens the state store, builds a supervisor over it, runs fn,
// and closes the store again. Nothing in-memory survives across commands.
func (c *commandContext) withSupervisor(logger *slog.Logger, fn func(*supervisor.Supervisor) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := statestore.Open(cfg.StatePath())
	if err != nil {
		return err
	}
	defer store.Close()

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	sup, err := supervisor.New(cfg, registry.New(store), logger,
		supervisor.WithSpawner(&supervisor.DetachedSpawner{
			Executable: exe,
			ConfigPath: c.configPath(),
		}))
	if err != nil {
		return err
	}
	return fn(sup)
}

func (c *commandContext) commandLogger() *slog.Logger {
	cfg := c.configValue()
	if cfg == nil {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) dialClient() (*ipc.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	socket := cfg.SocketPath()
	client, err := ipc.Dial(socket)
	if err != nil {
		return nil, wrapDialError(err, socket)
	}
	return client, nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to daemon: socket %s not found; start the daemon with `hawker start`", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to daemon: socket %s refused the connection; verify the daemon is running", socket)
	default:
		return fmt.Errorf("connect to daemon: %w", err)
	}
}
