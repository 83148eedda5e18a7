package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/blockflow/internal/config"
	"github.com/vk/blockflow/internal/ctxlog"
	"github.com/vk/blockflow/internal/metrics"
	"github.com/vk/blockflow/internal/port"
	"github.com/vk/blockflow/internal/registry"
	"github.com/vk/blockflow/internal/scheme"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Model
	appCfg   *Config
	peers    *peerRegistry
	scheme   *scheme.Scheme
	metrics  *metrics.Registry
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance: configuration loaded, blocks instantiated and
// configured, the scheme assembled.
func NewApp(outW io.Writer, appCfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(appCfg.LogLevel, appCfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appCfg.SchemePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All block modules registered.", "count", len(modules))

	a := &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfgModel,
		appCfg:   appCfg,
		metrics:  metrics.New(),
	}
	if err := a.assembleScheme(); err != nil {
		return nil, err
	}
	return a, nil
}

// assembleScheme instantiates every declared block, configures it, and
// wires the scheme: connections and latches first, then the blocks join
// the scheme, then groups.
func (a *App) assembleScheme() error {
	a.peers = newPeerRegistry()

	for _, decl := range a.config.Blocks {
		factory, ok := a.registry.Factory(decl.Type)
		if !ok {
			return fmt.Errorf("block %q: unknown block type %q (registered: %v)",
				decl.Name, decl.Type, a.registry.Types())
		}
		h, err := factory.NewBlock(decl.Name, decl.Arguments)
		if err != nil {
			return fmt.Errorf("block %q: %w", decl.Name, err)
		}
		h.SetPeriod(port.Estimation, decl.EstimationPeriod)
		h.SetPeriod(port.Control, decl.ControlPeriod)
		if err := h.Configure(); err != nil {
			return err
		}
		if !a.peers.add(h) {
			return fmt.Errorf("block %q declared twice", decl.Name)
		}
	}

	a.scheme = scheme.New(a.peers,
		scheme.WithLogger(a.logger),
		scheme.WithMonitor(a.metrics))

	// Connections are declared against the peer namespace, so they can be
	// wired before the blocks join the scheme; latches must be in place
	// before any feedback edge would close a cycle.
	for _, conn := range a.config.Connections {
		if !a.scheme.Connect(conn.From, conn.To) {
			return fmt.Errorf("connection %s -> %s rejected", conn.From, conn.To)
		}
		if conn.Latched {
			src, sink := portOwner(conn.From), portOwner(conn.To)
			if !a.scheme.LatchConnections(src, sink, true) {
				return fmt.Errorf("latching %s -> %s rejected", src, sink)
			}
		}
	}

	for _, name := range a.peers.Names() {
		if !a.scheme.AddBlock(name) {
			return fmt.Errorf("block %q rejected by the scheme", name)
		}
	}

	for _, g := range a.config.Groups {
		if !a.scheme.AddGroup(g.Name, g.Members) {
			return fmt.Errorf("group %q rejected", g.Name)
		}
	}

	a.logger.Info("scheme assembled",
		"blocks", len(a.config.Blocks),
		"connections", len(a.config.Connections),
		"order", a.scheme.GetExecutionOrder())
	return nil
}

// portOwner strips the port component from a "block.port" reference.
func portOwner(ref string) string {
	if i := strings.LastIndex(ref, "."); i > 0 {
		return ref[:i]
	}
	return ref
}

// Scheme returns the assembled scheme. This is primarily for testing.
func (a *App) Scheme() *scheme.Scheme {
	return a.scheme
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
