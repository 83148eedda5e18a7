package app

import (
	"context"
	"time"

	"github.com/vk/blockflow/internal/ctxlog"
	"github.com/vk/blockflow/internal/rpcadapter"
)

// Run drives the host loop: the periodic tick plus the operation queue
// that serializes external requests onto this goroutine. It returns when
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.appCfg.MetricsPort > 0 {
		a.startMetricsServer(ctx, a.appCfg.MetricsPort)
	}

	// ops carries closures posted by the RPC adapter; each is executed
	// here, between ticks, so no scheme operation ever runs concurrently
	// with an update cycle.
	ops := make(chan func())
	dispatch := func(fn func()) {
		done := make(chan struct{})
		select {
		case ops <- func() { fn(); close(done) }:
			<-done
		case <-ctx.Done():
		}
	}

	if a.appCfg.RPCAddr != "" {
		adapter := rpcadapter.New(a.scheme, dispatch, a.logger)
		go func() {
			if err := adapter.Serve(ctx, a.appCfg.RPCAddr); err != nil {
				a.logger.Error("rpc adapter stopped", "error", err)
			}
		}()
	}

	a.logger.Info("starting periodic update loop", "period", a.appCfg.TickPeriod)
	ticker := time.NewTicker(a.appCfg.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("update loop stopping")
			a.shutdownBlocks()
			return nil
		case op := <-ops:
			op()
		case now := <-ticker.C:
			a.scheme.Update(now)
		}
	}
}

// shutdownBlocks disables every block in reverse execution order.
func (a *App) shutdownBlocks() {
	if !a.scheme.DisableBlocks(a.scheme.GetBlocks(), false) {
		a.logger.Warn("some blocks failed to stop cleanly")
	}
}
