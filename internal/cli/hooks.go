package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cellgraph/pkg/observability"
)

// logHooks writes observability events to the CLI logger at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.SheetHooks  = logHooks{}
	_ observability.RenderHooks = logHooks{}
	_ observability.CacheHooks  = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
)

// registerHooks routes library events to the CLI logger.
func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetSheetHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h logHooks) OnSetContents(name string, affected int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("set rejected", "cell", name, "error", err)
		return
	}
	h.logger.Debug("set", "cell", name, "affected", affected, "elapsed", d)
}

func (h logHooks) OnLoad(version string, cells int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("load failed", "version", version, "error", err)
		return
	}
	h.logger.Debug("replayed sheet", "version", version, "cells", cells, "elapsed", d)
}

func (h logHooks) OnRenderStart(_ context.Context, format string, nodes int) {
	h.logger.Debug("rendering", "format", format, "nodes", nodes)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "format", format, "error", err)
		return
	}
	h.logger.Debug("rendered", "format", format, "elapsed", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("served", "method", method, "path", path, "status", status, "elapsed", d.Round(time.Microsecond))
}
