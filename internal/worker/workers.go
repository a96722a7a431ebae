package worker

import (
	"context"

	"go.uber.org/zap"
)

// HandlerRegistrar subscribes event handlers on the dispatcher.
type HandlerRegistrar interface {
	RegisterHandlers()
}

// Background is a loop that runs until stopped.
type Background interface {
	Start(ctx context.Context)
	Stop()
}

// Group starts the event handlers and background loops of the process.
type Group struct {
	handlers []HandlerRegistrar
	loops    []Background
	logger   *zap.Logger
}

// NewGroup builds a group. Nil entries are skipped.
func NewGroup(logger *zap.Logger, handlers []HandlerRegistrar, loops ...Background) *Group {
	g := &Group{logger: logger}
	for _, h := range handlers {
		if h != nil {
			g.handlers = append(g.handlers, h)
		}
	}
	for _, l := range loops {
		if l != nil {
			g.loops = append(g.loops, l)
		}
	}
	return g
}

// Start registers handlers before any loop runs, so early events are delivered.
func (g *Group) Start(ctx context.Context) {
	for _, h := range g.handlers {
		h.RegisterHandlers()
	}
	for _, l := range g.loops {
		l.Start(ctx)
	}
	g.logger.Info("workers started", zap.Int("handlers", len(g.handlers)), zap.Int("loops", len(g.loops)))
}

// Stop stops the loops in reverse start order.
func (g *Group) Stop() {
	for i := len(g.loops) - 1; i >= 0; i-- {
		g.loops[i].Stop()
	}
}
