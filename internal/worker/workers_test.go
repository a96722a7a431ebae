package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type recorder struct {
	calls *[]string
	name  string
}

func (r recorder) RegisterHandlers() { *r.calls = append(*r.calls, r.name+":register") }
func (r recorder) Start(context.Context) { *r.calls = append(*r.calls, r.name+":start") }
func (r recorder) Stop() { *r.calls = append(*r.calls, r.name+":stop") }

func TestGroup_StartOrder(t *testing.T) {
	var calls []string
	g := NewGroup(zap.NewNop(),
		[]HandlerRegistrar{recorder{calls: &calls, name: "mail"}, nil},
		recorder{calls: &calls, name: "sweep"},
		nil,
		recorder{calls: &calls, name: "other"},
	)

	g.Start(context.Background())
	g.Stop()

	assert.Equal(t, []string{
		"mail:register",
		"sweep:start",
		"other:start",
		"other:stop",
		"sweep:stop",
	}, calls)
}
