package production

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/logger"
)

// ChannelPublisher forwards changes to a Go channel. Publish never blocks:
// a change that does not fit in the buffer is dropped and counted.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan<- core.Change
	closed  bool
	dropped atomic.Int64
	log     *zap.SugaredLogger
}

var _ core.Publisher = (*ChannelPublisher)(nil)

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- core.Change, log *zap.SugaredLogger) *ChannelPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &ChannelPublisher{ch: ch, log: log.Named(logger.ComponentPublisher)}
}

func (p *ChannelPublisher) Publish(ctx context.Context, change core.Change) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return core.ErrClosed
	}
	select {
	case p.ch <- change:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.dropped.Add(1)
		p.log.Debugw("Dropped change", "form", change.FormID, "action", change.Action.Type)
		return nil
	}
}

// Dropped returns the number of changes dropped on a full channel.
func (p *ChannelPublisher) Dropped() int64 { return p.dropped.Load() }

// Close closes the channel. Later calls are no-ops.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	close(p.ch)
	return nil
}
