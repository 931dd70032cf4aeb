package store

import (
	"context"
	"errors"

	"github.com/yamala-stream/DashSEO/internal/logger"
	"github.com/yamala-stream/DashSEO/internal/metrics"
)

// ErrQueueFull is returned when the async recorder cannot accept more events.
var ErrQueueFull = errors.New("prompt recorder queue full")

// AsyncRecorder hands prompt events to a single background writer so callers
// never wait on the database.
type AsyncRecorder struct {
	ch   chan PromptEvent
	next PromptRecorder
	log  *logger.Logger
}

// NewAsyncRecorder buffers up to size events in front of next.
func NewAsyncRecorder(next PromptRecorder, size int, log *logger.Logger) *AsyncRecorder {
	if size <= 0 {
		size = 256
	}
	return &AsyncRecorder{
		ch:   make(chan PromptEvent, size),
		next: next,
		log:  logger.OrNop(log),
	}
}

// RecordPrompt enqueues e without blocking.
func (r *AsyncRecorder) RecordPrompt(_ context.Context, e PromptEvent) error {
	select {
	case r.ch <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run writes queued events until ctx is cancelled, then drains whatever is
// still buffered before returning.
func (r *AsyncRecorder) Run(ctx context.Context) {
	for {
		select {
		case e := <-r.ch:
			r.write(context.WithoutCancel(ctx), e)
		case <-ctx.Done():
			for {
				select {
				case e := <-r.ch:
					r.write(context.WithoutCancel(ctx), e)
				default:
					return
				}
			}
		}
	}
}

func (r *AsyncRecorder) write(ctx context.Context, e PromptEvent) {
	if err := r.next.RecordPrompt(ctx, e); err != nil {
		metrics.PromptRecordErrorsTotal.Inc()
		r.log.Error("prompt write failed", "template", e.TemplateID, "err", err)
		return
	}
	metrics.PromptsRecordedTotal.Inc()
}
