package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Keyword types recorded in the keywords table.
const (
	KeywordPrimary   = "primary"
	KeywordSecondary = "secondary"
)

// PromptRecorder persists generated prompts. PromptStore writes synchronously;
// AsyncRecorder queues for a background writer.
type PromptRecorder interface {
	RecordPrompt(ctx context.Context, e PromptEvent) error
}
