package mock

import (
	"context"

	"github.com/fwojciec/sitetext"
)

var _ sitetext.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of sitetext.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
