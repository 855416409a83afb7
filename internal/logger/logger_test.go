package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerLevels(t *testing.T) {
	ctx := context.Background()

	dev := handler(true, "")
	assert.IsType(t, &slog.TextHandler{}, dev)
	assert.True(t, dev.Enabled(ctx, slog.LevelDebug))

	prod := handler(false, "")
	assert.IsType(t, &slog.JSONHandler{}, prod)
	assert.False(t, prod.Enabled(ctx, slog.LevelDebug))
	assert.True(t, prod.Enabled(ctx, slog.LevelInfo))
}
