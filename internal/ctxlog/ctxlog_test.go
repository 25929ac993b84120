package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("Loaded model.")
	assert.Contains(t, buf.String(), "Loaded model.")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	fileCtx := With(ctx, "file", "main.hcl")
	FromContext(fileCtx).Info("Decoded model file.")
	FromContext(ctx).Info("Unscoped.")

	out := buf.String()
	assert.Contains(t, out, `msg="Decoded model file." file=main.hcl`)
	assert.Contains(t, out, `msg=Unscoped.`)
	assert.NotContains(t, out, "Unscoped. file=")
}
