package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestID(t *testing.T) {
	ctx, id := WithRequestID(context.Background(), "")
	assert.NotEmpty(t, id)
	assert.Equal(t, id, RequestID(ctx))

	ctx, id = WithRequestID(context.Background(), "given")
	assert.Equal(t, "given", id)
	assert.Equal(t, "given", RequestID(ctx))

	assert.Empty(t, RequestID(context.Background()))
}

func TestTime_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	ctx, _ := WithRequestID(context.Background(), "r1")

	err := errors.New("boom")
	Time(ctx, "op.fail")(&err)
	var ok error
	Time(ctx, "op.ok")(&ok)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "op failed", entries[0].Message)
	assert.Equal(t, "op.fail", entries[0].ContextMap()["op"])
	assert.Equal(t, "r1", entries[0].ContextMap()["req_id"])
	assert.Equal(t, "op done", entries[1].Message)
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger("loud")
	assert.Error(t, err)
}
