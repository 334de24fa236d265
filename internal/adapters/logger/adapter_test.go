package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mockLogger implements Logger interface for testing.
type mockLogger struct {
	infoCalled  bool
	debugCalled bool
	warnCalled  bool
	errorCalled bool
	lastMsg     string
	lastFields  map[string]any
	lastErr     error
}

func (m *mockLogger) Info(_ context.Context, msg string, fields map[string]any) {
	m.infoCalled = true
	m.lastMsg = msg
	m.lastFields = fields
}

func (m *mockLogger) Debug(_ context.Context, msg string, fields map[string]any) {
	m.debugCalled = true
	m.lastMsg = msg
	m.lastFields = fields
}

func (m *mockLogger) Warn(_ context.Context, msg string, fields map[string]any) {
	m.warnCalled = true
	m.lastMsg = msg
	m.lastFields = fields
}

func (m *mockLogger) Error(_ context.Context, msg string, err error, fields map[string]any) {
	m.errorCalled = true
	m.lastMsg = msg
	m.lastErr = err
	m.lastFields = fields
}

func TestNewZapAdapter(t *testing.T) {
	mock := &mockLogger{}
	adapter := NewZapAdapter(mock)

	assert.NotNil(t, adapter)
}

func TestZapAdapter_Info(t *testing.T) {
	mock := &mockLogger{}
	adapter := NewZapAdapter(mock)
	ctx := context.Background()
	fields := map[string]any{"key": "value"}

	adapter.Info(ctx, "test message", fields)

	assert.True(t, mock.infoCalled)
	assert.Equal(t, "test message", mock.lastMsg)
	assert.Equal(t, fields, mock.lastFields)
}

func TestZapAdapter_Debug(t *testing.T) {
	mock := &mockLogger{}
	adapter := NewZapAdapter(mock)
	ctx := context.Background()
	fields := map[string]any{"debug": true}

	adapter.Debug(ctx, "debug message", fields)

	assert.True(t, mock.debugCalled)
	assert.Equal(t, "debug message", mock.lastMsg)
	assert.Equal(t, fields, mock.lastFields)
}

func TestZapAdapter_Warn(t *testing.T) {
	mock := &mockLogger{}
	adapter := NewZapAdapter(mock)
	ctx := context.Background()
	fields := map[string]any{"warning": "test"}

	adapter.Warn(ctx, "warn message", fields)

	assert.True(t, mock.warnCalled)
	assert.Equal(t, "warn message", mock.lastMsg)
	assert.Equal(t, fields, mock.lastFields)
}

func TestZapAdapter_Error(t *testing.T) {
	mock := &mockLogger{}
	adapter := NewZapAdapter(mock)
	ctx := context.Background()
	testErr := assert.AnError
	fields := map[string]any{"error_context": "test"}

	adapter.Error(ctx, "error message", testErr, fields)

	assert.True(t, mock.errorCalled)
	assert.Equal(t, "error message", mock.lastMsg)
	assert.Equal(t, testErr, mock.lastErr)
	assert.Equal(t, fields, mock.lastFields)
}

func TestZapAdapter_WithComponent(t *testing.T) {
	tests := []struct {
		name   string
		log    func(a *ZapAdapter, ctx context.Context, fields map[string]any)
		fields map[string]any
		want   map[string]any
	}{
		{
			name: "info adds component",
			log: func(a *ZapAdapter, ctx context.Context, fields map[string]any) {
				a.Info(ctx, "read unit status", fields)
			},
			fields: map[string]any{"unit": "."},
			want:   map[string]any{"unit": ".", "component": "git"},
		},
		{
			name: "debug with nil fields",
			log: func(a *ZapAdapter, ctx context.Context, fields map[string]any) {
				a.Debug(ctx, "described HEAD", fields)
			},
			fields: nil,
			want:   map[string]any{"component": "git"},
		},
		{
			name: "error keeps error argument",
			log: func(a *ZapAdapter, ctx context.Context, fields map[string]any) {
				a.Error(ctx, "failed to build version snapshot", assert.AnError, fields)
			},
			fields: map[string]any{"path": "/repo"},
			want:   map[string]any{"path": "/repo", "component": "git"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockLogger{}
			adapter := NewZapAdapter(mock).WithComponent("git")

			tt.log(adapter, context.Background(), tt.fields)

			assert.Equal(t, tt.want, mock.lastFields)
		})
	}
}

func TestZapAdapter_WithComponent_DoesNotMutateCallerFields(t *testing.T) {
	mock := &mockLogger{}
	base := NewZapAdapter(mock)
	adapter := base.WithComponent("snapshot")
	fields := map[string]any{"branch": "rel-1.0"}

	adapter.Warn(context.Background(), "HEAD is detached", fields)

	assert.Equal(t, map[string]any{"branch": "rel-1.0"}, fields)
	assert.Equal(t, "snapshot", mock.lastFields["component"])

	base.Warn(context.Background(), "HEAD is detached", fields)
	assert.NotContains(t, mock.lastFields, "component", "the parent adapter stays untagged")
}
