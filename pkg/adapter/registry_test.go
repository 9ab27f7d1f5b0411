package adapter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	connectErr error
	connected  bool
}

func (s *stubAdapter) Connect(_ context.Context, _ Config) error {
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connected = true
	return nil
}

func (s *stubAdapter) Close() error { return nil }

func (s *stubAdapter) GetTableMetadata(_ context.Context, _ string) (*Metadata, error) {
	return &Metadata{}, nil
}

func (s *stubAdapter) DialectName() string { return "hive" }

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"postgres", "sqlite"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "fake_db", "error should mention the unknown type 'fake_db'")
	assert.Contains(t, msg, "coltype.yaml", "error should mention config file")
}

func TestRegister(t *testing.T) {
	Register("Test_Adapter_Internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"), "registration is case insensitive")

	factory, ok := Get("TEST_ADAPTER_INTERNAL")
	assert.True(t, ok)
	assert.NotNil(t, factory)
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestNewAdapter(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err, "NewAdapter with empty type should fail")
	assert.Equal(t, "adapter type not specified", err.Error())

	_, err = NewAdapter(Config{Type: "does_not_exist"}, nil)
	var unknown *UnknownAdapterError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "does_not_exist", unknown.Type)
}

func TestOpen(t *testing.T) {
	ok := &stubAdapter{}
	Register("stub_ok", func(_ *slog.Logger) Adapter { return ok })
	failing := &stubAdapter{connectErr: assert.AnError}
	Register("stub_fail", func(_ *slog.Logger) Adapter { return failing })

	a, err := Open(context.Background(), Config{Type: "stub_ok"}, nil)
	require.NoError(t, err)
	assert.Same(t, ok, a)
	assert.True(t, ok.connected)

	_, err = Open(context.Background(), Config{Type: "stub_fail"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to connect stub_fail adapter")
}

func TestOptionValue(t *testing.T) {
	cfg := Config{Options: map[string]string{"layout": "information_schema", "empty": ""}}
	assert.Equal(t, "information_schema", OptionValue(cfg, "layout", LayoutMetastore))
	assert.Equal(t, "x", OptionValue(cfg, "empty", "x"))
	assert.Equal(t, "x", OptionValue(Config{}, "missing", "x"))
}
