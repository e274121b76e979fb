package connector

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectorError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConnectorError
		want string
	}{
		{
			name: "operation only",
			err:  &ConnectorError{Operation: "list /Users"},
			want: "list /Users failed",
		},
		{
			name: "with backend and message",
			err:  &ConnectorError{Backend: "demo", Operation: "search", Message: "boom"},
			want: "demo search failed - boom",
		},
		{
			name: "with stderr",
			err: &ConnectorError{
				Backend:   "directory_tool",
				Operation: "read /Users/jdoe",
				Message:   "exit status 1",
				Stderr:    "eDSRecordNotFound",
			},
			want: "directory_tool read /Users/jdoe failed - exit status 1 - stderr: eDSRecordNotFound",
		},
		{
			name: "stderr equal to message is not repeated",
			err:  &ConnectorError{Operation: "list", Message: "same", Stderr: "same"},
			want: "list failed - same",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError("demo", "search", nil))

	existing := NewUnsupported("", "")
	wrapped := WrapError("network", "search", existing)
	var filled *ConnectorError
	require.ErrorAs(t, wrapped, &filled)
	assert.NotSame(t, existing, filled)
	assert.Equal(t, "network", filled.Backend)
	assert.Equal(t, "search", filled.Operation)
	assert.True(t, IsUnsupported(wrapped))

	// The shared error keeps its own fields.
	assert.Empty(t, existing.Backend)
	assert.Empty(t, existing.Operation)
	again := WrapError("directory_tool", "read", existing)
	require.ErrorAs(t, again, &filled)
	assert.Equal(t, "directory_tool", filled.Backend)
	assert.Equal(t, "read", filled.Operation)

	complete := NewUnsupported("network", "list")
	assert.Same(t, complete, WrapError("demo", "load", complete))

	plain := errors.New("boom")
	wrapped = WrapError("demo", "load", plain)
	assert.ErrorIs(t, wrapped, plain)
	assert.Equal(t, ErrorCategoryUnknown, GetErrorCategory(wrapped))

	exitErr := &exec.ExitError{Stderr: []byte("  no such node \n")}
	wrapped = WrapError("directory_tool", "list", exitErr)
	var connErr *ConnectorError
	require.ErrorAs(t, wrapped, &connErr)
	assert.Equal(t, "no such node", connErr.Stderr)
	assert.True(t, IsBackendUnreachable(wrapped))
}

func TestGetErrorCategory(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ErrorCategoryUnknown},
		{"unsupported", NewUnsupported("network", "search"), ErrorCategoryUnsupported},
		{"parse failure", NewParseFailure("directory_tool", "read", "bad", nil), ErrorCategoryParseFailure},
		{"wrapped connector error", fmt.Errorf("load: %w", NewBackendUnreachable("x", "y", "z", nil)), ErrorCategoryBackendUnreachable},
		{"deadline", context.DeadlineExceeded, ErrorCategoryBackendUnreachable},
		{"missing executable", &exec.Error{Name: "dscl", Err: exec.ErrNotFound}, ErrorCategoryBackendUnreachable},
		{"plain", errors.New("boom"), ErrorCategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetErrorCategory(tt.err))
		})
	}

	assert.True(t, IsParseFailure(NewParseFailure("a", "b", "c", nil)))
	assert.False(t, IsUnsupported(errors.New("boom")))
}
