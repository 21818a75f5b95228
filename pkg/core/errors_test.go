package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	err := E(KindNotFound, "secret.get", "db_password", assert.AnError)
	assert.Contains(t, err.Error(), "secret.get")
	assert.Contains(t, err.Error(), "not_found")
	assert.Contains(t, err.Error(), "db_password")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "direct error",
			err:  E(KindTransient, "analytics.status", "exec-1", nil),
			want: KindTransient,
		},
		{
			name: "wrapped error",
			err:  fmt.Errorf("outer: %w", E(KindTimeout, "analytics.execute", "exec-2", nil)),
			want: KindTimeout,
		},
		{
			name: "untyped error",
			err:  assert.AnError,
			want: "",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestRefOfCarriesExecutionHandle(t *testing.T) {
	err := fmt.Errorf("run failed: %w", E(KindTimeout, "analytics.execute", "exec-42", nil))
	require.True(t, IsTimeout(err))
	assert.Equal(t, "exec-42", RefOf(err))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(E(KindNotFound, "op", "", nil)))
	assert.True(t, IsAccessDenied(E(KindAccessDenied, "op", "", nil)))
	assert.True(t, IsValidation(E(KindValidation, "op", "", nil)))
	assert.True(t, IsQuotaExceeded(E(KindQuotaExceeded, "op", "", nil)))
	assert.True(t, IsSchemaMismatch(E(KindSchemaMismatch, "op", "", nil)))
	assert.True(t, IsTransient(E(KindTransient, "op", "", nil)))
	assert.True(t, IsRemoteQuery(E(KindRemoteQuery, "op", "", nil)))
	assert.False(t, IsTransient(E(KindNotFound, "op", "", nil)))
}
