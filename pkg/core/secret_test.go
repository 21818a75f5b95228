package core

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretNeverExposesValue(t *testing.T) {
	s := Secret{Name: "api_key", Value: "hunter2", Source: "env"}

	assert.NotContains(t, s.String(), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%v", s), "hunter2")
	assert.NotContains(t, fmt.Sprintf("%#v", s), "hunter2")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hunter2")
	assert.Contains(t, string(data), "api_key")
}

func TestSecretDecode(t *testing.T) {
	type serviceAccount struct {
		ClientEmail string `yaml:"client_email" json:"client_email"`
		PrivateKey  string `yaml:"private_key" json:"private_key"`
	}

	t.Run("json blob", func(t *testing.T) {
		s := Secret{
			Name:  "svc_account",
			Value: `{"client_email": "svc@example.com", "private_key": "pk"}`,
		}
		var sa serviceAccount
		require.NoError(t, s.Decode(&sa))
		assert.Equal(t, "svc@example.com", sa.ClientEmail)
	})

	t.Run("yaml blob", func(t *testing.T) {
		s := Secret{Name: "svc_account", Value: "client_email: svc@example.com\nprivate_key: pk\n"}
		var sa serviceAccount
		require.NoError(t, s.Decode(&sa))
		assert.Equal(t, "pk", sa.PrivateKey)
	})

	t.Run("unstructured value", func(t *testing.T) {
		s := Secret{Name: "plain", Value: "not: [valid"}
		var sa serviceAccount
		err := s.Decode(&sa)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}
