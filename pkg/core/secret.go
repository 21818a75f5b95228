package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Redacted is the placeholder emitted anywhere a secret value could
// otherwise leak into logs or formatted output.
const Redacted = "[redacted]"

// Secret is a credential or configuration value resolved from a secret
// backend. The value never appears in String, GoString, or JSON output.
type Secret struct {
	// Name is the identifier the secret was requested under.
	Name string `json:"name"`

	// Value is the raw secret material. For structured credentials
	// (e.g. a service account blob) use Decode.
	Value string `json:"-"`

	// Source names the backend that resolved the secret (env, file,
	// static, remote).
	Source string `json:"source"`

	// Version is the backend version identifier, if the backend
	// versions its secrets. "latest" otherwise.
	Version string `json:"version,omitempty"`
}

// Decode unmarshals a structured secret value (YAML or JSON, since YAML
// is a superset) into out. Returns a validation error when the value is
// not a structured blob.
func (s Secret) Decode(out any) error {
	if err := yaml.Unmarshal([]byte(s.Value), out); err != nil {
		return E(KindValidation, "secret.decode", s.Name, fmt.Errorf("value is not a structured blob: %w", err))
	}
	return nil
}

// String implements fmt.Stringer without exposing the value.
func (s Secret) String() string {
	return fmt.Sprintf("Secret{name: %s, source: %s, value: %s}", s.Name, s.Source, Redacted)
}

// GoString keeps %#v output redacted as well.
func (s Secret) GoString() string {
	return s.String()
}
