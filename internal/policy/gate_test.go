package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChangeGate(t *testing.T) {
	gate := NewChangeGate()

	t.Run("alter-role without expiration option is rejected", func(t *testing.T) {
		err := gate.Validate(AttributeChangeRequest{
			Kind:    KindAlterRole,
			Options: map[string]string{"password": "whatever"},
		})
		assertCode(t, err, CodeExpirationSettingRequired)
	})

	t.Run("alter-role with no options at all is rejected", func(t *testing.T) {
		err := gate.Validate(AttributeChangeRequest{Kind: KindAlterRole})
		assertCode(t, err, CodeExpirationSettingRequired)
	})

	t.Run("expiration option passes regardless of value", func(t *testing.T) {
		// Presence only: the value is judged later on the credential-check
		// path.
		assert.NoError(t, gate.Validate(AttributeChangeRequest{
			Kind:    KindAlterRole,
			Options: map[string]string{OptionValidUntil: ""},
		}))
		assert.NoError(t, gate.Validate(AttributeChangeRequest{
			Kind:    KindAlterRole,
			Options: map[string]string{OptionValidUntil: "not even a timestamp"},
		}))
	})

	t.Run("option name must match exactly", func(t *testing.T) {
		err := gate.Validate(AttributeChangeRequest{
			Kind:    KindAlterRole,
			Options: map[string]string{"validuntil": "2025-01-01"},
		})
		assertCode(t, err, CodeExpirationSettingRequired)
	})

	t.Run("other request kinds are ignored", func(t *testing.T) {
		assert.NoError(t, gate.Validate(AttributeChangeRequest{
			Kind:    RequestKind("create_role"),
			Options: map[string]string{},
		}))
	})
}
