package redact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	t.Parallel()

	require.Equal(t, "***", Token(""))
	require.Equal(t, "***", Token("abc"))
	require.Equal(t, "eyJhbG***", Token("eyJhbGciOiJIUzI1NiJ9.payload.sig"))
}

func TestPassword(t *testing.T) {
	t.Parallel()

	require.Equal(t, "[REDACTED_PASSWORD]", Password())
}

func TestUserID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "***", UserID("al"))
	require.Equal(t, "al***", UserID("alice"))
}
