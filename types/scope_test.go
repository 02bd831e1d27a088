package types

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScopeFor(t *testing.T) {
	t.Parallel()

	t.Run("explicit test flag wins", func(t *testing.T) {
		require.Equal(t, ScopeSandbox, ScopeFor("P_123_abcdefg", true))
	})

	t.Run("test prefixes route to sandbox", func(t *testing.T) {
		require.Equal(t, ScopeSandbox, ScopeFor("TEST_participant", false))
		require.Equal(t, ScopeSandbox, ScopeFor("UNKNOWN_1712", false))
	})

	t.Run("regular ids route to production", func(t *testing.T) {
		require.Equal(t, ScopeProduction, ScopeFor("P_1712000000_ab12cd3", false))
	})
}

func TestScope_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, ScopeProduction.Valid())
	require.True(t, ScopeSandbox.Valid())
	require.False(t, Scope("staging").Valid())
	require.False(t, Scope("").Valid())
}

func TestNewParticipantID(t *testing.T) {
	t.Parallel()

	now := time.UnixMilli(1712000000000)
	id := NewParticipantID(now)

	require.True(t, strings.HasPrefix(id, "P_1712000000000_"))
	require.Len(t, id, len("P_1712000000000_")+7)
	require.Equal(t, ScopeProduction, ScopeFor(id, false))
}
