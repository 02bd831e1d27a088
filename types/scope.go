package types

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Scope partitions all persisted state into independent namespaces.
//
// Production holds real participant data; Sandbox holds test and pilot runs.
// The scope is decided exactly once at the API boundary (see ScopeFor) and
// threaded explicitly through every engine call. It is never re-derived
// downstream and never persisted as ambiguous state.
type Scope string

// The two valid scopes.
const (
	ScopeProduction Scope = "production"
	ScopeSandbox    Scope = "sandbox"
)

// testIDPrefixes mark participant ids that always route to the sandbox scope,
// matching the id conventions of the data collection front end.
var testIDPrefixes = []string{"TEST_", "UNKNOWN_"}

// Valid reports whether the scope is one of the two known scopes.
func (s Scope) Valid() bool {
	return s == ScopeProduction || s == ScopeSandbox
}

// String returns the scope name.
func (s Scope) String() string {
	return string(s)
}

// Key returns the storage key under which this scope's documents live.
func (s Scope) Key() string {
	return string(s)
}

// ScopeFor decides the scope for a participant.
//
// Intended to be called once at the API boundary. A participant is sandboxed
// when the caller says so explicitly or when the participant id carries one
// of the well-known test prefixes.
//
// Parameters:
//   - participantID: The participant identifier from the front end
//   - isTest: Explicit test flag from the caller
//
// Returns:
//   - Scope: ScopeSandbox for test traffic, ScopeProduction otherwise
func ScopeFor(participantID string, isTest bool) Scope {
	if isTest {
		return ScopeSandbox
	}
	for _, prefix := range testIDPrefixes {
		if strings.HasPrefix(participantID, prefix) {
			return ScopeSandbox
		}
	}

	return ScopeProduction
}

// NewParticipantID generates a participant id in the same shape the original
// front end used: "P_<unix millis>_<7 random base36 chars>".
//
// Parameters:
//   - now: Timestamp source (time.Now is the usual choice)
//
// Returns:
//   - string: A fresh participant id
func NewParticipantID(now time.Time) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	suffix := make([]byte, 7)
	for i := range suffix {
		suffix[i] = alphabet[rand.Intn(len(alphabet))] //nolint:gosec // non-cryptographic id suffix
	}

	return fmt.Sprintf("P_%d_%s", now.UnixMilli(), suffix)
}
