package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// TestPasswordKeyring verifies store, lookup and delete against the in-memory keyring.
func TestPasswordKeyring(t *testing.T) {
	keyring.MockInit()

	_, ok, err := LookupPassword("desk.local:8080")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SavePassword("desk.local:8080", "hunter2"))
	pw, ok, err := LookupPassword("desk.local:8080")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hunter2", pw)

	require.NoError(t, ForgetPassword("desk.local:8080"))
	require.NoError(t, ForgetPassword("desk.local:8080"))
	_, ok, err = LookupPassword("desk.local:8080")
	require.NoError(t, err)
	assert.False(t, ok)
}
