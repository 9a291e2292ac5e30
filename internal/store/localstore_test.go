package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreGetMissingSlot(t *testing.T) {
	local := newTestLocal(t)

	_, ok, err := local.Get("nothing-here")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStoreSetOverwrites(t *testing.T) {
	local := newTestLocal(t)

	require.NoError(t, local.Set("slot", "first"))
	require.NoError(t, local.Set("slot", "second"))

	value, ok, err := local.Get("slot")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", value)
}
