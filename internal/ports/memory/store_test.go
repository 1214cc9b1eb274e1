package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"durak/internal/ports"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "k", "v1"))
	require.NoError(t, s.Set(ctx, "k", "v2"))
	v, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"), "removing a missing key succeeds")
	assert.Equal(t, 0, s.Len())
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, _, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, ports.ErrEmptyKey)
	assert.ErrorIs(t, s.Set(ctx, "", "v"), ports.ErrEmptyKey)
	assert.ErrorIs(t, s.Remove(ctx, ""), ports.ErrEmptyKey)
}
