package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_StableAcrossParamOrder(t *testing.T) {
	a := Key("gleif", map[string]string{"name": "Acme", "limit": "3"})
	b := Key("gleif", map[string]string{"limit": "3", "name": "Acme"})
	assert.Equal(t, a, b)
}

func TestKey_DistinctParamsDistinctKeys(t *testing.T) {
	a := Key("gleif", map[string]string{"name": "Acme"})
	b := Key("gleif", map[string]string{"name": "Globex"})
	assert.NotEqual(t, a, b)
}

func TestKey_NoParams(t *testing.T) {
	assert.Equal(t, "sec_tickers", Key("sec_tickers", nil))
}

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)

	m.Set(ctx, "k", []byte("v"), time.Minute)
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Entries)
}

func TestMemory_Expiry(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_Clear(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), time.Minute)
	m.Clear(ctx)
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_ZeroTTLNotStored(t *testing.T) {
	m := NewMemory()
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"), 0)
	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
}
