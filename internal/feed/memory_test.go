package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDeliversToOwnerOnly(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	a, err := m.Subscribe(ctx, "alice")
	require.NoError(t, err)
	b, err := m.Subscribe(ctx, "bob")
	require.NoError(t, err)

	require.NoError(t, m.Publish(ctx, "alice"))

	select {
	case <-a.C():
	case <-time.After(time.Second):
		t.Fatal("alice did not receive signal")
	}
	select {
	case <-b.C():
		t.Fatal("bob received alice's signal")
	default:
	}
}

func TestMemoryCoalescesBursts(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sub, err := m.Subscribe(ctx, "u")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Publish(ctx, "u"))
	}

	<-sub.C()
	select {
	case <-sub.C():
		t.Fatal("burst was not coalesced")
	default:
	}
}

func TestMemoryCloseReleasesSubscription(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sub, err := m.Subscribe(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, 1, m.SubscriberCount("u"))

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.Equal(t, 0, m.SubscriberCount("u"))

	_, open := <-sub.C()
	assert.False(t, open)
	assert.NoError(t, m.Publish(ctx, "u"))
}

func TestMemoryClosedFeedRejects(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	sub, err := m.Subscribe(ctx, "u")
	require.NoError(t, err)

	require.NoError(t, m.Close())

	_, open := <-sub.C()
	assert.False(t, open)
	assert.ErrorIs(t, m.Publish(ctx, "u"), ErrClosed)
	_, err = m.Subscribe(ctx, "u")
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, sub.Close())
}

func TestRedisChannelName(t *testing.T) {
	r := NewRedis(nil, "", nil)
	assert.Equal(t, "cart:changed:42", r.Channel("42"))
}
