package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behaviour every backend must share
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := s.Get(ctx, NamespaceCart, "absent")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, NamespaceCart, "client-1", []byte(`[]`)))
		got, err := s.Get(ctx, NamespaceCart, "client-1")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(got))
	})

	t.Run("last write wins", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, NamespaceReviews, "client-1", []byte(`"first"`)))
		require.NoError(t, s.Put(ctx, NamespaceReviews, "client-1", []byte(`"second"`)))
		got, err := s.Get(ctx, NamespaceReviews, "client-1")
		require.NoError(t, err)
		assert.Equal(t, `"second"`, string(got))
	})

	t.Run("namespaces are independent", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, NamespaceAuthToken, "client-2", []byte("token")))
		_, err := s.Get(ctx, NamespaceCustomImages, "client-2")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, NamespaceAuthToken, "client-3", []byte("token")))
		require.NoError(t, s.Delete(ctx, NamespaceAuthToken, "client-3"))
		_, err := s.Get(ctx, NamespaceAuthToken, "client-3")
		assert.ErrorIs(t, err, ErrNotFound)

		// deleting again is not an error
		assert.NoError(t, s.Delete(ctx, NamespaceAuthToken, "client-3"))
	})

	t.Run("json helpers", func(t *testing.T) {
		in := map[string]string{"p1": "https://img.example.com/p1.png"}
		require.NoError(t, WriteJSON(ctx, s, NamespaceCustomImages, "client-4", in))

		var out map[string]string
		require.NoError(t, ReadJSON(ctx, s, NamespaceCustomImages, "client-4", &out))
		assert.Equal(t, in, out)

		require.NoError(t, s.Put(ctx, NamespaceCustomImages, "client-5", []byte("{not json")))
		err := ReadJSON(ctx, s, NamespaceCustomImages, "client-5", &out)
		assert.ErrorIs(t, err, ErrCorrupt)

		err = ReadJSON(ctx, s, NamespaceCustomImages, "client-6", &out)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, s.Put(ctx, NamespaceCart, "k", value))
	value[0] = 'x'

	got, err := s.Get(ctx, NamespaceCart, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestMemoryStoreHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().Get(ctx, NamespaceCart, "k")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s := NewRedisStore(client, "test")
	defer s.Close()

	runStoreContract(t, s)

	assert.True(t, mr.Exists("test:cart:client-1"), "expected prefixed key layout")
}

// Property: any value written is read back byte-for-byte
func TestProperty_StoredValuesRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	properties := gopter.NewProperties(nil)

	properties.Property("put then get returns the same bytes", prop.ForAll(
		func(namespace string, key string, value string) bool {
			ctx := context.Background()
			if err := s.Put(ctx, namespace, key, []byte(value)); err != nil {
				return false
			}
			got, err := s.Get(ctx, namespace, key)
			return err == nil && string(got) == value
		},
		gen.OneConstOf(NamespaceCart, NamespaceReviews, NamespaceCustomImages, NamespaceAuthToken),
		gen.Identifier(),
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
