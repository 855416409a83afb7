package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedisStore(rdb, "test"), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.Load(ctx, "sid")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Save(ctx, "sid", map[string]string{"lng": "es"}, time.Hour))
			values, err := store.Load(ctx, "sid")
			require.NoError(t, err)
			assert.Equal(t, "es", values["lng"])

			require.NoError(t, store.Delete(ctx, "sid"))
			_, err = store.Load(ctx, "sid")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestFlashIsReadOnce(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.PushFlash(ctx, "sid", "sessionErrorKey", `{"errors":{}}`, time.Minute))

			value, ok, err := store.PopFlash(ctx, "sid", "sessionErrorKey")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"errors":{}}`, value)

			_, ok, err = store.PopFlash(ctx, "sid", "sessionErrorKey")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestFlashIsScopedToSession(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.PushFlash(ctx, "sid-a", "k", "v", time.Minute))

			_, ok, err := store.PopFlash(ctx, "sid-b", "k")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRedisSessionExpires(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]string{"a": "b"}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisSessionIsJSONString(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]string{"lng": "ru"}, time.Hour))

	key := store.sessionKey("sid")
	assert.Equal(t, "string", mr.Type(key))
	value, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lng":"ru"}`, value)
	assert.Equal(t, time.Hour, mr.TTL(key))
}

func TestMemorySessionExpires(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]string{"a": "b"}, time.Minute))
	now = now.Add(2 * time.Minute)

	_, err := store.Load(ctx, "sid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, store.Save(ctx, "fresh", map[string]string{"a": "b"}, time.Hour))
	require.NoError(t, store.PushFlash(ctx, "old", "error", "x", time.Minute))
	now = now.Add(2 * time.Minute)

	store.Cleanup()

	assert.Equal(t, 1, store.Len())
	_, ok, err := store.PopFlash(ctx, "old", "error")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = store.Load(ctx, "fresh")
	assert.NoError(t, err)
}

func TestCookieCodec(t *testing.T) {
	codec := NewCookieCodec("secret")

	value, err := codec.Encode("sid", time.Now().Add(time.Hour))
	require.NoError(t, err)

	id, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, "sid", id)

	_, err = NewCookieCodec("other").Decode(value)
	assert.ErrorIs(t, err, ErrInvalidCookie)

	expired, err := codec.Encode("sid", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = codec.Decode(expired)
	assert.ErrorIs(t, err, ErrInvalidCookie)
}

func TestManagerCommitAndReload(t *testing.T) {
	manager := NewManager(NewMemoryStore(), NewCookieCodec("secret"), time.Hour, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(r)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	require.NoError(t, manager.Commit(r.Context(), w, sess))
	assert.Empty(t, w.Result().Cookies(), "untouched sessions set no cookie")

	sess.Set("lng", "ru")
	w = httptest.NewRecorder()
	require.NoError(t, manager.Commit(r.Context(), w, sess))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	reloaded, err := manager.Load(r2)
	require.NoError(t, err)
	assert.Equal(t, sess.ID(), reloaded.ID())
	assert.Equal(t, "ru", reloaded.Get("lng"))
}

func TestManagerIgnoresTamperedCookie(t *testing.T) {
	manager := NewManager(NewMemoryStore(), NewCookieCodec("secret"), time.Hour, false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-jwt"})
	sess, err := manager.Load(r)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID())
	assert.Empty(t, sess.Get("principal"))
}

func TestManagerRegenerateAndDestroy(t *testing.T) {
	store := NewMemoryStore()
	manager := NewManager(store, NewCookieCodec("secret"), time.Hour, false)
	ctx := context.Background()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := manager.Load(r)
	require.NoError(t, err)
	sess.Set("k", "v")
	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), sess))

	oldID := sess.ID()
	require.NoError(t, manager.Regenerate(ctx, sess))
	assert.NotEqual(t, oldID, sess.ID())
	_, err = store.Load(ctx, oldID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, manager.Commit(ctx, httptest.NewRecorder(), sess))
	w := httptest.NewRecorder()
	require.NoError(t, manager.Destroy(ctx, w, sess))
	_, err = store.Load(ctx, sess.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, -1, w.Result().Cookies()[0].MaxAge)
}

func TestManagerFlash(t *testing.T) {
	manager := NewManager(NewMemoryStore(), NewCookieCodec("secret"), time.Hour, false)
	ctx := context.Background()

	sess, err := manager.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, manager.Flash(ctx, sess, "notice", "hello"))

	w := httptest.NewRecorder()
	require.NoError(t, manager.Commit(ctx, w, sess))
	assert.Len(t, w.Result().Cookies(), 1)

	value, ok := manager.TakeFlash(ctx, sess, "notice")
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	_, ok = manager.TakeFlash(ctx, sess, "notice")
	assert.False(t, ok)
}
