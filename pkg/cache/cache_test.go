package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// backendsUnderTest returns the backends that need no external services.
func backendsUnderTest(t *testing.T) map[string]Cache {
	t.Helper()
	file, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return map[string]Cache{
		"file":   file,
		"memory": NewMemoryCache(),
		"scoped": NewScoped(NewMemoryCache(), "job:42:"),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
			}

			want := []byte(`{"islands":6}`)
			if err := c.Set(ctx, "k1", want, 0); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, ok, err := c.Get(ctx, "k1")
			if err != nil || !ok {
				t.Fatalf("Get(k1) = ok=%v err=%v, want hit", ok, err)
			}
			if string(got) != string(want) {
				t.Errorf("Get(k1) = %q, want %q", got, want)
			}

			if err := c.Delete(ctx, "k1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, ok, _ := c.Get(ctx, "k1"); ok {
				t.Error("Get after Delete returned a hit")
			}
			// Deleting again is fine.
			if err := c.Delete(ctx, "k1"); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestCacheExpiration(t *testing.T) {
	ctx := context.Background()
	for name, c := range backendsUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			defer c.Close()

			if err := c.Set(ctx, "short", []byte("x"), time.Millisecond); err != nil {
				t.Fatalf("Set: %v", err)
			}
			time.Sleep(20 * time.Millisecond)
			if _, ok, _ := c.Get(ctx, "short"); ok {
				t.Error("entry survived past its TTL")
			}
		})
	}
}

func TestMemoryCacheCopiesData(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	data := []byte("original")
	if err := c.Set(ctx, "k", data, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data[0] = 'X'

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "original" {
		t.Errorf("stored value mutated through caller slice: %q", got)
	}
	got[0] = 'Y'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "original" {
		t.Errorf("stored value mutated through returned slice: %q", again)
	}
}

func TestNullCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("null cache returned a hit")
	}
}

func TestScopedIsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryCache()
	a := NewScoped(shared, "a:")
	b := NewScoped(shared, "b:")

	if err := a.Set(ctx, "k", []byte("from-a"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := b.Get(ctx, "k"); ok {
		t.Error("namespace b sees namespace a's entry")
	}
	if got, ok, _ := a.Get(ctx, "k"); !ok || string(got) != "from-a" {
		t.Errorf("namespace a entry = %q ok=%v", got, ok)
	}
}

func TestUnwrapKeyStability(t *testing.T) {
	verts := []byte("v-payload")
	tris := []byte("t-payload")
	params := map[string]any{"angle": 30.0}

	k1 := UnwrapKey(verts, tris, params)
	k2 := UnwrapKey(verts, tris, params)
	if k1 != k2 {
		t.Errorf("same inputs produced different keys: %s vs %s", k1, k2)
	}
	if k3 := UnwrapKey(verts, []byte("other"), params); k3 == k1 {
		t.Error("different triangles produced the same key")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("non-retryable fails immediately", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return errors.New("permanent")
		})
		if err == nil || calls != 1 {
			t.Errorf("calls = %d err = %v, want 1 call and an error", calls, err)
		}
	})

	t.Run("retryable eventually succeeds", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(errors.New("transient"))
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("calls = %d err = %v, want success on second call", calls, err)
		}
	})
}
