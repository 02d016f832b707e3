package devotp

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Put(ctx, "challenge-1", "123456", time.Now().Add(time.Minute))

	otp, ok := store.Get(ctx, "challenge-1")
	if !ok || otp != "123456" {
		t.Fatalf("Get = %q, %v; want 123456, true", otp, ok)
	}
	if _, ok := store.Get(ctx, "challenge-2"); ok {
		t.Error("Get unknown challenge: want ok=false")
	}
}

func TestMemoryStore_Expired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	store.now = func() time.Time { return now }
	store.Put(ctx, "challenge-1", "123456", now.Add(time.Minute))

	store.now = func() time.Time { return now.Add(time.Minute) }
	if _, ok := store.Get(ctx, "challenge-1"); ok {
		t.Error("Get at expiry: want ok=false")
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d, want 0 after expired Get", store.Len())
	}
}

func TestMemoryStore_PutSweepsExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()
	store.now = func() time.Time { return now }
	store.Put(ctx, "old", "111111", now.Add(time.Second))

	store.now = func() time.Time { return now.Add(time.Minute) }
	store.Put(ctx, "new", "222222", now.Add(2*time.Minute))
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Put(ctx, "challenge-1", "123456", time.Now().Add(time.Minute))
	store.Delete(ctx, "challenge-1")
	if _, ok := store.Get(ctx, "challenge-1"); ok {
		t.Error("Get after Delete: want ok=false")
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	exp := time.Now().Add(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c-%d", i)
			store.Put(ctx, id, "123456", exp)
			if _, ok := store.Get(ctx, id); !ok {
				t.Errorf("Get(%s) missing", id)
			}
		}(i)
	}
	wg.Wait()
	if store.Len() != 50 {
		t.Errorf("Len = %d, want 50", store.Len())
	}
}
