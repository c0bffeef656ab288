package presence

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"mapchat/internal/app/user"
)

func testUser(id string, lat, lon float64) user.User {
	return user.User{
		ID:        id,
		Name:      "user-" + id,
		Color:     "#FF6B6B",
		Latitude:  lat,
		Longitude: lon,
	}
}

func TestRegistry_UpsertRequiresID(t *testing.T) {
	r := NewRegistry()

	if err := r.Upsert(user.User{Name: "anonymous"}); err == nil {
		t.Fatal("expected error for empty user id, got nil")
	}
	if r.Len() != 0 {
		t.Errorf("registry should stay empty after rejected upsert, has %d entries", r.Len())
	}
}

func TestRegistry_UpsertIdempotence(t *testing.T) {
	r := NewRegistry()
	u := testUser("a", 10, 20)

	if err := r.Upsert(u); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if err := r.Upsert(u); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("expected 1 entry after double upsert, got %d", r.Len())
	}

	got, ok := r.Get("a")
	if !ok {
		t.Fatal("Get(a) reported not found")
	}
	if !reflect.DeepEqual(got, u) {
		t.Errorf("Get(a) = %+v, want %+v", got, u)
	}
}

func TestRegistry_UpsertReplacesWholesale(t *testing.T) {
	r := NewRegistry()

	if err := r.Upsert(testUser("a", 10, 20)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	moved := testUser("a", 11, 21)
	if err := r.Upsert(moved); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if r.Len() != 1 {
		t.Fatalf("upsert for existing id must not add an entry, got %d", r.Len())
	}

	got, _ := r.Get("a")
	if got.Latitude != 11 || got.Longitude != 21 {
		t.Errorf("entry not replaced: got position (%v, %v)", got.Latitude, got.Longitude)
	}
}

func TestRegistry_RemoveCompleteness(t *testing.T) {
	r := NewRegistry()

	if err := r.Upsert(testUser("a", 0, 0)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := r.Upsert(testUser("b", 0, 0)); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	r.Remove("a")

	if _, ok := r.Get("a"); ok {
		t.Error("Get(a) found entry after Remove")
	}

	for _, u := range r.Nearby(testUser("b", 0, 0), 100) {
		if u.ID == "a" {
			t.Error("removed user still appears in Nearby result")
		}
	}

	// Removing an absent id is a no-op.
	r.Remove("a")
	r.Remove("never-joined")

	if r.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegistry_AllSnapshot(t *testing.T) {
	r := NewRegistry()

	for i := 0; i < 5; i++ {
		if err := r.Upsert(testUser(fmt.Sprintf("u%d", i), float64(i), 0)); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	all := r.All()
	if len(all) != 5 {
		t.Fatalf("All() returned %d entries, want 5", len(all))
	}

	// Mutating the registry after All must not affect the snapshot.
	r.Remove("u0")
	if len(all) != 5 {
		t.Error("snapshot changed after registry mutation")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("u%d", n)
			for j := 0; j < 100; j++ {
				if err := r.Upsert(testUser(id, float64(j), 0)); err != nil {
					t.Errorf("upsert failed: %v", err)
					return
				}
				r.Get(id)
				r.All()
				r.Nearby(testUser(id, 0, 0), 100)
			}
			r.Remove(id)
		}(i)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("expected empty registry after all goroutines removed themselves, got %d", r.Len())
	}
}
