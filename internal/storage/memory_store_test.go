package storage

import (
	"errors"
	"testing"
)

func TestMemoryStore_GetSet(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Get("reminders"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := s.Set("reminders", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := s.Get("reminders")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Get() = %q, want %q", got, "[]")
	}

	// Returned slices are copies.
	got[0] = 'x'
	again, _ := s.Get("reminders")
	if string(again) != "[]" {
		t.Errorf("stored value was mutated through returned slice: %q", again)
	}
}

func TestMemoryStore_Subscribe(t *testing.T) {
	s := NewMemoryStore()

	var calls []string
	unsubscribe := s.Subscribe("categories", func(v []byte) {
		calls = append(calls, string(v))
	})

	if err := s.Set("categories", []byte(`["a"]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if err := s.Set("reminders", []byte(`[]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	unsubscribe()
	unsubscribe()

	if err := s.Set("categories", []byte(`["b"]`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if len(calls) != 1 || calls[0] != `["a"]` {
		t.Errorf("unexpected subscriber calls: %v", calls)
	}
}

func TestSubscribers_OrderAndReentrancy(t *testing.T) {
	s := NewMemoryStore()

	var order []int
	s.Subscribe("k", func([]byte) { order = append(order, 1) })
	s.Subscribe("k", func([]byte) {
		order = append(order, 2)
		// Reading from inside a callback must not deadlock.
		if _, err := s.Get("k"); err != nil {
			t.Errorf("Get() inside subscriber failed: %v", err)
		}
	})

	if err := s.Set("k", []byte(`1`)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("subscribers ran in order %v, want [1 2]", order)
	}
}
