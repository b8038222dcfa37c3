package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
)

func TestStoreRoundTrip(t *testing.T) {
	s := New(keyring.NewArrayKeyring(nil))
	key := APIPasswordKey("owner@workbuddy.pro")

	if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty ring err = %v, want ErrNotFound", err)
	}

	if err := s.Set(key, "password123"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	got, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "password123" {
		t.Fatalf("Get() = %q, want password123", got)
	}

	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := s.Get(key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(key); err != nil {
		t.Fatalf("Delete() of missing key error: %v", err)
	}
}

func TestKeysAreNamespaced(t *testing.T) {
	if APIPasswordKey("a@b.c") == InboxPasswordKey("a@b.c") {
		t.Fatal("API and inbox keys must differ for the same user")
	}
}
