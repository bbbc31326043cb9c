package storage

import (
	"errors"
	"sync"
	"testing"

	"github.com/parcelops/optimizer/internal/optimizer"
)

func TestNewMemoryStorageReturnsDefaults(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()

	got, err := store.GetBilling()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultBilling() {
		t.Fatalf("expected default billing %+v, got %+v", DefaultBilling(), got)
	}
}

func TestSetBillingUpdatesState(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	want := optimizer.Params{MaxWeight: 12, UnitCost: 3, DeliveryFee: 7, MinDeliveryWeight: 2}

	if err := store.SetBilling(want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetBilling()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSetBillingRejectsInvalidParams(t *testing.T) {
	t.Parallel()

	invalid := []optimizer.Params{
		{MaxWeight: 0},
		{MaxWeight: -1},
		{MaxWeight: 10, UnitCost: -1},
		{MaxWeight: 10, DeliveryFee: -1},
		{MaxWeight: 10, MinDeliveryWeight: -1},
	}

	store := NewMemoryStorage()
	for _, params := range invalid {
		if err := store.SetBilling(params); !errors.Is(err, ErrInvalidBilling) {
			t.Fatalf("expected ErrInvalidBilling for %+v, got %v", params, err)
		}
	}

	// A rejected update must not clobber the stored parameters.
	got, err := store.GetBilling()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DefaultBilling() {
		t.Fatalf("expected defaults to survive invalid updates, got %+v", got)
	}
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewMemoryStorage()
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.SetBilling(optimizer.Params{MaxWeight: float64(i + 1), UnitCost: 1})
		}(i)
		go func() {
			defer wg.Done()
			if _, err := store.GetBilling(); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := store.GetBilling()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MaxWeight <= 0 {
		t.Fatalf("expected a valid max weight after concurrent updates, got %v", got.MaxWeight)
	}
}
