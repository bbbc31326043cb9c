package storage

import (
	"errors"
	"sync"

	"github.com/parcelops/optimizer/internal/optimizer"
)

var (
	// ErrInvalidBilling indicates the provided billing parameters violate validation rules.
	ErrInvalidBilling = errors.New("billing parameters must have a positive max weight and non-negative costs")
)

var defaultBilling = optimizer.Params{
	MaxWeight:         30,
	UnitCost:          10,
	DeliveryFee:       25,
	MinDeliveryWeight: 5,
}

// Storage provides access to the default billing parameters used when an
// optimization request does not carry its own.
type Storage interface {
	GetBilling() (optimizer.Params, error)
	SetBilling(params optimizer.Params) error
}

// MemoryStorage keeps billing parameters in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu      sync.RWMutex
	billing optimizer.Params
}

// NewMemoryStorage initialises storage with the default billing parameters.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		billing: defaultBilling,
	}
}

// DefaultBilling returns the default billing parameters.
func DefaultBilling() optimizer.Params {
	return defaultBilling
}

// GetBilling returns the currently configured billing parameters.
func (s *MemoryStorage) GetBilling() (optimizer.Params, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.billing, nil
}

// SetBilling validates and stores the provided billing parameters.
func (s *MemoryStorage) SetBilling(params optimizer.Params) error {
	if err := Validate(params); err != nil {
		return err
	}

	s.mu.Lock()
	s.billing = params
	s.mu.Unlock()

	return nil
}

// Validate reports whether billing parameters are usable by the engine.
func Validate(params optimizer.Params) error {
	if params.MaxWeight <= 0 {
		return ErrInvalidBilling
	}
	if params.UnitCost < 0 || params.DeliveryFee < 0 || params.MinDeliveryWeight < 0 {
		return ErrInvalidBilling
	}
	return nil
}
