package services

import (
	"context"
	"errors"

	"github.com/benitema/card-orders-api/pkg/datastore"
)

// HealthService reports whether the backing store answers.
type HealthService struct {
	store datastore.Store
}

func NewHealthService(store datastore.Store) *HealthService {
	return &HealthService{store: store}
}

func (s *HealthService) Get() error {
	_, err := s.store.Get(context.Background(), "health", 1)
	if err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
		return err
	}
	return nil
}
