package service

import (
	"context"
	"errors"

	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
)

// RecordStore is the id-keyed persistence used for content, bookings and orders.
type RecordStore[T any] interface {
	List(ctx context.Context, order string, where ...any) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, record *T) error
	Replace(ctx context.Context, id string, record *T) error
	UpdateColumns(ctx context.Context, id string, columns map[string]any) error
	Delete(ctx context.Context, id string) error
}

func translateRecordError(op, resource, id string, err error) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.NewNotFoundError(resource, id)
	}
	return domain.NewBackendError(op, err)
}
