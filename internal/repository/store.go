package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store is a generic gorm repository for records keyed by a string "id".
type Store[T any] struct {
	db *gorm.DB
}

func NewStore[T any](db *gorm.DB) *Store[T] {
	return &Store[T]{db: db}
}

// List returns every record matching the optional where clause, in order.
func (s *Store[T]) List(ctx context.Context, order string, where ...any) ([]T, error) {
	q := s.db.WithContext(ctx)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	if order != "" {
		q = q.Order(order)
	}
	result := make([]T, 0)
	if err := q.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (*T, error) {
	var result T
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (s *Store[T]) Create(ctx context.Context, resource *T) error {
	return s.db.WithContext(ctx).Create(resource).Error
}

// Replace overwrites every column of the record with id.
func (s *Store[T]) Replace(ctx context.Context, id string, resource *T) error {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Select("*").Updates(resource)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.missing(ctx, id)
	}
	return nil
}

// UpdateColumns sets the given columns on the record with id.
func (s *Store[T]) UpdateColumns(ctx context.Context, id string, columns map[string]any) error {
	res := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.missing(ctx, id)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// missing tells an absent id apart from an update that changed nothing,
// which some drivers also report as zero rows.
func (s *Store[T]) missing(ctx context.Context, id string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrRecordNotFound
	}
	return nil
}
