package pagination

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// NewFinder creates an offset Finder over db. Ordering, filtering and any
// scopes must already be applied to db; count ignores the ordering.
func NewFinder[T any](db *gorm.DB) Finder[T] {
	return &gormFinder[T]{db: db}
}

type gormFinder[T any] struct {
	db *gorm.DB
}

func (f *gormFinder[T]) Count(ctx context.Context) (int, error) {
	db, err := f.session(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count")
	}
	return int(total), nil
}

func (f *gormFinder[T]) Find(ctx context.Context, skip, limit int) ([]T, error) {
	nodes := make([]T, 0)
	if limit <= 0 {
		return nodes, nil
	}
	db, err := f.session(ctx)
	if err != nil {
		return nil, err
	}
	if skip > 0 {
		db = db.Offset(skip)
	}
	if err := db.Limit(limit).Find(&nodes).Error; err != nil {
		return nil, errors.Wrap(err, "find")
	}
	return nodes, nil
}

func (f *gormFinder[T]) session(ctx context.Context) (*gorm.DB, error) {
	if f.db == nil {
		return nil, errors.New("db is nil")
	}
	db := f.db.WithContext(ctx)
	if db.Statement.Model != nil {
		return db, nil
	}
	model, err := newModel[T]()
	if err != nil {
		return nil, err
	}
	return db.Model(model), nil
}

// newModel returns a value usable as db.Model for T, which must be a struct
// or a struct pointer.
func newModel[T any]() (any, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	switch {
	case rt.Kind() == reflect.Struct:
		return reflect.New(rt).Interface(), nil
	case rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Struct:
		return reflect.New(rt.Elem()).Interface(), nil
	}
	return nil, errors.Errorf("invalid model type %s: db.Statement.Model is nil and T is not a struct or struct pointer", rt)
}
