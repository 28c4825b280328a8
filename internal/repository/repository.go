// Package repository is the data-access layer. Every method returns either
// a result or an *apperr.Error: duplicate keys become conflict errors and
// any other storage failure becomes an internal error naming the operation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shop-service/pkg/apperr"
	"shop-service/prometheus"
)

var (
	idColumn = clause.Column{Name: "id"}
	byID     = clause.OrderByColumn{Column: idColumn}
)

// Scope narrows or decorates a query, e.g. with Preload or Order.
type Scope = func(*gorm.DB) *gorm.DB

// Repository implements the generic CRUD primitives for one model.
type Repository[T any] struct {
	db   *gorm.DB
	name string
}

// New creates a repository for T. name labels metrics and errors.
func New[T any](db *gorm.DB, name string) *Repository[T] {
	return &Repository[T]{db: db, name: name}
}

func (r *Repository[T]) query(ctx context.Context, scopes ...Scope) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(scopes...)
}

func (r *Repository[T]) op(action string) string {
	return r.name + "." + action
}

// FindAll returns every row ordered by id.
func (r *Repository[T]) FindAll(ctx context.Context, scopes ...Scope) ([]T, error) {
	defer prometheus.TrackDBOperation(r.op("find_all"))(time.Now())

	var out []T
	if err := r.query(ctx, scopes...).Order(byID).Find(&out).Error; err != nil {
		return nil, translate(r.op("find_all"), err)
	}
	return out, nil
}

// FindByKey looks a row up by primary key. A missing row is (zero, false, nil).
func (r *Repository[T]) FindByKey(ctx context.Context, id uint, scopes ...Scope) (T, bool, error) {
	defer prometheus.TrackDBOperation(r.op("find_by_key"))(time.Now())

	var out T
	err := r.query(ctx, scopes...).Where(clause.Eq{Column: idColumn, Value: id}).Take(&out).Error
	return found(out, r.op("find_by_key"), err)
}

// FindOne returns the first row whose field equals value.
func (r *Repository[T]) FindOne(ctx context.Context, field string, value any, scopes ...Scope) (T, bool, error) {
	defer prometheus.TrackDBOperation(r.op("find_one"))(time.Now())

	var out T
	err := r.query(ctx, scopes...).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).
		Order(byID).Take(&out).Error
	return found(out, r.op("find_one"), err)
}

// Exists reports whether a row with field = value exists. It is the
// entity-peek used by precondition checks.
func (r *Repository[T]) Exists(ctx context.Context, field string, value any) (bool, error) {
	count, err := r.Count(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: clause.Column{Name: field}, Value: value})
	})
	return count > 0, err
}

// Count counts the rows selected by scopes.
func (r *Repository[T]) Count(ctx context.Context, scopes ...Scope) (int64, error) {
	defer prometheus.TrackDBOperation(r.op("count"))(time.Now())

	var count int64
	if err := r.query(ctx, scopes...).Count(&count).Error; err != nil {
		return 0, translate(r.op("count"), err)
	}
	return count, nil
}

// Create inserts entity and its loaded associations.
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	defer prometheus.TrackDBOperation(r.op("create"))(time.Now())

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return translate(r.op("create"), err)
	}
	return nil
}

// Update writes the given columns of the row with primary key id. Columns
// not in fields are left untouched.
func (r *Repository[T]) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	defer prometheus.TrackDBOperation(r.op("update"))(time.Now())

	err := r.db.WithContext(ctx).Model(new(T)).
		Where(clause.Eq{Column: idColumn, Value: id}).
		Updates(fields).Error
	if err != nil {
		return translate(r.op("update"), err)
	}
	return nil
}

// Delete removes the row with primary key id and reports whether one existed.
func (r *Repository[T]) Delete(ctx context.Context, id uint) (bool, error) {
	defer prometheus.TrackDBOperation(r.op("delete"))(time.Now())

	res := r.db.WithContext(ctx).Where(clause.Eq{Column: idColumn, Value: id}).Delete(new(T))
	if res.Error != nil {
		return false, translate(r.op("delete"), res.Error)
	}
	return res.RowsAffected > 0, nil
}

// DeleteWhere removes every row whose field equals value.
func (r *Repository[T]) DeleteWhere(ctx context.Context, field string, value any) (int64, error) {
	defer prometheus.TrackDBOperation(r.op("delete_where"))(time.Now())

	res := r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: field}, Value: value}).Delete(new(T))
	if res.Error != nil {
		return 0, translate(r.op("delete_where"), res.Error)
	}
	return res.RowsAffected, nil
}

// Paginate returns one window of the rows selected by scope, ordered by id,
// together with the total number of matching rows.
func (r *Repository[T]) Paginate(ctx context.Context, scope Scope, offset, limit int, decorate ...Scope) ([]T, int64, error) {
	defer prometheus.TrackDBOperation(r.op("paginate"))(time.Now())

	total, err := r.Count(ctx, scope)
	if err != nil {
		return nil, 0, err
	}

	var out []T
	err = r.query(ctx, append([]Scope{scope}, decorate...)...).
		Order(byID).
		Offset(offset).Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, 0, translate(r.op("paginate"), err)
	}
	return out, total, nil
}

func found[T any](out T, op string, err error) (T, bool, error) {
	var zero T
	if err == nil {
		return out, true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	return zero, false, translate(op, err)
}

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apperr.Error{Code: apperr.EConflict, Msg: "Record with the same unique value already exists", Op: op, Err: err}
	}
	return apperr.Internal(op, fmt.Errorf("%s: %w", op, err))
}
