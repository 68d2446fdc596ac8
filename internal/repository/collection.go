// Package repository is the content repository client: collection-scoped list,
// get, insert, update and delete over the row store. It performs no caching;
// callers re-list after every mutation.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no row matches the primary key.
	ErrNotFound = errors.New("record not found")
	// ErrUnknownField is returned when a filter, order or update names a column
	// outside the collection's allow-list.
	ErrUnknownField = errors.New("unknown field")
	// ErrEmptyUpdate is returned when an update carries no fields.
	ErrEmptyUpdate = errors.New("empty update")
)

// RepositoryError wraps every failure coming back from the row store with the
// collection and operation that produced it.
type RepositoryError struct {
	Collection string
	Op         string
	Err        error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// Order sorts a list by one column.
type Order struct {
	Field string
	Desc  bool
}

// ListOptions narrows a List call. Filter is column equality; Limit <= 0 means no limit.
type ListOptions struct {
	Filter  map[string]interface{}
	OrderBy []Order
	Limit   int
}

// Collection is a typed handle on one named collection.
type Collection[T any] struct {
	db     *gorm.DB
	name   string
	fields map[string]struct{}
}

// NewCollection binds a model type to a collection name and its queryable columns.
func NewCollection[T any](gdb *gorm.DB, name string, fields ...string) *Collection[T] {
	allowed := make(map[string]struct{}, len(fields)+3)
	for _, f := range append([]string{"id", "created_at", "updated_at"}, fields...) {
		allowed[f] = struct{}{}
	}
	return &Collection[T]{db: gdb, name: name, fields: allowed}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

// WithDB returns a copy of the collection bound to another handle, typically a transaction.
func (c *Collection[T]) WithDB(gdb *gorm.DB) *Collection[T] {
	return &Collection[T]{db: gdb, name: c.name, fields: c.fields}
}

// List returns the matching rows. The result is never nil: on failure it is
// empty and the error is a *RepositoryError.
func (c *Collection[T]) List(ctx context.Context, opts ListOptions) ([]T, error) {
	items := make([]T, 0)

	query, err := c.scoped(ctx, opts.Filter)
	if err != nil {
		return items, c.fail("list", err)
	}

	for _, order := range opts.OrderBy {
		if !c.known(order.Field) {
			return items, c.fail("list", fmt.Errorf("%w: %s", ErrUnknownField, order.Field))
		}
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: order.Field}, Desc: order.Desc})
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	if err := query.Find(&items).Error; err != nil {
		return make([]T, 0), c.fail("list", err)
	}
	if items == nil {
		items = make([]T, 0)
	}
	return items, nil
}

// Get fetches one row by primary key.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, c.fail("get", ErrNotFound)
		}
		return item, c.fail("get", err)
	}
	return item, nil
}

// Insert creates the row; generated fields are written back into item.
func (c *Collection[T]) Insert(ctx context.Context, item *T) error {
	if err := c.db.WithContext(ctx).Create(item).Error; err != nil {
		return c.fail("insert", err)
	}
	return nil
}

// Update applies a partial update by primary key. Last write wins.
func (c *Collection[T]) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return c.fail("update", ErrEmptyUpdate)
	}
	for key := range fields {
		if !c.known(key) || key == "id" {
			return c.fail("update", fmt.Errorf("%w: %s", ErrUnknownField, key))
		}
	}

	result := c.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return c.fail("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.fail("update", ErrNotFound)
	}
	return nil
}

// Delete hard-deletes one row by primary key.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return c.fail("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return c.fail("delete", ErrNotFound)
	}
	return nil
}

// DeleteWhere removes every row matching the condition and reports how many went.
func (c *Collection[T]) DeleteWhere(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result := c.db.WithContext(ctx).Where(query, args...).Delete(new(T))
	if result.Error != nil {
		return 0, c.fail("delete", result.Error)
	}
	return result.RowsAffected, nil
}

// Count returns the number of rows matching the equality filter.
func (c *Collection[T]) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	query, err := c.scoped(ctx, filter)
	if err != nil {
		return 0, c.fail("count", err)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, c.fail("count", err)
	}
	return total, nil
}

func (c *Collection[T]) scoped(ctx context.Context, filter map[string]interface{}) (*gorm.DB, error) {
	query := c.db.WithContext(ctx).Model(new(T))
	if len(filter) == 0 {
		return query, nil
	}

	keys := make([]string, 0, len(filter))
	for key := range filter {
		if !c.known(key) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		query = query.Where(clause.Eq{Column: clause.Column{Name: key}, Value: filter[key]})
	}
	return query, nil
}

func (c *Collection[T]) known(field string) bool {
	_, ok := c.fields[field]
	return ok
}

func (c *Collection[T]) fail(op string, err error) error {
	return &RepositoryError{Collection: c.name, Op: op, Err: err}
}

// Snapshot runs fn inside one transaction so that every read it performs sees
// the same consistency point.
func Snapshot(ctx context.Context, gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	if err := gdb.WithContext(ctx).Transaction(fn); err != nil {
		var repoErr *RepositoryError
		if errors.As(err, &repoErr) {
			return err
		}
		return &RepositoryError{Collection: "*", Op: "snapshot", Err: err}
	}
	return nil
}
