package dal

import (
	"context"

	"gorm.io/gorm"
)

// Reader is the read surface shared by Repository and ReadOnly.
type Reader[T any] interface {
	Table() string
	PrimaryKey() string
	FindByID(ctx context.Context, id any) (*T, error)
	FindAll(ctx context.Context, opts QueryOptions) ([]T, error)
	FindWhere(ctx context.Context, conds Conds, opts QueryOptions) ([]T, error)
	FindOneWhere(ctx context.Context, conds Conds) (*T, error)
	FindPaginated(ctx context.Context, page, pageSize int, opts QueryOptions) (*Page[T], error)
	FindPaginatedWhere(ctx context.Context, conds Conds, page, pageSize int, opts QueryOptions) (*Page[T], error)
	Count(ctx context.Context, conds Conds) (int64, error)
	Exists(ctx context.Context, conds Conds) (bool, error)
}

// ReadOnly exposes only the read surface of a repository. Reference tables
// are served through it so request code has no mutation methods to call.
type ReadOnly[T any] struct {
	repo *Repository[T]
}

var (
	_ Reader[struct{ ID int }] = (*Repository[struct{ ID int }])(nil)
	_ Reader[struct{ ID int }] = (*ReadOnly[struct{ ID int }])(nil)
)

func mustReadOnly[T any](db *gorm.DB) *ReadOnly[T] {
	return &ReadOnly[T]{repo: mustRepository[T](db)}
}

func (r *ReadOnly[T]) Table() string      { return r.repo.Table() }
func (r *ReadOnly[T]) PrimaryKey() string { return r.repo.PrimaryKey() }

func (r *ReadOnly[T]) FindByID(ctx context.Context, id any) (*T, error) {
	return r.repo.FindByID(ctx, id)
}

func (r *ReadOnly[T]) FindAll(ctx context.Context, opts QueryOptions) ([]T, error) {
	return r.repo.FindAll(ctx, opts)
}

func (r *ReadOnly[T]) FindWhere(ctx context.Context, conds Conds, opts QueryOptions) ([]T, error) {
	return r.repo.FindWhere(ctx, conds, opts)
}

func (r *ReadOnly[T]) FindOneWhere(ctx context.Context, conds Conds) (*T, error) {
	return r.repo.FindOneWhere(ctx, conds)
}

func (r *ReadOnly[T]) FindPaginated(ctx context.Context, page, pageSize int, opts QueryOptions) (*Page[T], error) {
	return r.repo.FindPaginated(ctx, page, pageSize, opts)
}

func (r *ReadOnly[T]) FindPaginatedWhere(ctx context.Context, conds Conds, page, pageSize int, opts QueryOptions) (*Page[T], error) {
	return r.repo.FindPaginatedWhere(ctx, conds, page, pageSize, opts)
}

func (r *ReadOnly[T]) Count(ctx context.Context, conds Conds) (int64, error) {
	return r.repo.Count(ctx, conds)
}

func (r *ReadOnly[T]) Exists(ctx context.Context, conds Conds) (bool, error) {
	return r.repo.Exists(ctx, conds)
}
