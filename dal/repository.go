package dal

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Repository is the generic data access object for one table. The table name,
// primary key column and accepted column set are taken from T's gorm schema.
type Repository[T any] struct {
	db      *gorm.DB
	inTx    bool
	table   string
	pk      *schema.Field
	columns columnSet
	fields  []*schema.Field
}

// NewRepository parses T's schema and returns a repository bound to db.
func NewRepository[T any](db *gorm.DB) (*Repository[T], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("dal: parse schema %T: %w", *new(T), err)
	}
	sch := stmt.Schema
	if sch.PrioritizedPrimaryField == nil {
		return nil, fmt.Errorf("dal: %s has no single primary key", sch.Table)
	}
	cols := make(columnSet, len(sch.DBNames))
	for _, name := range sch.DBNames {
		cols[name] = struct{}{}
	}
	var fields []*schema.Field
	for _, f := range sch.Fields {
		if f.DBName == "" || f.PrimaryKey || f.AutoCreateTime > 0 || f.AutoUpdateTime > 0 {
			continue
		}
		fields = append(fields, f)
	}
	return &Repository[T]{
		db:      db,
		table:   sch.Table,
		pk:      sch.PrioritizedPrimaryField,
		columns: cols,
		fields:  fields,
	}, nil
}

func mustRepository[T any](db *gorm.DB) *Repository[T] {
	r, err := NewRepository[T](db)
	if err != nil {
		panic(err)
	}
	return r
}

// Table returns the table name.
func (r *Repository[T]) Table() string { return r.table }

// PrimaryKey returns the primary key column name.
func (r *Repository[T]) PrimaryKey() string { return r.pk.DBName }

// WithTx returns a copy of the repository that runs every statement on tx.
func (r *Repository[T]) WithTx(tx *gorm.DB) *Repository[T] {
	cp := *r
	cp.db = tx
	cp.inTx = true
	return &cp
}

func (r *Repository[T]) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) pkEq(id any) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: r.pk.DBName}, Value: id}
}

// order applies ordering, limit and offset. The primary key is always the
// final sort key so that windows over equal values are stable.
func (r *Repository[T]) order(db *gorm.DB, opts QueryOptions) (*gorm.DB, error) {
	if opts.OrderBy != "" {
		if err := r.columns.check(opts.OrderBy); err != nil {
			return nil, err
		}
		dir := opts.OrderDirection
		if dir == "" {
			dir = Asc
		}
		if dir != Asc && dir != Desc {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, dir)
		}
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: opts.OrderBy}, Desc: dir == Desc})
	}
	if opts.OrderBy != r.pk.DBName {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: r.pk.DBName}})
	}
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}
	return db, nil
}

// FindByID returns the row with the given primary key, or nil if none exists.
func (r *Repository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	var row T
	err := r.conn(ctx).Where(r.pkEq(id)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAll returns every row, honouring opts.
func (r *Repository[T]) FindAll(ctx context.Context, opts QueryOptions) ([]T, error) {
	return r.FindWhere(ctx, nil, opts)
}

// FindWhere returns rows matching every active condition.
func (r *Repository[T]) FindWhere(ctx context.Context, conds Conds, opts QueryOptions) ([]T, error) {
	db, _, err := r.columns.apply(r.conn(ctx), conds)
	if err != nil {
		return nil, err
	}
	if db, err = r.order(db, opts); err != nil {
		return nil, err
	}
	rows := make([]T, 0)
	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindOneWhere returns the first row matching conds, or nil.
func (r *Repository[T]) FindOneWhere(ctx context.Context, conds Conds) (*T, error) {
	rows, err := r.FindWhere(ctx, conds, QueryOptions{Limit: 1})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

// FindPaginated returns one page of the whole table. Total counts the whole
// table, which is exact because no filter is applied.
func (r *Repository[T]) FindPaginated(ctx context.Context, page, pageSize int, opts QueryOptions) (*Page[T], error) {
	return r.FindPaginatedWhere(ctx, nil, page, pageSize, opts)
}

// FindPaginatedWhere returns one page of the rows matching conds. Total is
// counted with the same predicates as the data query.
func (r *Repository[T]) FindPaginatedWhere(ctx context.Context, conds Conds, page, pageSize int, opts QueryOptions) (*Page[T], error) {
	page, pageSize = normalizePage(page, pageSize)

	total, err := r.Count(ctx, conds)
	if err != nil {
		return nil, err
	}
	opts.Limit = pageSize
	opts.Offset = (page - 1) * pageSize
	rows, err := r.FindWhere(ctx, conds, opts)
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Data:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// Create inserts row and returns it re-read from the database. The re-read
// uses the key the caller supplied or, when the key is generated, the key
// the driver reported for the insert. A string key is never generated, so a
// row without one is rejected before anything is written.
func (r *Repository[T]) Create(ctx context.Context, row *T) (*T, error) {
	rv := reflect.ValueOf(row).Elem()
	if _, zero := r.pk.ValueOf(ctx, rv); zero && r.pk.DataType == schema.String {
		return nil, fmt.Errorf("%w: %s", ErrNoInsertKey, r.table)
	}
	if err := r.conn(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	id, zero := r.pk.ValueOf(ctx, rv)
	if zero && r.pk.AutoIncrement {
		return nil, fmt.Errorf("%w: %s", ErrNoInsertKey, r.table)
	}
	created, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("%w: %s %v", ErrRowNotFoundAfterInsert, r.table, id)
	}
	return created, nil
}

// CreateMany inserts rows all-or-nothing. Outside a transaction it opens one;
// inside one it joins it.
func (r *Repository[T]) CreateMany(ctx context.Context, rows []*T) ([]*T, error) {
	if r.inTx {
		return r.createEach(ctx, rows)
	}
	var out []*T
	err := NewTransaction(r.db).Execute(ctx, func(tx *gorm.DB) error {
		var err error
		out, err = r.WithTx(tx).createEach(ctx, rows)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository[T]) createEach(ctx context.Context, rows []*T) ([]*T, error) {
	out := make([]*T, 0, len(rows))
	for _, row := range rows {
		created, err := r.Create(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

// Values returns every writable column of row keyed by column name, zero
// values included. The primary key and automatic timestamps are left out, so
// the result can be passed straight to Update.
func (r *Repository[T]) Values(ctx context.Context, row *T) map[string]any {
	rv := reflect.ValueOf(row).Elem()
	out := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		v, _ := f.ValueOf(ctx, rv)
		out[f.DBName] = v
	}
	return out
}

func (r *Repository[T]) changes(data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for col, v := range data {
		if col == r.pk.DBName {
			continue
		}
		if err := r.columns.check(col); err != nil {
			return nil, err
		}
		out[col] = v
	}
	return out, nil
}

// Update sets the given columns on the row with id and returns the row. The
// primary key is never updated. An empty change set is a plain re-read.
// Returns nil if no such row exists.
func (r *Repository[T]) Update(ctx context.Context, id any, data map[string]any) (*T, error) {
	set, err := r.changes(data)
	if err != nil {
		return nil, err
	}
	if len(set) > 0 {
		if err := r.conn(ctx).Model(new(T)).Where(r.pkEq(id)).Updates(set).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the row with id and reports whether a row was affected.
func (r *Repository[T]) Delete(ctx context.Context, id any) (bool, error) {
	res := r.conn(ctx).Where(r.pkEq(id)).Delete(new(T))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// UpdateMany sets data on every row matching conds and returns the affected
// count.
func (r *Repository[T]) UpdateMany(ctx context.Context, conds Conds, data map[string]any) (int64, error) {
	set, err := r.changes(data)
	if err != nil {
		return 0, err
	}
	if len(set) == 0 {
		return 0, ErrEmptyChanges
	}
	db, n, err := r.columns.apply(r.conn(ctx).Model(new(T)), conds)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrEmptyConditions
	}
	res := db.Updates(set)
	return res.RowsAffected, res.Error
}

// DeleteMany removes every row matching conds and returns the affected count.
func (r *Repository[T]) DeleteMany(ctx context.Context, conds Conds) (int64, error) {
	db, n, err := r.columns.apply(r.conn(ctx), conds)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrEmptyConditions
	}
	res := db.Delete(new(T))
	return res.RowsAffected, res.Error
}

// Count returns the number of rows matching conds; no conditions counts the
// whole table.
func (r *Repository[T]) Count(ctx context.Context, conds Conds) (int64, error) {
	db, _, err := r.columns.apply(r.conn(ctx).Model(new(T)), conds)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := db.Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Exists reports whether any row matches conds.
func (r *Repository[T]) Exists(ctx context.Context, conds Conds) (bool, error) {
	n, err := r.Count(ctx, conds)
	return n > 0, err
}
