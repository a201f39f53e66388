package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate key")
	ErrForeignKey     = errors.New("foreign key violated")
	ErrCheckViolation = errors.New("check constraint violated")
	ErrSerialization  = errors.New("serialization failure")
	ErrStockShortage  = errors.New("stock shortage")
	ErrStateChanged   = errors.New("state changed concurrently")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func (r *GormRepo) isPostgres() bool {
	return r.DB.Dialector.Name() == "postgres"
}

// InTx runs fn in one transaction, serializable on Postgres. SQLite already
// serializes writers and rejects the isolation option.
func (r *GormRepo) InTx(ctx context.Context, fn func(tx *GormRepo) error) error {
	var opts []*sql.TxOptions
	if r.isPostgres() {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	}, opts...)
	return classify(err)
}

// forUpdate locks the selected rows on Postgres. SQLite has no row locks.
func (r *GormRepo) forUpdate(q *gorm.DB) *gorm.DB {
	if r.isPostgres() {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrDuplicate, ErrForeignKey, ErrCheckViolation, ErrSerialization, ErrStockShortage, ErrStateChanged} {
		if errors.Is(err, known) {
			return err
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if sentinel := fromSQLState(pgErr.Code); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return err
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if sentinel := fromSQLState(string(pqErr.Code)); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return err
	}

	var liteErr *gosqlite.Error
	if errors.As(err, &liteErr) {
		if sentinel := fromSQLiteCode(liteErr.Code()); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
	}
	return err
}

// fromSQLiteCode maps extended result codes; the dialector only translates
// unique and foreign key failures.
func fromSQLiteCode(code int) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return ErrCheckViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrDuplicate
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ErrForeignKey
	}
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return ErrSerialization
	}
	return nil
}

func fromSQLState(code string) error {
	switch code {
	case "40001", "40P01":
		return ErrSerialization
	case "23505":
		return ErrDuplicate
	case "23503":
		return ErrForeignKey
	case "23514":
		return ErrCheckViolation
	}
	return nil
}

func exists(q *gorm.DB) (bool, error) {
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, classify(err)
	}
	return n > 0, nil
}
