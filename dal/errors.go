package dal

import (
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrTxAlreadyStarted       = errors.New("transaction already started")
	ErrNoActiveTx             = errors.New("no active transaction")
	ErrTxFinished             = errors.New("transaction already finished")
	ErrUnknownColumn          = errors.New("dal: unknown column")
	ErrInvalidDirection       = errors.New("dal: invalid order direction")
	ErrEmptyConditions        = errors.New("dal: bulk operation requires at least one condition")
	ErrEmptyChanges           = errors.New("dal: no columns to update")
	ErrNoInsertKey            = errors.New("dal: insert produced no primary key")
	ErrRowNotFoundAfterInsert = errors.New("dal: row not found after insert")
)

// IsUniqueViolation reports whether err is a duplicate-key failure from any
// of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate")
}
