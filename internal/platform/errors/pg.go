package errors

import (
	stderrs "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstates that do not follow their class
var pgStates = map[string]ErrorCode{
	"57014": ErrorCodeTimeout, // query_canceled, what statement_timeout raises
}

// pgClasses maps the two character SQLSTATE class
var pgClasses = map[string]ErrorCode{
	"08": ErrorCodeUnavailable,     // connection exception
	"22": ErrorCodeConfig,          // data exception: a stored policy that does not decode
	"23": ErrorCodeInvalidArgument, // integrity constraint
	"53": ErrorCodeUnavailable,     // insufficient resources
	"57": ErrorCodeUnavailable,     // operator intervention
}

// PgCode maps a postgres error to an ErrorCode; ok is false when err holds no *pgconn.PgError
func PgCode(err error) (code ErrorCode, ok bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}
	if c, hit := pgStates[pgErr.Code]; hit {
		return c, true
	}
	if len(pgErr.Code) >= 2 {
		if c, hit := pgClasses[pgErr.Code[:2]]; hit {
			return c, true
		}
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps a pgx error under msg. No rows is NotFound, anything
// not coming from the server is DB, nil stays nil
func FromPostgres(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case stderrs.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrorCodeNotFound, msg)
	}
	code, ok := PgCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return Wrap(err, code, msg)
}

// FromPostgresf is FromPostgres with a formatted message
func FromPostgresf(err error, format string, a ...any) error {
	return FromPostgres(err, fmt.Sprintf(format, a...))
}
