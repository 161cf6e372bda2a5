package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// wrapPgErr agrega al error el código, detalle y hint de PostgreSQL cuando existen,
// para que el log de un lote fallido tenga el diagnóstico completo.
func wrapPgErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	parts := []string{"code=" + pgErr.Code}
	if pgErr.Detail != "" {
		parts = append(parts, "detail="+pgErr.Detail)
	}
	if pgErr.Hint != "" {
		parts = append(parts, "hint="+pgErr.Hint)
	}
	if pgErr.ConstraintName != "" {
		parts = append(parts, "constraint="+pgErr.ConstraintName)
	}
	return fmt.Errorf("%s [%s]: %w", op, strings.Join(parts, " "), err)
}
