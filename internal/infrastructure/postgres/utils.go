package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/orderflow-api/internal/domain"
)

// Querier lo que los repositorios necesitan de un pool o de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE que se tratan aparte.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isRetryable conflictos de concurrencia que se resuelven repitiendo la transacción completa.
func isRetryable(err error) bool {
	switch pgCode(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	}
	return false
}

// storeErr traduce un error del driver a los errores de dominio. Lo que no tiene traducción
// es una falla de dependencia (reintentable por el llamador).
func storeErr(op string, err error) error {
	switch pgCode(err) {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s: %w", domain.ErrDuplicate, op, err)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s: %w", domain.ErrInsufficientStock, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrDependencyFailure, op, err)
}
