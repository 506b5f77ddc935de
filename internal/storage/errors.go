package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("storage: record not found")
	ErrDuplicate  = errors.New("storage: duplicate key")
	ErrForeignKey = errors.New("storage: foreign key violation")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError зводить помилки драйверів до помилок пакета storage.
// Оригінальна помилка залишається в ланцюжку для логування.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrForeignKey) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}

	// sqlite без перекладача помилок
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}

	return err
}
