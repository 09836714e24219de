package repository

import (
	"errors"

	"gorm.io/gorm"
)

// IsDuplicateKey reports whether err is a unique-constraint violation.
// Callers on the ingestion path treat this as "skip", not as a failure: the
// constraint is the authoritative backstop against concurrent duplicates.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
