package gormrepos

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const uniqueViolationCode = "23505"

// trapNotFoundErr translates the ORM's missing-record error into the domain's.
func trapNotFoundErr(err, notFoundErr error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundErr
	}
	return err
}

// trapUniqueErr translates a unique constraint violation into the domain's
// already-exists error.
func trapUniqueErr(err, existsErr error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return existsErr
	}
	return err
}
