package usecase

import (
	"errors"

	"github.com/fastygo/taskboard/domain"
)

// StoreError passes domain errors through and tags everything else as a store failure.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.StoreFailure(op, err)
}
