package service

import (
	"errors"

	derrors "guestpass/pkg/domain-errors"
	"guestpass/pkg/platform/sentinel"
)

// storeError translates store facts into domain errors.
func storeError(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return derrors.New(derrors.CodeNotFound, notFoundMsg)
	}
	return derrors.Wrap(derrors.CodePersistence, "read guest record", err)
}
