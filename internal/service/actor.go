package service

import apperrors "github.com/spec-kit/finance-service/pkg/util/errorutil"

// Actor is the resolved caller of a ledger operation.
type Actor struct {
	UserID int64
	Admin  bool
}

// mayAccess reports whether the actor can act on rows owned by ownerID.
func (a Actor) mayAccess(ownerID int64) error {
	if a.Admin || a.UserID == ownerID {
		return nil
	}
	return apperrors.NewForbidden("not the owner")
}
