package storage

import "openlark/pkg/serrors"

// Transaction misuse. Both are programming errors, so they carry the
// internal kind and surface as 500 through the API.
var (
	// ErrAlreadyInTx is returned by Begin on a handle that is already a transaction.
	ErrAlreadyInTx = serrors.With(serrors.ErrInternal, "storage: already in tx")
	// ErrNotInTx is returned by Commit or Rollback outside a transaction.
	ErrNotInTx = serrors.With(serrors.ErrInternal, "storage: not in tx")
)
