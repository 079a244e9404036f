package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dtroode/landregistry-server/internal/model"
)

const uniqueViolation = "23505"

var constraintErrors = map[string]*model.Error{
	"users_username_key":       model.ErrDuplicateUsername,
	"users_email_key":          model.ErrDuplicateEmail,
	"users_address_key":        model.ErrDuplicateAddress,
	"parcels_ledger_id_key":    model.ErrDuplicateLedgerID,
	"transfers_ledger_ref_key": model.ErrDuplicateLedgerReference,
}

// mapConstraintError turns unique violations on known constraints into
// domain conflicts. Other errors are returned unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if domainErr, ok := constraintErrors[pgErr.ConstraintName]; ok {
		return domainErr.Wrap(err)
	}
	return err
}
