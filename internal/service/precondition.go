package service

import (
	"context"

	"shop-service/pkg/apperr"
)

// Peeker looks up whether a record with field = value exists.
type Peeker interface {
	Exists(ctx context.Context, field string, value any) (bool, error)
}

// RequireAbsent fails with a conflict when a matching record exists. The
// check is not atomic with the mutation that follows; unique indexes in
// storage reject the loser of a concurrent race.
func RequireAbsent(ctx context.Context, p Peeker, field string, value any, msg string) error {
	exists, err := p.Exists(ctx, field, value)
	if err != nil {
		return err
	}
	if exists {
		return apperr.Conflict(msg)
	}
	return nil
}

// RequirePresent fails with not found when no matching record exists.
func RequirePresent(ctx context.Context, p Peeker, field string, value any, msg string) error {
	exists, err := p.Exists(ctx, field, value)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound(msg)
	}
	return nil
}
