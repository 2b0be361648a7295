package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/pandit-seva/internal/database"
)

// DefaultTimeout bounds every repository call when the caller's context
// carries no earlier deadline.
const DefaultTimeout = 5 * time.Second

func bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case database.IsMissingReference(err):
		return ErrMissingReference
	case database.IsCheckViolation(err):
		return ErrConflict
	}
	return err
}
