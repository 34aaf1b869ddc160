package impl

import (
	"strings"

	"healthtrack/internal/domain/entity"
	domainerrors "healthtrack/internal/domain/errors"

	"github.com/pkg/errors"
)

func joinRequired(fields []string) string {
	return strings.Join(fields, ", ") + ": this field is required"
}

// checkSelf rejects access to another user's account data.
func checkSelf(principal *entity.Principal, userID uint64) error {
	if principal == nil || principal.UserID != userID {
		return errors.Wrap(domainerrors.ErrForbidden, "access to another user's data")
	}

	return nil
}
