package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/pkg/database"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

func notFound(entity string) *appErrors.Error {
	return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
}

// lookupError maps a repository read failure.
func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	return appErrors.Internal(err, "failed to load "+entity)
}

// writeError maps a repository write failure. A foreign key violation on a write
// means the referenced university vanished after it was resolved.
func writeError(err error, entity, action string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFound(entity)
	case database.IsUniqueViolation(err):
		msg := entity + " already exists"
		if constraint := database.Constraint(err); constraint != "" {
			msg = fmt.Sprintf("%s (%s)", msg, constraint)
		}
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, msg)
	case database.IsForeignKeyViolation(err):
		return notFound("university")
	}
	return appErrors.Internal(err, fmt.Sprintf("failed to %s %s", action, entity))
}

func validationError(err error, entity string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+entity+" payload")
}

// parseStatusField converts a wire status into models.Status or an InvalidEnum error.
func parseStatusField(raw, field string) (models.Status, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInvalidEnum.Code, appErrors.ErrInvalidEnum.Status,
			fmt.Sprintf("invalid %s %q: expected ACTIVE or INACTIVE", field, raw))
	}
	return status, nil
}
