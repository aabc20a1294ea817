package service

import (
	"github.com/dimatakoy/org-demo/internal/apperror"
	"github.com/dimatakoy/org-demo/internal/db"
)

func mapDatabaseError(err error) error {
	switch db.ClassifyConstraint(err) {
	case db.ConstraintUnique:
		return apperror.New(apperror.CodeConflict, "resource with the same unique attributes already exists")
	case db.ConstraintForeignKey:
		return apperror.New(apperror.CodeValidation, "invalid foreign key reference")
	}
	return err
}

// mapDeleteError treats a foreign key violation on delete as referential protection.
func mapDeleteError(err error, entity string) error {
	if db.ClassifyConstraint(err) == db.ConstraintForeignKey {
		return apperror.Protected(entity, entity+" is still referenced")
	}
	return err
}
