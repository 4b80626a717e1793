package postgres

import (
	"context"

	"ministry/internal/errors"
	"ministry/internal/infra/persistence/model"

	"gorm.io/gorm"
)

// Migrate registers the custom join tables and auto-migrates every model.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	for _, jt := range model.JoinTables() {
		if err := db.SetupJoinTable(jt.Model, jt.Field, jt.Join); err != nil {
			return errors.Wrapf(err, "failed to set up join table for %s", jt.Field)
		}
	}

	if err := db.AutoMigrate(model.All()...); err != nil {
		return errors.Wrap(err, "failed to auto-migrate models")
	}

	return nil
}
