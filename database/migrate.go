package database

import (
	"fmt"

	"github.com/comanda-app/comanda/models"
	"github.com/comanda-app/comanda/utils"
	"gorm.io/gorm"
)

// Migrate -> AutoMigrate semua tabel, termasuk outbox db_changes
func Migrate(db *gorm.DB) error {
	for _, m := range models.AllModels() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("migrate %T: %w", m, err)
		}
	}
	utils.InfoLogger.WithField("tables", len(models.AllModels())).Info("migration finished")
	return nil
}
