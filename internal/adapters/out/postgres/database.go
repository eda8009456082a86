package postgres

import (
	"fmt"

	"dronedelivery/internal/adapters/out/postgres/allocationpassrepo"
	"dronedelivery/internal/adapters/out/postgres/deliveryrecordrepo"

	"github.com/glebarez/sqlite"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported journal drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// OpenDB connects to the journal database. For DriverSQLite the dsn is a file
// path or ":memory:".
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = gorm_postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported journal driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open %s journal: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the journal tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&deliveryrecordrepo.DeliveryRecordDTO{}, &allocationpassrepo.AllocationPassDTO{})
}
