package infra

import (
	"fmt"

	"github.com/gsagg03-cmyk/erpx/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DatabaseOptions selects the driver and optional instrumentation.
type DatabaseOptions struct {
	Driver  string // postgres | mysql
	DSN     string
	Tracing bool
}

// NewDatabase opens the GORM connection, runs AutoMigrate for every model and
// then applies idempotent SQL patches that GORM cannot express (CHECK
// constraints on stock and money columns).
func NewDatabase(opts DatabaseOptions) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case "", "postgres":
		dialector = postgres.Open(opts.DSN)
	case "mysql":
		dialector = mysql.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if opts.Tracing {
		if err := db.Use(otelgorm.NewPlugin()); err != nil {
			log.Warn().Err(err).Msg("db connected but otelgorm plugin failed to install")
		}
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and applies the schema patches.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Business{},
		&model.User{},
		&model.Product{},
		&model.StockEntry{},
		&model.Sale{},
		&model.ProfitRealization{},
		&model.Expense{},
		&model.VoucherSequence{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := dropStockEntryProductFK(db); err != nil {
		return err
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// stockEntryProductFK is the constraint older schemas created from the
// stock entry to product association. It blocked deleting emptied products.
const stockEntryProductFK = "fk_stock_entries_product"

func dropStockEntryProductFK(db *gorm.DB) error {
	m := db.Migrator()
	if !m.HasConstraint(&model.StockEntry{}, stockEntryProductFK) {
		return nil
	}
	if err := m.DropConstraint(&model.StockEntry{}, stockEntryProductFK); err != nil {
		return fmt.Errorf("drop %s: %w", stockEntryProductFK, err)
	}
	return nil
}

// applySchemaPatches adds CHECK constraints on the money and stock
// columns. Postgres only; each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	patches := []struct{ descr, sql string }{
		{"products.current_stock >= 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock_non_negative') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (current_stock >= 0);
  END IF;
END $$`},
		{"sales paid/due bounds", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_sales_paid_within_total') THEN
    ALTER TABLE sales ADD CONSTRAINT chk_sales_paid_within_total
      CHECK (paid_amount >= 0 AND paid_amount <= total_amount AND due_amount = total_amount - paid_amount);
  END IF;
END $$`},
		{"profit_realizations.payment_amount > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_realizations_positive_payment') THEN
    ALTER TABLE profit_realizations ADD CONSTRAINT chk_realizations_positive_payment CHECK (payment_amount > 0);
  END IF;
END $$`},
		{"expenses.amount > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_expenses_positive_amount') THEN
    ALTER TABLE expenses ADD CONSTRAINT chk_expenses_positive_amount CHECK (amount > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
