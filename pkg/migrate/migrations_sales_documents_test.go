package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nasir97177/erpnext-magento/pkg/migrate"
)

func TestSalesDocumentsMigrationEnforcesSyncGuards(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_sales_documents.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no sales documents migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CONSTRAINT uq_sales_orders_magento_order_id UNIQUE (magento_order_id)",
		"CONSTRAINT uq_sales_invoices_magento_order_id UNIQUE (magento_order_id)",
		"CONSTRAINT uq_payment_entries_sales_invoice_id UNIQUE (sales_invoice_id)",
		"CONSTRAINT uq_delivery_notes_magento_shipment_id UNIQUE (magento_shipment_id)",
		"discount_amount NUMERIC NOT NULL DEFAULT 0",
		"CHECK (doc_status IN (0, 1, 2))",
		"CHECK (payment_status IN ('unpaid', 'paid'))",
		"FOREIGN KEY (sales_order_id) REFERENCES sales_orders(id) ON DELETE CASCADE",
		"DROP TABLE IF EXISTS sales_orders",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCreateSQLMigrationProducesValidFile(t *testing.T) {
	dir := t.TempDir()

	path, err := migrate.CreateSQLMigration(dir, "Add Loyalty Points!")
	if err != nil {
		t.Fatalf("CreateSQLMigration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_loyalty_points.sql") {
		t.Fatalf("unsanitized filename: %s", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("created migration fails validation: %v", err)
	}

	if _, err := migrate.CreateSQLMigration(dir, ""); err == nil {
		t.Fatal("empty name must be rejected")
	}
}

func TestMigrationDirValidates(t *testing.T) {
	// Self-check on the shipped migrations; catches filename and header
	// drift before goose hits it at runtime.
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("ValidateDir: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) < 3 {
		t.Fatalf("expected at least 3 migrations, got %d", len(matches))
	}
}
