package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCartMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_tables.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no cart migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS carts",
		"revision BIGINT NOT NULL DEFAULT 0",
		"quote_total NUMERIC(12,2)",
		"CHECK (user_id IS NULL OR session_id IS NULL)",
		"CREATE TABLE IF NOT EXISTS cart_items",
		"PRIMARY KEY (cart_id, product_id)",
		"CREATE TABLE IF NOT EXISTS applied_promotions",
		"PRIMARY KEY (cart_id, promotion_id)",
		"CHECK (discount_type IN ('percentage', 'fixed'))",
		"DROP TABLE IF EXISTS carts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
