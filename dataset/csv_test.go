package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Orders: writeCSV(t, dir, "orders.csv",
			"order_id,order_purchase_timestamp,order_delivered_timestamp,order_estimated_delivery_date\n"+
				"o1,2024-01-03 10:30:00,2024-01-09 14:00:00,2024-01-10\n"+
				"o2,2024-01-04 08:00:00,,2024-01-11\n"),
		Items: writeCSV(t, dir, "items.csv",
			"order_id,product_id\no1,p1\no1,p2\no2,p1\n"),
		Payments: writeCSV(t, dir, "payments.csv",
			"order_id,payment_value\no1,99.90\no2,45.00\n"),
		Products: writeCSV(t, dir, "products.csv",
			"product_id,product_category_name\np1,toys\np2,bed_bath_table\n"),
	}

	ds, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(ds.Orders) != 2 {
		t.Fatalf("Loaded %d orders, want 2", len(ds.Orders))
	}
	o1 := ds.Orders[0]
	if o1.ID != "o1" {
		t.Errorf("Order ID = %q, want o1", o1.ID)
	}
	wantPurchase := time.Date(2024, 1, 3, 10, 30, 0, 0, time.UTC)
	if !o1.PurchasedAt.Equal(wantPurchase) {
		t.Errorf("PurchasedAt = %v, want %v", o1.PurchasedAt, wantPurchase)
	}
	if o1.DeliveredAt.IsZero() {
		t.Error("o1 delivery timestamp dropped")
	}
	wantEstimate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !o1.EstimatedDelivery.Equal(wantEstimate) {
		t.Errorf("EstimatedDelivery = %v, want %v (date-only layout)", o1.EstimatedDelivery, wantEstimate)
	}
	// Missing optional timestamps load as zero, not as an error.
	if !ds.Orders[1].DeliveredAt.IsZero() {
		t.Errorf("o2 DeliveredAt = %v, want zero", ds.Orders[1].DeliveredAt)
	}

	if len(ds.Items) != 3 {
		t.Errorf("Loaded %d items, want 3", len(ds.Items))
	}
	if len(ds.Payments) != 2 || ds.Payments[0].Value != 99.90 {
		t.Errorf("Payments = %+v", ds.Payments)
	}
	if len(ds.Products) != 2 || ds.Products[1].Category != "bed_bath_table" {
		t.Errorf("Products = %+v", ds.Products)
	}
}

func TestLoadOptionalTablesSkipped(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Orders: writeCSV(t, dir, "orders.csv",
			"order_id,order_purchase_timestamp\no1,2024-01-03 10:30:00\n"),
		Items: writeCSV(t, dir, "items.csv",
			"order_id,product_id\no1,p1\n"),
	}

	ds, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(ds.Payments) != 0 || len(ds.Products) != 0 {
		t.Error("Empty optional paths should load no rows")
	}
}

func TestLoadMissingRequiredTimestamp(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Orders: writeCSV(t, dir, "orders.csv",
			"order_id,order_purchase_timestamp\no1,\n"),
		Items: writeCSV(t, dir, "items.csv", "order_id,product_id\n"),
	}

	if _, err := Load(p); err == nil {
		t.Error("Expected error for missing purchase timestamp, got nil")
	}
}

func TestLoadBadPaymentValue(t *testing.T) {
	dir := t.TempDir()
	p := Paths{
		Orders: writeCSV(t, dir, "orders.csv",
			"order_id,order_purchase_timestamp\no1,2024-01-03 10:30:00\n"),
		Items:    writeCSV(t, dir, "items.csv", "order_id,product_id\no1,p1\n"),
		Payments: writeCSV(t, dir, "payments.csv", "order_id,payment_value\no1,not-a-number\n"),
	}

	if _, err := Load(p); err == nil {
		t.Error("Expected error for unparsable payment value, got nil")
	}
}
