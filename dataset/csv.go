// Package dataset loads the transaction tables consumed by the forecasting
// engine from CSV files.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/UKumark9/scm-forecast/forecast"
)

// Column names follow the source transaction schema.
const (
	colOrderID           = "order_id"
	colPurchaseTimestamp = "order_purchase_timestamp"
	colDeliveredAt       = "order_delivered_timestamp"
	colEstimatedDelivery = "order_estimated_delivery_date"
	colProductID         = "product_id"
	colPaymentValue      = "payment_value"
	colCategory          = "product_category_name"
)

// timeLayouts are tried in order when parsing timestamps.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

// Paths names the CSV files of one dataset snapshot. Payments and Products
// are optional; leaving them empty disables the revenue and category
// operations.
type Paths struct {
	Orders   string
	Items    string
	Payments string
	Products string
}

// Load reads all provided tables into a forecast.Dataset.
func Load(p Paths) (*forecast.Dataset, error) {
	ds := &forecast.Dataset{}
	loaders := []func(*forecast.Dataset) error{
		func(d *forecast.Dataset) error { return LoadOrders(p.Orders, d) },
		func(d *forecast.Dataset) error { return LoadItems(p.Items, d) },
		func(d *forecast.Dataset) error { return LoadPayments(p.Payments, d) },
		func(d *forecast.Dataset) error { return LoadProducts(p.Products, d) },
	}
	for _, load := range loaders {
		if err := load(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// LoadOrders appends the orders table to the dataset.
func LoadOrders(path string, ds *forecast.Dataset) error {
	if err := loadTable(path, func(row rowReader) error {
		purchased, err := row.timeCol(colPurchaseTimestamp, true)
		if err != nil {
			return err
		}
		delivered, _ := row.timeCol(colDeliveredAt, false)
		estimated, _ := row.timeCol(colEstimatedDelivery, false)
		ds.Orders = append(ds.Orders, forecast.Order{
			ID:                row.col(colOrderID),
			PurchasedAt:       purchased,
			DeliveredAt:       delivered,
			EstimatedDelivery: estimated,
		})
		return nil
	}); err != nil {
		return fmt.Errorf("orders: %w", err)
	}
	return nil
}

// LoadItems appends the order items table to the dataset.
func LoadItems(path string, ds *forecast.Dataset) error {
	if err := loadTable(path, func(row rowReader) error {
		ds.Items = append(ds.Items, forecast.OrderItem{
			OrderID:   row.col(colOrderID),
			ProductID: row.col(colProductID),
		})
		return nil
	}); err != nil {
		return fmt.Errorf("order items: %w", err)
	}
	return nil
}

// LoadPayments appends the payments table to the dataset. An empty path is
// a no-op.
func LoadPayments(path string, ds *forecast.Dataset) error {
	if path == "" {
		return nil
	}
	if err := loadTable(path, func(row rowReader) error {
		value, err := strconv.ParseFloat(row.col(colPaymentValue), 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", colPaymentValue, err)
		}
		ds.Payments = append(ds.Payments, forecast.Payment{
			OrderID: row.col(colOrderID),
			Value:   value,
		})
		return nil
	}); err != nil {
		return fmt.Errorf("payments: %w", err)
	}
	return nil
}

// LoadProducts appends the products table to the dataset. An empty path is
// a no-op.
func LoadProducts(path string, ds *forecast.Dataset) error {
	if path == "" {
		return nil
	}
	if err := loadTable(path, func(row rowReader) error {
		ds.Products = append(ds.Products, forecast.Product{
			ID:       row.col(colProductID),
			Category: row.col(colCategory),
		})
		return nil
	}); err != nil {
		return fmt.Errorf("products: %w", err)
	}
	return nil
}

// rowReader resolves columns by header name for one CSV record.
type rowReader struct {
	index  map[string]int
	record []string
}

func (r rowReader) col(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return r.record[i]
}

func (r rowReader) timeCol(name string, required bool) (time.Time, error) {
	raw := r.col(name)
	if raw == "" {
		if required {
			return time.Time{}, fmt.Errorf("missing %s", name)
		}
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	if required {
		return time.Time{}, fmt.Errorf("parse %s %q", name, raw)
	}
	return time.Time{}, nil
}

// loadTable streams a headered CSV file row by row.
func loadTable(path string, each func(rowReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := each(rowReader{index: index, record: record}); err != nil {
			return err
		}
	}
}
