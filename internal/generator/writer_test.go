//-------------------------------------------------------------------------
//
// LCV Retail Analytics Platform
//
// Copyright (c) 2025 - 2026, LCV Analytics
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package generator

import (
	"strings"
	"testing"
	"time"
)

func TestSaleValues(t *testing.T) {
	row := SaleRow{
		ID: 7, StoreID: 3, ProductKey: 12, ProductID: 12, CustomerID: 0,
		Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Quantity: 2, UnitPrice: 19.99, TotalAmount: 39.98,
		DiscountPct: 10, DiscountAmount: 4, NetAmount: 35.98,
		CostAmount: 16, MarginAmount: 19.98,
		PaymentMethod: "Cash", IsReturn: false,
	}

	got := saleValues(row)
	want := "(7, 3, 12, 12, NULL, '2024-06-01', 2, 19.99, 39.98, 10.00, 4.00, 35.98, 16.00, 19.98, 'Cash', false)"
	if got != want {
		t.Errorf("saleValues = %s, want %s", got, want)
	}

	row.CustomerID = 42
	if !strings.Contains(saleValues(row), ", 42, '2024-06-01'") {
		t.Errorf("customer id not emitted: %s", saleValues(row))
	}
}

func TestCustomerValues(t *testing.T) {
	join := time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC)
	member := CustomerRow{ID: 1, Loyalty: true, JoinDate: &join, Country: "USA", Status: "Active"}
	walkIn := CustomerRow{ID: 2, Country: "USA", Status: "Active"}

	if got, want := customerValues(member), "(1, true, '2023-05-20', 'USA', 'Active')"; got != want {
		t.Errorf("customerValues = %s, want %s", got, want)
	}
	if got, want := customerValues(walkIn), "(2, false, NULL, 'USA', 'Active')"; got != want {
		t.Errorf("customerValues = %s, want %s", got, want)
	}
}

func TestSQLStringEscaping(t *testing.T) {
	if got, want := sqlString("O'Brien"), "'O''Brien'"; got != want {
		t.Errorf("sqlString = %s, want %s", got, want)
	}
	if got := sqlNullableString(""); got != "NULL" {
		t.Errorf("sqlNullableString(\"\") = %s", got)
	}
}

func TestDateValuesHoliday(t *testing.T) {
	row := DateRow{
		ID: 20241225, Date: time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC),
		DayOfWeek: 3, DayName: "Wednesday", WeekOfYear: 52,
		Month: 12, MonthName: "December", Quarter: 4, FiscalQuarter: 4,
		Year: 2024, FiscalYear: 2024,
		IsHoliday: true, HolidayName: "Christmas Day",
	}

	got := dateValues(row)
	want := "(20241225, '2024-12-25', 3, 'Wednesday', 52, 12, 'December', 4, 4, 2024, 2024, false, true, 'Christmas Day')"
	if got != want {
		t.Errorf("dateValues = %s, want %s", got, want)
	}
}

func TestProductValuesValidity(t *testing.T) {
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	row := ProductRow{
		Key: 501, ID: 1, Name: "T-Shirt AA", Code: "PRD00001",
		Category: "Textile", Subcategory: "T-Shirt",
		Color: "blue", Size: "M", Material: "Cotton", Season: "Spring", Brand: "Vetra",
		UnitCost: 12.5, ListPrice: 29.99,
		ValidFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ValidTo:   &to,
	}

	got := productValues(row)
	if !strings.Contains(got, "'2024-01-01', '2024-03-31', false)") {
		t.Errorf("expired version not serialized correctly: %s", got)
	}

	row.ValidTo = nil
	row.IsCurrent = true
	got = productValues(row)
	if !strings.Contains(got, "'2024-01-01', NULL, true)") {
		t.Errorf("current version not serialized correctly: %s", got)
	}
}
