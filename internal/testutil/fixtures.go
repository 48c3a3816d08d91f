// Package testutil provides fixture builders shared by package tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"ecomkpi/internal/config"
	"ecomkpi/pkg/contracts/domain"
)

// Fixture holds the data rows (without header) of the three extracts
type Fixture struct {
	Orders     [][]string
	OrderItems [][]string
	Customers  [][]string
}

// Order builds an orders row with fixed, valid timestamps
func Order(orderID, customerID, status string) []string {
	return []string{
		orderID, customerID, status,
		"2017-10-02 10:56:33",
		"2017-10-02 11:07:15",
		"2017-10-04 19:55:00",
		"2017-10-10 21:25:13",
		"2017-10-18 00:00:00",
	}
}

// Item builds an order items row
func Item(orderID, seq, price, freight string) []string {
	return []string{orderID, seq, "prod-" + orderID + "-" + seq, "seller-1", "2017-10-06 11:07:15", price, freight}
}

// Customer builds a customers row
func Customer(customerID, uniqueID string) []string {
	return []string{customerID, uniqueID, "14409", "franca", "SP"}
}

// ScenarioFixture is one delivered order O1 of customer C1 (unique U1) with
// two items, a shipped order O2 with one item, and an item of unknown order O9.
func ScenarioFixture() Fixture {
	return Fixture{
		Orders: [][]string{
			Order("O1", "C1", "delivered"),
			Order("O2", "C2", "shipped"),
		},
		OrderItems: [][]string{
			Item("O1", "1", "10.00", "1.00"),
			Item("O1", "2", "20.00", "2.00"),
			Item("O2", "1", "50.00", "5.00"),
			Item("O9", "1", "99.00", "9.00"),
		},
		Customers: [][]string{
			Customer("C1", "U1"),
			Customer("C2", "U2"),
		},
	}
}

// WriteFixture writes the fixture as the three CSV extracts into dir and
// returns the resolved paths
func WriteFixture(t *testing.T, dir string, fx Fixture) *config.Paths {
	t.Helper()

	paths, err := config.NewPaths(dir)
	require.NoError(t, err)

	WriteCSV(t, paths.OrdersFile, domain.OrderColumns(), fx.Orders)
	WriteCSV(t, paths.OrderItemsFile, domain.OrderItemColumns(), fx.OrderItems)
	WriteCSV(t, paths.CustomersFile, domain.CustomerColumns(), fx.Customers)
	return paths
}

// WriteCSV writes a header and rows to path
func WriteCSV(t *testing.T, path string, header []string, rows [][]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, w.Error())
}

// ReadCSV reads a CSV file fully, header included
func ReadCSV(t *testing.T, path string) [][]string {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}
