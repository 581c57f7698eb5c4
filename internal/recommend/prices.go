// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PriceUnknown is returned for packages missing from the price table.
const PriceUnknown = "Rp -"

// DefaultPriceAmounts are the published package prices in rupiah.
var DefaultPriceAmounts = map[string]int64{
	"paket_reguler_3_bintang": 25_450_000,
	"paket_reguler_4_bintang": 33_000_000,
	"paket_reguler_5_bintang": 41_450_000,
	"paket_plus_a":            43_450_000,
	"paket_plus_b":            56_450_000,
	"paket_plus_c":            67_400_000,
}

// PriceTable maps package ids to display prices such as "Rp41.450.000".
type PriceTable struct {
	prices map[string]string
}

// NewPriceTable copies prices into a table.
func NewPriceTable(prices map[string]string) PriceTable {
	return PriceTable{prices: maps.Clone(prices)}
}

// PriceTableFromAmounts formats rupiah amounts with Indonesian digit grouping.
func PriceTableFromAmounts(amounts map[string]int64) PriceTable {
	prices := make(map[string]string, len(amounts))
	for id, amount := range amounts {
		prices[id] = FormatRupiah(amount)
	}
	return PriceTable{prices: prices}
}

// DefaultPriceTable returns the table for DefaultPriceAmounts.
func DefaultPriceTable() PriceTable {
	return PriceTableFromAmounts(DefaultPriceAmounts)
}

// Lookup returns the price for id or PriceUnknown.
func (t PriceTable) Lookup(id string) string {
	if p, ok := t.prices[id]; ok {
		return p
	}
	return PriceUnknown
}

// IDs returns the priced package ids in sorted order.
func (t PriceTable) IDs() []string {
	return slices.Sorted(maps.Keys(t.prices))
}

// Len returns the number of priced packages.
func (t PriceTable) Len() int {
	return len(t.prices)
}

// FormatRupiah renders 41450000 as "Rp41.450.000".
func FormatRupiah(amount int64) string {
	return message.NewPrinter(language.Indonesian).Sprintf("Rp%d", amount)
}

// DisplayName turns "paket_reguler_3_bintang" into "Paket Reguler 3 Bintang".
func DisplayName(packageID string) string {
	words := strings.ReplaceAll(strings.TrimSpace(packageID), "_", " ")
	return cases.Title(language.Indonesian).String(words)
}

// PackageIDFromName is the inverse of DisplayName and also normalises the
// free-form names found in booking exports.
func PackageIDFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
