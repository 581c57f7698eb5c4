// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"fmt"
	"maps"
	"slices"
)

// Config pins the pipeline to the encoding and prices of one trained model.
type Config struct {
	// SchemeVersion selects a built-in EncodingScheme.
	SchemeVersion string `json:"scheme_version"`

	// Regions overrides the scheme's region order when non-empty.
	Regions []string `json:"regions,omitempty"`

	// Years overrides the scheme's accepted departure years when non-empty.
	Years []int `json:"years,omitempty"`

	// Prices are rupiah amounts keyed by package id.
	Prices map[string]int64 `json:"prices"`
}

// DefaultConfig returns the year-conditioned scheme with published prices.
func DefaultConfig() Config {
	return Config{
		SchemeVersion: DefaultScheme,
		Prices:        maps.Clone(DefaultPriceAmounts),
	}
}

// Scheme resolves the configured scheme including overrides.
func (c *Config) Scheme() (EncodingScheme, error) {
	s, err := SchemeByVersion(c.SchemeVersion)
	if err != nil {
		return EncodingScheme{}, err
	}
	if len(c.Regions) > 0 {
		s = s.WithRegions(c.Regions)
	}
	if len(c.Years) > 0 {
		s = s.WithYears(c.Years)
	}
	return s, s.Validate()
}

// PriceTable builds the price table from Prices.
func (c *Config) PriceTable() PriceTable {
	return PriceTableFromAmounts(c.Prices)
}

// Validate checks the scheme resolves and prices are positive.
func (c *Config) Validate() error {
	if _, err := c.Scheme(); err != nil {
		return err
	}
	for id, amount := range c.Prices {
		if id == "" {
			return fmt.Errorf("prices: empty package id")
		}
		if amount <= 0 {
			return fmt.Errorf("prices.%s must be positive, got %d", id, amount)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() Config {
	return Config{
		SchemeVersion: c.SchemeVersion,
		Regions:       slices.Clone(c.Regions),
		Years:         slices.Clone(c.Years),
		Prices:        maps.Clone(c.Prices),
	}
}
