// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"fmt"
	"slices"
	"strings"
)

// Feature column names emitted by the encoders.
const (
	ColumnGender = "jenis_kelamin"
	ColumnAge    = "usia"
	ColumnRegion = "wilayah_geografis"
	ColumnMonth  = "bulan"
	ColumnDay    = "tanggal"
	ColumnYear   = "tahun"
)

// Built-in scheme versions.
const (
	SchemeDecZero  = "december-zero"
	SchemeYearCond = "year-conditioned"
	DefaultScheme  = SchemeYearCond
)

// MonthRule selects how a departure month is turned into the "bulan" feature.
type MonthRule int

const (
	// MonthRuleDecemberRemap passes months through except December, which
	// becomes DecemberCode.
	MonthRuleDecemberRemap MonthRule = iota

	// MonthRuleYearConditioned gives every month of BaseYear the code 0
	// except December, which becomes DecemberCode. Months of later years
	// pass through.
	MonthRuleYearConditioned
)

func (r MonthRule) String() string {
	switch r {
	case MonthRuleDecemberRemap:
		return "december_remap"
	case MonthRuleYearConditioned:
		return "year_conditioned"
	default:
		return fmt.Sprintf("MonthRule(%d)", int(r))
	}
}

// EncodingScheme is the categorical contract between training and inference.
// Values are treated as immutable; use the With* helpers to derive variants.
type EncodingScheme struct {
	// Version identifies the scheme in config and logs.
	Version string `json:"version"`

	// Regions is ordered: a region's code is its index.
	Regions []string `json:"regions"`

	// Columns lists every column the encoder emits.
	Columns []string `json:"columns"`

	// Years are the accepted departure years. Empty when the scheme has no
	// year column.
	Years []int `json:"years,omitempty"`

	MonthRule MonthRule `json:"-"`

	// BaseYear is the year collapsed by MonthRuleYearConditioned.
	BaseYear int `json:"base_year,omitempty"`

	// DecemberCode is the distinguished code for December.
	DecemberCode int `json:"december_code"`
}

// DecemberZeroScheme is the five-region scheme without a year column. The
// model trained on it sees December as month 0.
func DecemberZeroScheme() EncodingScheme {
	return EncodingScheme{
		Version:      SchemeDecZero,
		Regions:      []string{"Jawa", "Sumatera", "Sulawesi", "Kalimantan", "Nusa Tenggara"},
		Columns:      []string{ColumnGender, ColumnAge, ColumnRegion, ColumnMonth, ColumnDay},
		MonthRule:    MonthRuleDecemberRemap,
		DecemberCode: 0,
	}
}

// YearConditionedScheme is the seven-region scheme with a year column.
// Bookings start in December 2022, so the other months of 2022 share code 0.
func YearConditionedScheme() EncodingScheme {
	return EncodingScheme{
		Version: SchemeYearCond,
		Regions: []string{
			"Jawa", "Sumatera", "Sulawesi", "Kalimantan",
			"Maluku", "Bali & Nusa Tenggara", "Papua",
		},
		Columns:      []string{ColumnGender, ColumnAge, ColumnRegion, ColumnMonth, ColumnDay, ColumnYear},
		Years:        []int{2022, 2023, 2024},
		MonthRule:    MonthRuleYearConditioned,
		BaseYear:     2022,
		DecemberCode: 12,
	}
}

// SchemeVersions lists the built-in schemes.
func SchemeVersions() []string {
	return []string{SchemeDecZero, SchemeYearCond}
}

// SchemeByVersion returns a built-in scheme.
func SchemeByVersion(version string) (EncodingScheme, error) {
	switch strings.ToLower(strings.TrimSpace(version)) {
	case SchemeDecZero:
		return DecemberZeroScheme(), nil
	case SchemeYearCond, "":
		return YearConditionedScheme(), nil
	default:
		return EncodingScheme{}, fmt.Errorf("unknown encoding scheme %q (supported: %s)",
			version, strings.Join(SchemeVersions(), ", "))
	}
}

// WithRegions returns a copy using regions in the given order.
func (s EncodingScheme) WithRegions(regions []string) EncodingScheme {
	s.Regions = slices.Clone(regions)
	return s
}

// WithYears returns a copy accepting the given departure years.
func (s EncodingScheme) WithYears(years []int) EncodingScheme {
	s.Years = slices.Clone(years)
	return s
}

func (s EncodingScheme) clone() EncodingScheme {
	s.Regions = slices.Clone(s.Regions)
	s.Columns = slices.Clone(s.Columns)
	s.Years = slices.Clone(s.Years)
	return s
}

// HasYear reports whether the scheme emits the year column.
func (s EncodingScheme) HasYear() bool {
	return slices.Contains(s.Columns, ColumnYear)
}

// RegionCode returns the index of region, matched case-insensitively.
func (s EncodingScheme) RegionCode(region string) (int, error) {
	region = strings.TrimSpace(region)
	for i, r := range s.Regions {
		if strings.EqualFold(r, region) {
			return i, nil
		}
	}
	return 0, &EncodingError{Field: "region", Value: region}
}

// MonthCode applies the scheme's month rule. It is a pure function of its
// arguments.
func (s EncodingScheme) MonthCode(year, month int) int {
	switch s.MonthRule {
	case MonthRuleYearConditioned:
		if year != s.BaseYear {
			return month
		}
		if month == 12 {
			return s.DecemberCode
		}
		return 0
	default:
		if month == 12 {
			return s.DecemberCode
		}
		return month
	}
}

// Validate checks the scheme is usable for encoding.
func (s EncodingScheme) Validate() error {
	if s.Version == "" {
		return fmt.Errorf("encoding scheme version is required")
	}
	if len(s.Regions) == 0 {
		return fmt.Errorf("encoding scheme %s: regions must not be empty", s.Version)
	}
	seen := make(map[string]struct{}, len(s.Regions))
	for _, r := range s.Regions {
		key := strings.ToLower(strings.TrimSpace(r))
		if key == "" {
			return fmt.Errorf("encoding scheme %s: empty region name", s.Version)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("encoding scheme %s: duplicate region %q", s.Version, r)
		}
		seen[key] = struct{}{}
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("encoding scheme %s: columns must not be empty", s.Version)
	}
	if s.HasYear() && len(s.Years) == 0 {
		return fmt.Errorf("encoding scheme %s: years required when %q is emitted", s.Version, ColumnYear)
	}
	return nil
}
