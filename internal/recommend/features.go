// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"slices"
	"strconv"
)

// FeatureRecord holds encoded values by column name, before projection.
type FeatureRecord map[string]float64

// FeatureVector is a record projected onto a fixed column order.
type FeatureVector struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Get returns the value for column.
func (v FeatureVector) Get(column string) (float64, bool) {
	i := slices.Index(v.Columns, column)
	if i < 0 || i >= len(v.Values) {
		return 0, false
	}
	return v.Values[i], true
}

// Encode converts a profile to a record using scheme.
//
// Gender, region and (for year schemes) departure year are categorical and
// fail with *EncodingError when unknown. Age and day pass through.
func Encode(scheme EncodingScheme, p CustomerProfile) (FeatureRecord, error) {
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return nil, &EncodingError{Field: "gender", Value: p.Gender.String()}
	}

	region, err := scheme.RegionCode(p.Region)
	if err != nil {
		return nil, err
	}

	rec := FeatureRecord{
		ColumnGender: float64(p.Gender.Code()),
		ColumnAge:    float64(p.Age),
		ColumnRegion: float64(region),
		ColumnMonth:  float64(scheme.MonthCode(p.DepartureYear, p.DepartureMonth)),
		ColumnDay:    float64(p.DepartureDay),
	}

	if scheme.HasYear() {
		if !slices.Contains(scheme.Years, p.DepartureYear) {
			return nil, &EncodingError{Field: "year", Value: strconv.Itoa(p.DepartureYear)}
		}
		rec[ColumnYear] = float64(p.DepartureYear)
	}

	return rec, nil
}

// Project orders the record by columns. Columns the record lacks produce a
// *SchemaMismatchError; extra record entries are dropped.
func (r FeatureRecord) Project(columns []string) (FeatureVector, error) {
	var missing []string
	values := make([]float64, len(columns))
	for i, c := range columns {
		v, ok := r[c]
		if !ok {
			missing = append(missing, c)
			continue
		}
		values[i] = v
	}
	if len(missing) > 0 {
		return FeatureVector{}, &SchemaMismatchError{Missing: missing}
	}
	return FeatureVector{Columns: slices.Clone(columns), Values: values}, nil
}
