// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package recommend

import (
	"strconv"
	"strings"
)

// Gender of the prospective pilgrim.
type Gender int

const (
	// GenderMale encodes as 0.
	GenderMale Gender = iota
	// GenderFemale encodes as 1.
	GenderFemale
)

// String returns the label shown on the booking form.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Pria"
	case GenderFemale:
		return "Wanita"
	default:
		return "unknown"
	}
}

// Code returns the numeric value fed to the classifier.
func (g Gender) Code() int {
	return int(g)
}

// GenderLabels lists the form labels in code order.
var GenderLabels = []string{"Pria", "Wanita"}

// ParseGender accepts the form labels ("Pria", "Wanita") and their English
// equivalents, ignoring case and surrounding whitespace.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pria", "male", "laki-laki":
		return GenderMale, nil
	case "wanita", "female", "perempuan":
		return GenderFemale, nil
	default:
		return 0, &EncodingError{Field: "gender", Value: s}
	}
}

// MonthNames are the Indonesian month names in calendar order.
var MonthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// ParseMonth maps an Indonesian month name or a number string to 1..12.
func ParseMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	for i, name := range MonthNames {
		if strings.EqualFold(s, name) {
			return i + 1, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
		return n, nil
	}
	return 0, &EncodingError{Field: "month", Value: s}
}

// CustomerProfile is the raw form input for one recommendation.
//
// Range checks (age, day) belong to the caller; the pipeline encodes what
// it is given.
type CustomerProfile struct {
	Gender Gender `json:"gender"`

	// Age in years.
	Age int `json:"age"`

	// Region must be one of the scheme's regions.
	Region string `json:"region"`

	DepartureDay int `json:"departure_day"`

	// DepartureMonth is 1..12 before any scheme remapping.
	DepartureMonth int `json:"departure_month"`

	// DepartureYear is ignored by schemes without a year column.
	DepartureYear int `json:"departure_year,omitempty"`
}
