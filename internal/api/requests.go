// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
	"github.com/tomtom215/umrahadvisor/internal/validation"
)

// RecommendationRequest is the body of POST /api/v1/recommendations.
//
// Month accepts an Indonesian month name or "1".."12". Year is required
// only when the active encoding scheme has a year column.
type RecommendationRequest struct {
	Gender string `json:"gender" validate:"required,gender"`
	Age    int    `json:"age" validate:"min=18,max=100"`
	Region string `json:"region" validate:"required,max=64"`
	Month  string `json:"month" validate:"required,month"`
	Day    int    `json:"day" validate:"min=1,max=31"`
	Year   int    `json:"year" validate:"omitempty,min=2000,max=2100"`
}

// checkAgainstScheme applies the checks that depend on the active scheme.
func (req *RecommendationRequest) checkAgainstScheme(scheme recommend.EncodingScheme) *validation.RequestValidationError {
	month, err := recommend.ParseMonth(req.Month)
	if err != nil {
		return validation.NewFieldError("month", "month", req.Month, err.Error())
	}

	if scheme.HasYear() {
		if req.Year == 0 {
			return validation.NewFieldError("year", "required", req.Year, "year is required")
		}
		if !slices.Contains(scheme.Years, req.Year) {
			return validation.NewFieldError("year", "oneof", req.Year,
				fmt.Sprintf("year must be one of: %s", joinInts(scheme.Years)))
		}
	}

	// 2024 is a leap year; without a year column any 29 February is allowed.
	year := req.Year
	if !scheme.HasYear() || year == 0 {
		year = 2024
	}
	if req.Day > daysIn(time.Month(month), year) {
		return validation.NewFieldError("day", "date", req.Day,
			fmt.Sprintf("day %d does not exist in %s", req.Day, recommend.MonthNames[month-1]))
	}
	return nil
}

// toProfile converts a validated request.
func (req *RecommendationRequest) toProfile() (recommend.CustomerProfile, error) {
	gender, err := recommend.ParseGender(req.Gender)
	if err != nil {
		return recommend.CustomerProfile{}, err
	}
	month, err := recommend.ParseMonth(req.Month)
	if err != nil {
		return recommend.CustomerProfile{}, err
	}
	return recommend.CustomerProfile{
		Gender:         gender,
		Age:            req.Age,
		Region:         strings.TrimSpace(req.Region),
		DepartureDay:   req.Day,
		DepartureMonth: month,
		DepartureYear:  req.Year,
	}, nil
}

// HistoryRangeRequest holds the optional history query parameters.
type HistoryRangeRequest struct {
	Since string `json:"since" validate:"omitempty,datetime=2006-01-02"`
	From  string `json:"from" validate:"omitempty,datetime=2006-01"`
	To    string `json:"to" validate:"omitempty,datetime=2006-01"`
}

func (req *HistoryRangeRequest) sinceTime() time.Time {
	if req.Since == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.DateOnly, req.Since)
	if err != nil {
		return time.Time{}
	}
	return t
}

// monthSpan counts the months of a validated From..To range.
func (req *HistoryRangeRequest) monthSpan() int {
	from, errFrom := time.Parse("2006-01", req.From)
	to, errTo := time.Parse("2006-01", req.To)
	if errFrom != nil || errTo != nil {
		return 0
	}
	return history.MonthSpan(from, to)
}

// RecommendationResponse is the data of a successful recommendation.
type RecommendationResponse struct {
	PackageID     string                `json:"package_id"`
	PackageName   string                `json:"package_name"`
	Price         string                `json:"price"`
	SchemeVersion string                `json:"scheme_version"`
	Probabilities []ProbabilityResponse `json:"probabilities"`
}

// ProbabilityResponse is one row of the probability table.
type ProbabilityResponse struct {
	PackageID   string  `json:"package_id"`
	PackageName string  `json:"package_name"`
	Price       string  `json:"price"`
	Probability float64 `json:"probability"`
	Percent     string  `json:"percent"`
}

func newRecommendationResponse(rec *recommend.PackageRecommendation) RecommendationResponse {
	rows := make([]ProbabilityResponse, len(rec.Probabilities))
	for i, p := range rec.Probabilities {
		rows[i] = ProbabilityResponse{
			PackageID:   p.PackageID,
			PackageName: p.DisplayName,
			Price:       p.Price,
			Probability: p.Probability,
			Percent:     formatPercent(p.Probability),
		}
	}
	return RecommendationResponse{
		PackageID:     rec.PackageID,
		PackageName:   rec.DisplayName,
		Price:         rec.Price,
		SchemeVersion: rec.SchemeVersion,
		Probabilities: rows,
	}
}

// PackageResponse is one catalogue entry.
type PackageResponse struct {
	PackageID   string `json:"package_id"`
	PackageName string `json:"package_name"`
	Price       string `json:"price"`
}

// OptionsResponse lists the values the recommendation form accepts.
type OptionsResponse struct {
	SchemeVersion string   `json:"scheme_version"`
	Genders       []string `json:"genders"`
	Regions       []string `json:"regions"`
	Months        []string `json:"months"`
	Years         []int    `json:"years,omitempty"`
	MinAge        int      `json:"min_age"`
	MaxAge        int      `json:"max_age"`
}

// formatPercent renders 0.4567 as "45.67%".
func formatPercent(p float64) string {
	return strconv.FormatFloat(p*100, 'f', 2, 64) + "%"
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}
