// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tomtom215/umrahadvisor/internal/metrics"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

// Query names used as cache key prefixes and metric labels.
const (
	QueryPackages         = "packages"
	QueryMonthly          = "monthly"
	QueryPackagesPerMonth = "packages_per_month"
	QueryAgeGroups        = "age_groups"
	QueryGender           = "gender"
)

const monthLayout = "2006-01"

// MaxRangeMonths bounds the packages-per-month pivot to ten years.
const MaxRangeMonths = 120

// ErrInvalidRange is returned for a malformed, reversed or oversized month
// range.
var ErrInvalidRange = errors.New("invalid month range")

// CategoryCount is one bar of a count chart.
type CategoryCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// MonthCount is the number of departures in one YYYY-MM month.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Pivot is a zero-filled count matrix; Values[i][j] counts Rows[i] by Columns[j].
type Pivot struct {
	Rows    []string  `json:"rows"`
	Columns []string  `json:"columns"`
	Values  [][]int64 `json:"values"`
}

// AgeBin is a half-open age interval [Min, Max).
type AgeBin struct {
	Label string
	Min   int
	Max   int
}

// AgeBins are the reporting age groups. Ages outside every bin are not counted.
var AgeBins = []AgeBin{
	{"<18", 0, 18},
	{"18-27", 18, 27},
	{"28-37", 27, 37},
	{"38-47", 37, 47},
	{"48-57", 47, 57},
	{"58-67", 57, 67},
	{"68-77", 67, 77},
}

var titleCaser = cases.Title(language.Indonesian)

func packageLabel(raw string) string {
	return recommend.DisplayName(recommend.PackageIDFromName(raw))
}

func genderLabel(raw string) string {
	return titleCaser.String(raw)
}

// ensureContext applies a default timeout when ctx has no deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, 30*time.Second)
}

type scanFunc[T any] func(rows *sql.Rows) (T, error)

func queryAndScan[T any](ctx context.Context, db *sql.DB, query string, args []any, scan scanFunc[T]) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// cached serves key from the cache or runs load under the read lock.
func cached[T any](ctx context.Context, s *Store, name, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return zero, ErrNotLoaded
	}

	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			metrics.RecordHistoryQuery(name, true, 0)
			return typed, nil
		}
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	result, err := load(ctx)
	if err != nil {
		return zero, fmt.Errorf("history query %s: %w", name, err)
	}
	metrics.RecordHistoryQuery(name, false, time.Since(start))
	s.cache.Add(key, result)
	return result, nil
}

// PackageDistribution counts bookings per package, ordered by package name.
func (s *Store) PackageDistribution(ctx context.Context) ([]CategoryCount, error) {
	return cached(ctx, s, QueryPackages, QueryPackages, func(ctx context.Context) ([]CategoryCount, error) {
		query := `
		SELECT package, COUNT(*) AS bookings
		FROM bookings
		WHERE package IS NOT NULL AND package <> ''
		GROUP BY package
		ORDER BY package`
		return queryAndScan(ctx, s.conn, query, nil, func(rows *sql.Rows) (CategoryCount, error) {
			var raw string
			var c CategoryCount
			if err := rows.Scan(&raw, &c.Count); err != nil {
				return c, err
			}
			c.Key = recommend.PackageIDFromName(raw)
			c.Label = packageLabel(raw)
			return c, nil
		})
	})
}

// MonthlyBookings counts departures per month from since onward. A zero
// since uses the configured default.
func (s *Store) MonthlyBookings(ctx context.Context, since time.Time) ([]MonthCount, error) {
	if since.IsZero() {
		since = s.cfg.Since
	}
	day := since.Format(time.DateOnly)
	return cached(ctx, s, QueryMonthly, QueryMonthly+":"+day, func(ctx context.Context) ([]MonthCount, error) {
		query := `
		SELECT strftime(departure_date, '%Y-%m') AS month, COUNT(*) AS bookings
		FROM bookings
		WHERE departure_date IS NOT NULL AND departure_date >= CAST(? AS DATE)
		GROUP BY month
		ORDER BY month`
		return queryAndScan(ctx, s.conn, query, []any{day}, func(rows *sql.Rows) (MonthCount, error) {
			var m MonthCount
			err := rows.Scan(&m.Month, &m.Count)
			return m, err
		})
	})
}

// PackagesPerMonth counts departures per month and package over the
// inclusive YYYY-MM range. Every month of the range appears, zero-filled.
// Empty bounds use the configured range.
func (s *Store) PackagesPerMonth(ctx context.Context, from, to string) (*Pivot, error) {
	if from == "" {
		from = s.cfg.RangeFrom
	}
	if to == "" {
		to = s.cfg.RangeTo
	}
	months, err := monthRange(from, to)
	if err != nil {
		return nil, err
	}

	key := QueryPackagesPerMonth + ":" + from + ":" + to
	return cached(ctx, s, QueryPackagesPerMonth, key, func(ctx context.Context) (*Pivot, error) {
		query := `
		SELECT strftime(departure_date, '%Y-%m') AS month, package, COUNT(*) AS bookings
		FROM bookings
		WHERE departure_date IS NOT NULL
		  AND package IS NOT NULL AND package <> ''
		  AND strftime(departure_date, '%Y-%m') BETWEEN ? AND ?
		GROUP BY month, package`
		cells, err := queryAndScan(ctx, s.conn, query, []any{from, to}, scanCell)
		if err != nil {
			return nil, err
		}
		packages, err := s.distinct(ctx, "package")
		if err != nil {
			return nil, err
		}
		return buildPivot(months, packages, cells, packageLabel), nil
	})
}

// AgeGroups counts bookings per AgeBins group and package. Rows follow
// AgeBins order.
func (s *Store) AgeGroups(ctx context.Context) (*Pivot, error) {
	return cached(ctx, s, QueryAgeGroups, QueryAgeGroups, func(ctx context.Context) (*Pivot, error) {
		query := fmt.Sprintf(`
		SELECT age_group, package, COUNT(*) AS bookings
		FROM (
			SELECT %s AS age_group, package
			FROM bookings
			WHERE package IS NOT NULL AND package <> ''
		)
		WHERE age_group IS NOT NULL
		GROUP BY age_group, package`, ageGroupExpr())
		cells, err := queryAndScan(ctx, s.conn, query, nil, scanCell)
		if err != nil {
			return nil, err
		}
		packages, err := s.distinct(ctx, "package")
		if err != nil {
			return nil, err
		}
		labels := make([]string, len(AgeBins))
		for i, b := range AgeBins {
			labels[i] = b.Label
		}
		return buildPivot(labels, packages, cells, packageLabel), nil
	})
}

// GenderByPackage counts bookings per package and gender.
func (s *Store) GenderByPackage(ctx context.Context) (*Pivot, error) {
	return cached(ctx, s, QueryGender, QueryGender, func(ctx context.Context) (*Pivot, error) {
		query := `
		SELECT package, gender, COUNT(*) AS bookings
		FROM bookings
		WHERE package IS NOT NULL AND package <> ''
		  AND gender IS NOT NULL AND gender <> ''
		GROUP BY package, gender`
		cells, err := queryAndScan(ctx, s.conn, query, nil, scanCell)
		if err != nil {
			return nil, err
		}
		packages, err := s.distinct(ctx, "package")
		if err != nil {
			return nil, err
		}
		genders, err := s.distinct(ctx, "gender")
		if err != nil {
			return nil, err
		}

		// Cells are keyed by raw package; rows are reported as labels.
		p := buildPivot(packages, genders, cells, genderLabel)
		for i, raw := range p.Rows {
			p.Rows[i] = packageLabel(raw)
		}
		return p, nil
	})
}

type cell struct {
	row   string
	col   string
	count int64
}

func scanCell(rows *sql.Rows) (cell, error) {
	var c cell
	err := rows.Scan(&c.row, &c.col, &c.count)
	return c, err
}

// distinct returns the sorted non-empty values of a bookings column.
func (s *Store) distinct(ctx context.Context, column string) ([]string, error) {
	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM bookings WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY %[1]s`,
		quoteIdent(column))
	return queryAndScan(ctx, s.conn, query, nil, func(rows *sql.Rows) (string, error) {
		var v string
		err := rows.Scan(&v)
		return v, err
	})
}

// buildPivot lays cells out over rows by cols. Cells outside either axis are
// dropped. Column headers are passed through colLabel.
func buildPivot(rows, cols []string, cells []cell, colLabel func(string) string) *Pivot {
	rowIdx := make(map[string]int, len(rows))
	for i, r := range rows {
		rowIdx[r] = i
	}
	colIdx := make(map[string]int, len(cols))
	for j, c := range cols {
		colIdx[c] = j
	}

	values := make([][]int64, len(rows))
	for i := range values {
		values[i] = make([]int64, len(cols))
	}
	for _, c := range cells {
		i, ok := rowIdx[c.row]
		if !ok {
			continue
		}
		j, ok := colIdx[c.col]
		if !ok {
			continue
		}
		values[i][j] += c.count
	}

	labels := make([]string, len(cols))
	for j, c := range cols {
		labels[j] = colLabel(c)
	}
	return &Pivot{Rows: slices.Clone(rows), Columns: labels, Values: values}
}

func ageGroupExpr() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, bin := range AgeBins {
		fmt.Fprintf(&b, " WHEN age >= %d AND age < %d THEN %s", bin.Min, bin.Max, quoteLiteral(bin.Label))
	}
	b.WriteString(" END")
	return b.String()
}

// monthRange lists YYYY-MM months from from to to inclusive. Errors wrap
// ErrInvalidRange.
func monthRange(from, to string) ([]string, error) {
	start, err := time.Parse(monthLayout, from)
	if err != nil {
		return nil, fmt.Errorf("%w: month %q is not YYYY-MM", ErrInvalidRange, from)
	}
	end, err := time.Parse(monthLayout, to)
	if err != nil {
		return nil, fmt.Errorf("%w: month %q is not YYYY-MM", ErrInvalidRange, to)
	}
	span := MonthSpan(start, end)
	if span < 1 {
		return nil, fmt.Errorf("%w: %s..%s is reversed", ErrInvalidRange, from, to)
	}
	if span > MaxRangeMonths {
		return nil, fmt.Errorf("%w: %s..%s spans %d months, limit is %d", ErrInvalidRange, from, to, span, MaxRangeMonths)
	}

	months := make([]string, 0, span)
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format(monthLayout))
	}
	return months, nil
}

// MonthSpan counts the months from start to end inclusive. It is zero or
// negative when end precedes start.
func MonthSpan(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()-start.Month()) + 1
}
