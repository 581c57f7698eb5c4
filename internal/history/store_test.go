// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const bookingsCSV = `jenis_kelamin, Usia ,wilayah_geografis,paket_umrah,tanggal_keberangkatan
Pria,30,Jawa,Paket Reguler 3 Bintang,2022-12-10
wanita,45,Sumatera,paket plus a,2023-01-05
Wanita,45,Jawa,Paket  Plus A ,2023-01-20
Pria,70,Kalimantan,Paket Reguler 5 Bintang,2024-02-03
Pria,80,Jawa,Paket Reguler 5 Bintang,2022-06-01
Wanita,17,Sulawesi,Paket Plus A,not-a-date
`

func writeCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "bookings.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func setupStore(t *testing.T, content string) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.CSVPath = writeCSV(t, t.TempDir(), content)
	cfg.Threads = 1

	s, err := Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return s
}

func TestLoad(t *testing.T) {
	s := setupStore(t, bookingsCSV)

	stats := s.Stats()
	if !stats.Loaded {
		t.Fatal("expected store to be loaded")
	}
	if stats.Rows != 6 {
		t.Errorf("Rows = %d, want 6", stats.Rows)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		missing bool
		wantErr string
	}{
		{name: "missing file", missing: true, wantErr: "read header"},
		{
			name:    "missing columns",
			content: "jenis_kelamin,usia\nPria,30\n",
			wantErr: "missing columns: wilayah_geografis, paket_umrah, tanggal_keberangkatan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Threads = 1
			if tt.missing {
				cfg.CSVPath = filepath.Join(t.TempDir(), "absent.csv")
			} else {
				cfg.CSVPath = writeCSV(t, t.TempDir(), tt.content)
			}

			s, err := Open(context.Background(), cfg, zerolog.Nop())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer s.Close()

			err = s.Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErr)
			}
			if s.Stats().Loaded {
				t.Error("store should not be loaded")
			}
			if _, err := s.PackageDistribution(context.Background()); !errors.Is(err, ErrNotLoaded) {
				t.Errorf("query error = %v, want ErrNotLoaded", err)
			}
		})
	}
}

func TestPackageDistribution(t *testing.T) {
	s := setupStore(t, bookingsCSV)

	got, err := s.PackageDistribution(context.Background())
	if err != nil {
		t.Fatalf("PackageDistribution: %v", err)
	}
	want := []CategoryCount{
		{Key: "paket_plus_a", Label: "Paket Plus A", Count: 3},
		{Key: "paket_reguler_3_bintang", Label: "Paket Reguler 3 Bintang", Count: 1},
		{Key: "paket_reguler_5_bintang", Label: "Paket Reguler 5 Bintang", Count: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestMonthlyBookings(t *testing.T) {
	s := setupStore(t, bookingsCSV)

	got, err := s.MonthlyBookings(context.Background(), s.cfg.Since)
	if err != nil {
		t.Fatalf("MonthlyBookings: %v", err)
	}
	want := []MonthCount{
		{Month: "2022-12", Count: 1},
		{Month: "2023-01", Count: 2},
		{Month: "2024-02", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}

	t.Run("zero since uses default", func(t *testing.T) {
		def, err := s.MonthlyBookings(context.Background(), time.Time{})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(def, want) {
			t.Errorf("got %+v, want %+v", def, want)
		}
	})
}

func TestPackagesPerMonth(t *testing.T) {
	s := setupStore(t, bookingsCSV)

	p, err := s.PackagesPerMonth(context.Background(), "", "")
	if err != nil {
		t.Fatalf("PackagesPerMonth: %v", err)
	}

	if len(p.Rows) != 15 {
		t.Fatalf("got %d months, want 15", len(p.Rows))
	}
	if p.Rows[0] != "2022-12" || p.Rows[14] != "2024-02" {
		t.Errorf("month range = %s..%s", p.Rows[0], p.Rows[14])
	}
	wantCols := []string{"Paket Plus A", "Paket Reguler 3 Bintang", "Paket Reguler 5 Bintang"}
	if !reflect.DeepEqual(p.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", p.Columns, wantCols)
	}

	var total int64
	for _, row := range p.Values {
		for _, v := range row {
			total += v
		}
	}
	if total != 4 {
		t.Errorf("total = %d, want 4", total)
	}
	if p.Values[0][1] != 1 {
		t.Errorf("2022-12 reguler 3 = %d, want 1", p.Values[0][1])
	}
	if p.Values[1][0] != 2 {
		t.Errorf("2023-01 plus a = %d, want 2", p.Values[1][0])
	}
	if p.Values[14][2] != 1 {
		t.Errorf("2024-02 reguler 5 = %d, want 1", p.Values[14][2])
	}

	if _, err := s.PackagesPerMonth(context.Background(), "2024-02", "2023-01"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("reversed range error = %v, want ErrInvalidRange", err)
	}
	if _, err := s.PackagesPerMonth(context.Background(), "0001-01", "9999-12"); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("oversized range error = %v, want ErrInvalidRange", err)
	}
	if n := s.cache.Len(); n != 1 {
		t.Errorf("cache entries = %d, want only the valid range cached", n)
	}
}

func TestAgeGroups(t *testing.T) {
	s := setupStore(t, bookingsCSV)

	p, err := s.AgeGroups(context.Background())
	if err != nil {
		t.Fatalf("AgeGroups: %v", err)
	}
	wantRows := []string{"<18", "18-27", "28-37", "38-47", "48-57", "58-67", "68-77"}
	if !reflect.DeepEqual(p.Rows, wantRows) {
		t.Fatalf("Rows = %v, want %v", p.Rows, wantRows)
	}
	want := [][]int64{
		{1, 0, 0},
		{0, 0, 0},
		{0, 1, 0},
		{2, 0, 0},
		{0, 0, 0},
		{0, 0, 0},
		{0, 0, 1},
	}
	if !reflect.DeepEqual(p.Values, want) {
		t.Errorf("Values = %v, want %v", p.Values, want)
	}
}

func TestGenderByPackage(t *testing.T) {
	s := setupStore(t, bookingsCSV)

	p, err := s.GenderByPackage(context.Background())
	if err != nil {
		t.Fatalf("GenderByPackage: %v", err)
	}
	want := &Pivot{
		Rows:    []string{"Paket Plus A", "Paket Reguler 3 Bintang", "Paket Reguler 5 Bintang"},
		Columns: []string{"Pria", "Wanita"},
		Values:  [][]int64{{0, 3}, {1, 0}, {2, 0}},
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("got %+v, want %+v", p, want)
	}
}

func TestReloadClearsCache(t *testing.T) {
	s := setupStore(t, bookingsCSV)
	ctx := context.Background()

	first, err := s.PackageDistribution(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.cache.Len() == 0 {
		t.Fatal("expected cached result")
	}

	extra := bookingsCSV + "Pria,50,Jawa,Paket Reguler 3 Bintang,2023-05-01\n"
	writeCSV(t, filepath.Dir(s.cfg.CSVPath), extra)

	cachedResult, err := s.PackageDistribution(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cachedResult, first) {
		t.Error("expected cached result before reload")
	}

	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	after, err := s.PackageDistribution(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if after[1].Count != 2 {
		t.Errorf("reguler 3 count after reload = %d, want 2", after[1].Count)
	}
	if s.Stats().Rows != 7 {
		t.Errorf("Rows = %d, want 7", s.Stats().Rows)
	}
}

func TestReloadKeepsDataOnFailure(t *testing.T) {
	s := setupStore(t, bookingsCSV)
	if err := os.Remove(s.cfg.CSVPath); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if _, err := s.PackageDistribution(context.Background()); err != nil {
		t.Errorf("previous data should remain queryable: %v", err)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		from, to string
		want     []string
		wantErr  bool
	}{
		{from: "2023-11", to: "2024-02", want: []string{"2023-11", "2023-12", "2024-01", "2024-02"}},
		{from: "2023-05", to: "2023-05", want: []string{"2023-05"}},
		{from: "2023-5", to: "2023-06", wantErr: true},
		{from: "2023-06", to: "2023-05", wantErr: true},
		{from: "0001-01", to: "9999-12", wantErr: true},
		{from: "2014-01", to: "2024-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.from+".."+tt.to, func(t *testing.T) {
			got, err := monthRange(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("ten years is the limit", func(t *testing.T) {
		got, err := monthRange("2014-01", "2023-12")
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if len(got) != MaxRangeMonths {
			t.Errorf("got %d months, want %d", len(got), MaxRangeMonths)
		}
	})
}

func TestBuildPivotDropsUnknownCells(t *testing.T) {
	cells := []cell{
		{row: "a", col: "x", count: 2},
		{row: "a", col: "x", count: 1},
		{row: "b", col: "y", count: 4},
		{row: "c", col: "x", count: 9},
		{row: "a", col: "z", count: 9},
	}
	p := buildPivot([]string{"a", "b"}, []string{"x", "y"}, cells, strings.ToUpper)

	want := &Pivot{
		Rows:    []string{"a", "b"},
		Columns: []string{"X", "Y"},
		Values:  [][]int64{{3, 0}, {0, 4}},
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("got %+v, want %+v", p, want)
	}
}
