// Umrah Advisor - Pilgrimage Package Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/umrahadvisor

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/umrahadvisor/internal/artifact"
	"github.com/tomtom215/umrahadvisor/internal/history"
	"github.com/tomtom215/umrahadvisor/internal/recommend"
)

func testArtifactPaths() artifact.Paths {
	return artifact.Paths{
		Model:   "../artifact/testdata/model.json",
		Labels:  "../artifact/testdata/label_encoder.json",
		Columns: "../artifact/testdata/fit_columns.json",
	}
}

// newTestPipeline loads the test forest with the year-conditioned scheme.
func newTestPipeline(t *testing.T) *recommend.Pipeline {
	t.Helper()
	bundle, err := artifact.Load(testArtifactPaths())
	if err != nil {
		t.Fatalf("load artifacts: %v", err)
	}
	a, err := bundle.Artifacts(recommend.YearConditionedScheme(), recommend.DefaultPriceTable())
	if err != nil {
		t.Fatalf("artifacts: %v", err)
	}
	p, err := recommend.NewPipeline(a, zerolog.Nop())
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return p
}

// failingClassifier fails at the given stage.
type failingClassifier struct {
	failPredict bool
}

func (f failingClassifier) Predict(recommend.FeatureVector) (int, error) {
	if f.failPredict {
		return 0, errors.New("tree 3 is corrupt")
	}
	return 0, nil
}

func (f failingClassifier) PredictProba(recommend.FeatureVector) ([]float64, error) {
	return nil, errors.New("probabilities unavailable")
}

func newPipelineWith(t *testing.T, c recommend.Classifier, columns []string) *recommend.Pipeline {
	t.Helper()
	labels, err := artifact.NewLabelEncoder([]string{"paket_plus_a", "paket_reguler_3_bintang"})
	if err != nil {
		t.Fatal(err)
	}
	a, err := recommend.NewArtifacts(c, labels, columns, recommend.YearConditionedScheme(), recommend.DefaultPriceTable())
	if err != nil {
		t.Fatal(err)
	}
	p, err := recommend.NewPipeline(a, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// fakeHistory is an in-memory HistoryStore.
type fakeHistory struct {
	err       error
	reloadErr error
	reloads   int
	since     time.Time
	from, to  string
}

func (f *fakeHistory) PackageDistribution(context.Context) ([]history.CategoryCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []history.CategoryCount{{Key: "paket_plus_a", Label: "Paket Plus A", Count: 3}}, nil
}

func (f *fakeHistory) MonthlyBookings(_ context.Context, since time.Time) ([]history.MonthCount, error) {
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	return []history.MonthCount{{Month: "2023-01", Count: 2}}, nil
}

func (f *fakeHistory) PackagesPerMonth(_ context.Context, from, to string) (*history.Pivot, error) {
	f.from, f.to = from, to
	if f.err != nil {
		return nil, f.err
	}
	return &history.Pivot{Rows: []string{"2023-01"}, Columns: []string{"Paket Plus A"}, Values: [][]int64{{2}}}, nil
}

func (f *fakeHistory) AgeGroups(context.Context) (*history.Pivot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &history.Pivot{Rows: []string{"<18"}, Columns: []string{"Paket Plus A"}, Values: [][]int64{{1}}}, nil
}

func (f *fakeHistory) GenderByPackage(context.Context) (*history.Pivot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &history.Pivot{Rows: []string{"Paket Plus A"}, Columns: []string{"Pria", "Wanita"}, Values: [][]int64{{0, 3}}}, nil
}

func (f *fakeHistory) Reload(context.Context) error {
	f.reloads++
	return f.reloadErr
}

func (f *fakeHistory) Stats() history.Stats {
	return history.Stats{Loaded: f.err == nil, Rows: 6, Path: "bookings.csv"}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return response
}

func errorCode(t *testing.T, response map[string]interface{}) string {
	t.Helper()
	e, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object, got %v", response["error"])
	}
	code, _ := e["code"].(string)
	return code
}

func postRecommendation(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Recommend(rec, req)
	return rec
}

const validBody = `{"gender":"Wanita","age":45,"region":"Jawa","month":"Maret","day":10,"year":2023}`

func TestRecommend_Success(t *testing.T) {
	h := NewHandler(newTestPipeline(t))

	rec := postRecommendation(h, validBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("expected ETag")
	}

	response := decodeResponse(t, rec)
	if response["status"] != "success" {
		t.Fatalf("status = %v", response["status"])
	}
	data := response["data"].(map[string]interface{})
	if data["package_id"] != "paket_plus_a" {
		t.Errorf("package_id = %v", data["package_id"])
	}
	if data["package_name"] != "Paket Plus A" {
		t.Errorf("package_name = %v", data["package_name"])
	}
	if data["price"] != "Rp43.450.000" {
		t.Errorf("price = %v", data["price"])
	}
	if data["scheme_version"] != recommend.SchemeYearCond {
		t.Errorf("scheme_version = %v", data["scheme_version"])
	}

	rows := data["probabilities"].([]interface{})
	if len(rows) != 6 {
		t.Fatalf("got %d probability rows, want 6", len(rows))
	}
	prev := 2.0
	for _, row := range rows {
		p := row.(map[string]interface{})["probability"].(float64)
		if p > prev {
			t.Errorf("probabilities not sorted descending: %v after %v", p, prev)
		}
		prev = p
	}
	if first := rows[0].(map[string]interface{}); first["package_id"] != "paket_plus_a" {
		t.Errorf("top row = %v", first["package_id"])
	}
}

func TestRecommend_AcceptsMonthNumberAndEnglishGender(t *testing.T) {
	h := NewHandler(newTestPipeline(t))

	rec := postRecommendation(h, `{"gender":"male","age":30,"region":"sumatera","month":"12","day":1,"year":2022}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data := decodeResponse(t, rec)["data"].(map[string]interface{})
	if data["package_id"] != "paket_reguler_3_bintang" {
		t.Errorf("package_id = %v", data["package_id"])
	}
	if data["price"] != "Rp25.450.000" {
		t.Errorf("price = %v", data["price"])
	}
}

func TestRecommend_ValidationErrors(t *testing.T) {
	h := NewHandler(newTestPipeline(t))

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "malformed json", body: `{"gender":`},
		{name: "unknown field", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"Maret","day":1,"year":2023,"vip":true}`},
		{name: "missing gender", body: `{"age":30,"region":"Jawa","month":"Maret","day":1,"year":2023}`, field: "gender"},
		{name: "too young", body: `{"gender":"Pria","age":17,"region":"Jawa","month":"Maret","day":1,"year":2023}`, field: "age"},
		{name: "bad month", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"Smarch","day":1,"year":2023}`, field: "month"},
		{name: "day 32", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"Maret","day":32,"year":2023}`, field: "day"},
		{name: "missing year", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"Maret","day":1}`, field: "year"},
		{name: "unsupported year", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"Maret","day":1,"year":2021}`, field: "year"},
		{name: "31 april", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"April","day":31,"year":2023}`, field: "day"},
		{name: "29 february 2023", body: `{"gender":"Pria","age":30,"region":"Jawa","month":"Februari","day":29,"year":2023}`, field: "day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postRecommendation(h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			response := decodeResponse(t, rec)
			if code := errorCode(t, response); code != CodeValidation {
				t.Errorf("code = %s", code)
			}
			if tt.field == "" {
				return
			}
			details, _ := response["error"].(map[string]interface{})["details"].(map[string]interface{})
			if details["field"] != tt.field {
				t.Errorf("field = %v, want %s", details["field"], tt.field)
			}
		})
	}

	if got := h.recommender.Stats().Requests; got != 0 {
		t.Errorf("rejected requests reached the pipeline: %d", got)
	}
}

func TestRecommend_LeapDay(t *testing.T) {
	h := NewHandler(newTestPipeline(t))
	rec := postRecommendation(h, `{"gender":"Pria","age":30,"region":"Jawa","month":"Februari","day":29,"year":2024}`)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRecommend_PipelineErrors(t *testing.T) {
	yearColumns := recommend.YearConditionedScheme().Columns

	tests := []struct {
		name     string
		pipeline func(t *testing.T) *recommend.Pipeline
		body     string
		status   int
		code     string
		stage    string
	}{
		{
			name:     "unknown region",
			pipeline: newTestPipeline,
			body:     `{"gender":"Pria","age":30,"region":"Atlantis","month":"Maret","day":1,"year":2023}`,
			status:   http.StatusUnprocessableEntity,
			code:     CodeEncoding,
			stage:    stageEncode,
		},
		{
			name: "schema mismatch",
			pipeline: func(t *testing.T) *recommend.Pipeline {
				return newPipelineWith(t, failingClassifier{}, []string{"jenis_kelamin", "usia", "kota"})
			},
			body:   validBody,
			status: http.StatusUnprocessableEntity,
			code:   CodeSchemaMismatch,
			stage:  stageSchema,
		},
		{
			name: "predict failure",
			pipeline: func(t *testing.T) *recommend.Pipeline {
				return newPipelineWith(t, failingClassifier{failPredict: true}, yearColumns)
			},
			body:   validBody,
			status: http.StatusInternalServerError,
			code:   CodePredictionFailed,
			stage:  recommend.StagePredict,
		},
		{
			name: "predict_proba failure",
			pipeline: func(t *testing.T) *recommend.Pipeline {
				return newPipelineWith(t, failingClassifier{}, yearColumns)
			},
			body:   validBody,
			status: http.StatusInternalServerError,
			code:   CodePredictionFailed,
			stage:  recommend.StagePredictProba,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(tt.pipeline(t))
			rec := postRecommendation(h, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.status, rec.Body.String())
			}
			response := decodeResponse(t, rec)
			if response["status"] != "error" {
				t.Errorf("status = %v", response["status"])
			}
			if code := errorCode(t, response); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
			details := response["error"].(map[string]interface{})["details"].(map[string]interface{})
			if details["stage"] != tt.stage {
				t.Errorf("stage = %v, want %s", details["stage"], tt.stage)
			}
		})
	}
}

func TestRecommend_MethodNotAllowed(t *testing.T) {
	h := NewHandler(newTestPipeline(t))
	rec := httptest.NewRecorder()
	h.Recommend(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", rec.Code)
	}
	if rec.Header().Get("Allow") != http.MethodPost {
		t.Errorf("Allow = %q", rec.Header().Get("Allow"))
	}
}

func TestRecommend_BodyTooLarge(t *testing.T) {
	h := NewHandler(newTestPipeline(t))
	body := `{"gender":"Pria","region":"` + strings.Repeat("x", maxRequestBody) + `"}`
	rec := postRecommendation(h, body)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestPackages(t *testing.T) {
	h := NewHandler(newTestPipeline(t))
	rec := httptest.NewRecorder()
	h.Packages(rec, httptest.NewRequest(http.MethodGet, "/api/v1/packages", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeResponse(t, rec)["data"].([]interface{})
	if len(data) != 6 {
		t.Fatalf("got %d packages, want 6", len(data))
	}
	want := map[string]string{
		"paket_plus_a":            "Rp43.450.000",
		"paket_plus_c":            "Rp67.400.000",
		"paket_reguler_5_bintang": "Rp41.450.000",
	}
	for _, item := range data {
		p := item.(map[string]interface{})
		id := p["package_id"].(string)
		if price, ok := want[id]; ok && p["price"] != price {
			t.Errorf("%s price = %v, want %s", id, p["price"], price)
		}
	}
}

func TestOptions(t *testing.T) {
	h := NewHandler(newTestPipeline(t))
	rec := httptest.NewRecorder()
	h.Options(rec, httptest.NewRequest(http.MethodGet, "/api/v1/options", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data := decodeResponse(t, rec)["data"].(map[string]interface{})
	if got := len(data["regions"].([]interface{})); got != 7 {
		t.Errorf("regions = %d, want 7", got)
	}
	if got := len(data["months"].([]interface{})); got != 12 {
		t.Errorf("months = %d, want 12", got)
	}
	if got := len(data["years"].([]interface{})); got != 3 {
		t.Errorf("years = %d, want 3", got)
	}
	if data["scheme_version"] != recommend.SchemeYearCond {
		t.Errorf("scheme_version = %v", data["scheme_version"])
	}
}

func TestHistoryEndpoints(t *testing.T) {
	tests := []struct {
		name    string
		handler func(h *Handler) http.HandlerFunc
		target  string
	}{
		{"packages", func(h *Handler) http.HandlerFunc { return h.HistoryPackages }, "/api/v1/history/packages"},
		{"monthly", func(h *Handler) http.HandlerFunc { return h.HistoryMonthly }, "/api/v1/history/monthly"},
		{"packages per month", func(h *Handler) http.HandlerFunc { return h.HistoryPackagesPerMonth }, "/api/v1/history/packages-per-month"},
		{"age groups", func(h *Handler) http.HandlerFunc { return h.HistoryAgeGroups }, "/api/v1/history/age-groups"},
		{"gender", func(h *Handler) http.HandlerFunc { return h.HistoryGender }, "/api/v1/history/gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Run("success", func(t *testing.T) {
				h := NewHandler(newTestPipeline(t), WithHistory(&fakeHistory{}))
				rec := httptest.NewRecorder()
				tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
				if rec.Code != http.StatusOK {
					t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
				}
				if decodeResponse(t, rec)["data"] == nil {
					t.Error("expected data")
				}
			})

			t.Run("not configured", func(t *testing.T) {
				h := NewHandler(newTestPipeline(t))
				rec := httptest.NewRecorder()
				tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
				if rec.Code != http.StatusServiceUnavailable {
					t.Fatalf("status = %d", rec.Code)
				}
				if code := errorCode(t, decodeResponse(t, rec)); code != CodeHistoryUnavailable {
					t.Errorf("code = %s", code)
				}
			})

			t.Run("not loaded", func(t *testing.T) {
				h := NewHandler(newTestPipeline(t), WithHistory(&fakeHistory{err: history.ErrNotLoaded}))
				rec := httptest.NewRecorder()
				tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
				if rec.Code != http.StatusServiceUnavailable {
					t.Errorf("status = %d", rec.Code)
				}
			})

			t.Run("query failure", func(t *testing.T) {
				h := NewHandler(newTestPipeline(t), WithHistory(&fakeHistory{err: errors.New("duckdb: out of memory")}))
				rec := httptest.NewRecorder()
				tt.handler(h)(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
				if rec.Code != http.StatusInternalServerError {
					t.Fatalf("status = %d", rec.Code)
				}
				if code := errorCode(t, decodeResponse(t, rec)); code != CodeQueryFailed {
					t.Errorf("code = %s", code)
				}
			})
		})
	}
}

func TestHistoryParameters(t *testing.T) {
	t.Run("since is parsed", func(t *testing.T) {
		store := &fakeHistory{}
		h := NewHandler(newTestPipeline(t), WithHistory(store))
		rec := httptest.NewRecorder()
		h.HistoryMonthly(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/monthly?since=2023-06-01", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if want := time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC); !store.since.Equal(want) {
			t.Errorf("since = %v, want %v", store.since, want)
		}
	})

	t.Run("range is passed through", func(t *testing.T) {
		store := &fakeHistory{}
		h := NewHandler(newTestPipeline(t), WithHistory(store))
		rec := httptest.NewRecorder()
		h.HistoryPackagesPerMonth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/packages-per-month?from=2023-01&to=2023-06", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if store.from != "2023-01" || store.to != "2023-06" {
			t.Errorf("range = %s..%s", store.from, store.to)
		}
	})

	invalid := []struct {
		name   string
		target string
		call   func(h *Handler) http.HandlerFunc
	}{
		{"bad since", "/api/v1/history/monthly?since=01-06-2023", func(h *Handler) http.HandlerFunc { return h.HistoryMonthly }},
		{"bad from", "/api/v1/history/packages-per-month?from=2023-1", func(h *Handler) http.HandlerFunc { return h.HistoryPackagesPerMonth }},
		{"reversed range", "/api/v1/history/packages-per-month?from=2024-01&to=2023-01", func(h *Handler) http.HandlerFunc { return h.HistoryPackagesPerMonth }},
		{"range over ten years", "/api/v1/history/packages-per-month?from=0001-01&to=9999-12", func(h *Handler) http.HandlerFunc { return h.HistoryPackagesPerMonth }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeHistory{}
			h := NewHandler(newTestPipeline(t), WithHistory(store))
			rec := httptest.NewRecorder()
			tt.call(h)(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			if code := errorCode(t, decodeResponse(t, rec)); code != CodeValidation {
				t.Errorf("code = %s", code)
			}
			if store.from != "" || store.to != "" {
				t.Errorf("store queried with %s..%s", store.from, store.to)
			}
		})
	}

	t.Run("store rejects one-sided range", func(t *testing.T) {
		store := &fakeHistory{err: fmt.Errorf("%w: 0001-01..2024-02 spans 24278 months, limit is 120", history.ErrInvalidRange)}
		h := NewHandler(newTestPipeline(t), WithHistory(store))
		rec := httptest.NewRecorder()
		h.HistoryPackagesPerMonth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/packages-per-month?from=0001-01", nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
		resp := decodeResponse(t, rec)
		if code := errorCode(t, resp); code != CodeValidation {
			t.Errorf("code = %s", code)
		}
		msg, _ := resp["error"].(map[string]interface{})["message"].(string)
		if !strings.Contains(msg, "limit is 120") {
			t.Errorf("message = %q", msg)
		}
	})
}

func TestHistoryReload(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := &fakeHistory{}
		h := NewHandler(newTestPipeline(t), WithHistory(store))
		rec := httptest.NewRecorder()
		h.HistoryReload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/history/reload", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if store.reloads != 1 {
			t.Errorf("reloads = %d", store.reloads)
		}
	})

	t.Run("failure", func(t *testing.T) {
		store := &fakeHistory{reloadErr: errors.New("no such file")}
		h := NewHandler(newTestPipeline(t), WithHistory(store))
		rec := httptest.NewRecorder()
		h.HistoryReload(rec, httptest.NewRequest(http.MethodPost, "/api/v1/history/reload", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("wrong method", func(t *testing.T) {
		h := NewHandler(newTestPipeline(t), WithHistory(&fakeHistory{}))
		rec := httptest.NewRecorder()
		h.HistoryReload(rec, httptest.NewRequest(http.MethodGet, "/api/v1/history/reload", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		opts       []HandlerOption
		wantStatus string
	}{
		{name: "no history", wantStatus: "healthy"},
		{name: "history loaded", opts: []HandlerOption{WithHistory(&fakeHistory{})}, wantStatus: "healthy"},
		{name: "history not loaded", opts: []HandlerOption{WithHistory(&fakeHistory{err: history.ErrNotLoaded})}, wantStatus: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]HandlerOption{WithVersion("1.2.3")}, tt.opts...)
			h := NewHandler(newTestPipeline(t), opts...)
			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			data := decodeResponse(t, rec)["data"].(map[string]interface{})
			if data["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", data["status"], tt.wantStatus)
			}
			if data["version"] != "1.2.3" {
				t.Errorf("version = %v", data["version"])
			}
			if data["classes"].(float64) != 6 {
				t.Errorf("classes = %v", data["classes"])
			}
		})
	}
}

func TestHealthProbes(t *testing.T) {
	h := NewHandler(newTestPipeline(t))

	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d", rec.Code)
	}
	if decodeResponse(t, rec)["status"] != "ready" {
		t.Error("expected ready")
	}

	notReady := NewHandler(nil)
	rec = httptest.NewRecorder()
	notReady.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready status = %d", rec.Code)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	tests := map[string]string{
		"plain":        "plain",
		"line\nforged": `line\x0aforged`,
		"tab\tand\rcr": `tab\x09and\x0dcr`,
		"del\x7f":      `del\x7f`,
		"Bali & Nusa":  "Bali & Nusa",
	}
	for in, want := range tests {
		if got := sanitizeLogValue(in); got != want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte(`{"a":1}`))
	b := generateETag([]byte(`{"a":1}`))
	c := generateETag([]byte(`{"a":2}`))
	if a != b {
		t.Error("ETag not deterministic")
	}
	if a == c {
		t.Error("different payloads share an ETag")
	}
	if !strings.HasPrefix(a, `W/"`) {
		t.Errorf("ETag %s is not weak", a)
	}
}

func TestFormatPercent(t *testing.T) {
	tests := map[float64]string{
		0:      "0.00%",
		0.5:    "50.00%",
		0.4567: "45.67%",
		1:      "100.00%",
	}
	for in, want := range tests {
		if got := formatPercent(in); got != want {
			t.Errorf("formatPercent(%v) = %s, want %s", in, got, want)
		}
	}
}

func TestRespondJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respondSuccess(rec, map[string]int{"n": 1}, time.Now())

	meta, ok := decodeResponse(t, rec)["metadata"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing metadata: %s", rec.Body.String())
	}
	for key := range meta {
		if key != "timestamp" && key != "query_time_ms" {
			t.Errorf("unexpected metadata field %q", key)
		}
	}
	if _, ok := meta["timestamp"]; !ok {
		t.Error("metadata has no timestamp")
	}
	if rec.Header().Get("Cache-Control") != "public, max-age=60" {
		t.Errorf("Cache-Control = %q", rec.Header().Get("Cache-Control"))
	}
}
