package external

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"forestwatch/internal/types"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) With(args ...any) types.Logger { return nopLogger{} }

func TestDownloadClient_BuildsQueryAndDecodesLinks(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"csv_url":  "https://example.org/dl.csv?geostore=geo-1",
				"json_url": "https://example.org/dl.json",
			},
		})
	}))
	defer server.Close()

	client := NewDownloadClient(newTestClient(t, DefaultRetryPolicy()), server.URL, "umd_glad_landsat_alerts", nopLogger{})

	begin := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC)
	params := types.GeoParams{Geostore: "geo-1", ISO: "BRA"}

	urls, err := client.URLs(context.Background(), types.Layer{Slug: "glad-l"}, begin, end, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/v1/download-links/umd_glad_landsat_alerts" {
		t.Errorf("unexpected path: %s", gotPath)
	}
	req, _ := http.NewRequest(http.MethodGet, "/?"+gotQuery, nil)
	q := req.URL.Query()
	if q.Get("start_date") != "2023-05-01" || q.Get("end_date") != "2023-05-08" {
		t.Errorf("window not in query: %s", gotQuery)
	}
	if q.Get("geostore") != "geo-1" || q.Get("iso") != "BRA" {
		t.Errorf("geo params not in query: %s", gotQuery)
	}
	if urls.CSV != "https://example.org/dl.csv?geostore=geo-1" || urls.JSON != "https://example.org/dl.json" {
		t.Errorf("unexpected links: %+v", urls)
	}
}

func TestSampleClient_DecodesSamples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("geostore") != "geo-7" || r.URL.Query().Get("limit") != "10" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]int{
				{"year": 2023, "julian_day": 121},
				{"year": 2023, "julian_day": 120},
			},
		})
	}))
	defer server.Close()

	client := NewSampleClient(newTestClient(t, DefaultRetryPolicy()), server.URL, nopLogger{})

	samples, err := client.LatestAlerts(context.Background(), "geo-7", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(samples) != 2 || samples[0].Year != 2023 || samples[0].Day != 121 {
		t.Errorf("unexpected samples: %+v", samples)
	}
}

func TestSubscriptionClient_ListsForLayer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("layer") != "glad-alerts" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"id":       "sub-1",
					"language": "en",
					"resource": map[string]string{"type": "EMAIL", "content": "a@example.org"},
					"params":   map[string]string{"geostore": "geo-1"},
				},
			},
		})
	}))
	defer server.Close()

	client := NewSubscriptionClient(newTestClient(t, DefaultRetryPolicy()), server.URL, nopLogger{})

	subs, err := client.ListForLayer(context.Background(), "glad-alerts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscription, got %d", len(subs))
	}
	if subs[0].ID != "sub-1" || subs[0].Resource.Type != types.ResourceEmail || subs[0].Params.Geostore != "geo-1" {
		t.Errorf("unexpected subscription: %+v", subs[0])
	}
}

func TestGetJSON_ErrorStatusMapsToUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewAnalysisClient(newTestClient(t, DefaultRetryPolicy()), server.URL, nopLogger{})

	_, err := client.Results(context.Background(), types.Layer{Slug: "glad-l"}, time.Now(), time.Now(), types.GeoParams{})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrCodeUpstreamUnavailable {
		t.Errorf("expected upstream_unavailable, got %v", err)
	}
}
