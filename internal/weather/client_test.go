package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const currentFixture = `{
	"name": "Paris",
	"sys": {"country": "FR", "sunrise": 1756008000, "sunset": 1756058400},
	"main": {"temp": 18.5, "feels_like": 17.8, "temp_min": 16.0, "temp_max": 20.1, "humidity": 65, "pressure": 1014},
	"weather": [{"main": "Clouds", "description": "scattered clouds"}],
	"wind": {"speed": 3.6},
	"clouds": {"all": 40},
	"visibility": 10000
}`

func forecastFixture(n int) string {
	items := make([]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(`{
			"dt_txt": "2026-08-23 %02d:00:00",
			"main": {"temp": %d.0, "humidity": 60},
			"weather": [{"description": "light rain"}],
			"wind": {"speed": 2.5}
		}`, i%24, 10+i%10))
	}
	return fmt.Sprintf(`{"list": [%s], "city": {"name": "Tokyo", "country": "JP"}}`,
		strings.Join(items, ","))
}

func TestCurrent(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/weather" {
			t.Errorf("path = %q, want /weather", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":     q.Get("q"),
			"appid": q.Get("appid"),
			"units": q.Get("units"),
		}
		fmt.Fprint(w, currentFixture)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	snap, err := c.Current(context.Background(), "Paris,FR", UnitsMetric)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	if gotQuery["q"] != "Paris,FR" || gotQuery["appid"] != "test-key" || gotQuery["units"] != "metric" {
		t.Errorf("query params = %v", gotQuery)
	}
	if snap.Location != "Paris" || snap.Country != "FR" {
		t.Errorf("location = %q/%q", snap.Location, snap.Country)
	}
	if snap.Temperature != 18.5 || snap.Humidity != 65 {
		t.Errorf("temp = %v, humidity = %d", snap.Temperature, snap.Humidity)
	}
	if snap.Description != "scattered clouds" || snap.Main != "Clouds" {
		t.Errorf("weather = %q/%q", snap.Description, snap.Main)
	}
	if snap.Units != "metric" {
		t.Errorf("units = %q", snap.Units)
	}
	if snap.Sunrise == "" || snap.Sunset == "" || snap.Timestamp == "" {
		t.Errorf("derived times missing: %q %q %q", snap.Sunrise, snap.Sunset, snap.Timestamp)
	}
}

func TestCurrentDefaultsUnits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		fmt.Fprint(w, currentFixture)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL)
	if _, err := c.Current(context.Background(), "Paris", ""); err != nil {
		t.Fatalf("Current() error = %v", err)
	}
}

func TestCurrentMissingWeatherArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "X", "sys": {}, "main": {}, "weather": [], "wind": {}, "clouds": {}}`)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL)
	snap, err := c.Current(context.Background(), "X", UnitsMetric)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if snap.Description != "" || snap.Main != "" {
		t.Errorf("weather fields = %q/%q, want empty", snap.Description, snap.Main)
	}
}

func TestForecastCapsEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast" {
			t.Errorf("path = %q, want /forecast", r.URL.Path)
		}
		fmt.Fprint(w, forecastFixture(45))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL)
	fc, err := c.Forecast(context.Background(), "Tokyo", UnitsMetric)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(fc.Forecasts) != 40 {
		t.Fatalf("got %d entries, want 40", len(fc.Forecasts))
	}
	if fc.Location != "Tokyo" || fc.Country != "JP" {
		t.Errorf("city = %q/%q", fc.Location, fc.Country)
	}
	// Provider order must be preserved: the first kept entry is the first sent.
	if fc.Forecasts[0].Datetime != "2026-08-23 00:00:00" {
		t.Errorf("first entry datetime = %q", fc.Forecasts[0].Datetime)
	}
}

func TestForecastShortList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, forecastFixture(8))
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL)
	fc, err := c.Forecast(context.Background(), "Tokyo", UnitsImperial)
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(fc.Forecasts) != 8 {
		t.Errorf("got %d entries, want 8", len(fc.Forecasts))
	}
	if fc.Forecasts[0].Description != "light rain" {
		t.Errorf("description = %q", fc.Forecasts[0].Description)
	}
}

func TestGetErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL)
	_, err := c.Current(context.Background(), "Nowhereville", UnitsMetric)
	if err == nil {
		t.Fatal("Current() error = nil, want status error")
	}
	if !strings.Contains(err.Error(), "status 404") || !strings.Contains(err.Error(), "city not found") {
		t.Errorf("error = %v", err)
	}
}

func TestGetMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": `)
	}))
	defer srv.Close()

	c := NewClient("k", srv.URL)
	if _, err := c.Current(context.Background(), "Paris", UnitsMetric); err == nil {
		t.Fatal("Current() error = nil, want parse error")
	}
}

func TestSnapshotJSONShape(t *testing.T) {
	data, err := json.Marshal(&Snapshot{Location: "Paris", Temperature: 18.5, Units: "metric"})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"location", "temperature", "feels_like", "wind_speed", "sunrise", "sunset", "timestamp", "units"} {
		if _, ok := m[key]; !ok {
			t.Errorf("marshaled snapshot missing key %q", key)
		}
	}
}
