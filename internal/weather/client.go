package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the OpenWeatherMap 2.5 API root.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

	requestTimeout     = 10 * time.Second
	maxForecastEntries = 40
)

// Units enumerations for temperature measurement.
const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Client fetches weather data from OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient creates a weather client. An empty baseURL selects the
// production endpoint.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		// The free tier allows 60 calls/minute.
		limiter: rate.NewLimiter(rate.Limit(1), 5),
	}
}

// currentPayload mirrors the provider's /weather response shape.
type currentPayload struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Visibility int `json:"visibility"`
}

// forecastPayload mirrors the provider's /forecast response shape.
type forecastPayload struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// Current fetches present conditions for a location. An empty units value
// defaults to metric.
func (c *Client) Current(ctx context.Context, location, units string) (*Snapshot, error) {
	units = normalizeUnits(units)

	var payload currentPayload
	if err := c.get(ctx, "/weather", location, units, &payload); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Location:    payload.Name,
		Country:     payload.Sys.Country,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		TempMin:     payload.Main.TempMin,
		TempMax:     payload.Main.TempMax,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		Clouds:      payload.Clouds.All,
		Visibility:  payload.Visibility,
		Sunrise:     time.Unix(payload.Sys.Sunrise, 0).Format("15:04"),
		Sunset:      time.Unix(payload.Sys.Sunset, 0).Format("15:04"),
		Units:       units,
		Timestamp:   time.Now().Format("2006-01-02 15:04:05"),
	}
	if len(payload.Weather) > 0 {
		snap.Description = payload.Weather[0].Description
		snap.Main = payload.Weather[0].Main
	}
	return snap, nil
}

// Forecast fetches the interval forecast for a location, capped at 40
// entries in provider order.
func (c *Client) Forecast(ctx context.Context, location, units string) (*Forecast, error) {
	units = normalizeUnits(units)

	var payload forecastPayload
	if err := c.get(ctx, "/forecast", location, units, &payload); err != nil {
		return nil, err
	}

	entries := payload.List
	if len(entries) > maxForecastEntries {
		entries = entries[:maxForecastEntries]
	}

	fc := &Forecast{
		Location:  payload.City.Name,
		Country:   payload.City.Country,
		Forecasts: make([]ForecastEntry, 0, len(entries)),
	}
	for _, item := range entries {
		entry := ForecastEntry{
			Datetime:    item.DtTxt,
			Temperature: item.Main.Temp,
			WindSpeed:   item.Wind.Speed,
			Humidity:    item.Main.Humidity,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
		}
		fc.Forecasts = append(fc.Forecasts, entry)
	}
	return fc, nil
}

// get performs one provider request and decodes the response into out.
// Network failures and non-2xx statuses collapse into a single error.
func (c *Client) get(ctx context.Context, path, location, units string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	q.Set("q", location)
	q.Set("appid", c.apiKey)
	q.Set("units", units)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("weather API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func normalizeUnits(units string) string {
	if units == "" {
		return UnitsMetric
	}
	return units
}
