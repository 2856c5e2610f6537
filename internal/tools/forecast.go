package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/skywatch/internal/weather"
)

// WeatherForecast reports the multi-day interval forecast for a location.
type WeatherForecast struct {
	client *weather.Client
}

// NewWeatherForecast creates the get_weather_forecast tool.
func NewWeatherForecast(client *weather.Client) *WeatherForecast {
	return &WeatherForecast{client: client}
}

func (t *WeatherForecast) Name() string { return "get_weather_forecast" }

func (t *WeatherForecast) Description() string {
	return "Fetches weather forecast data (next 5 days in 3-hour intervals) for a " +
		"specified location. Use this when the user asks about future weather, " +
		"forecasts, upcoming conditions, or what the weather will be like. " +
		"Supports precise locations using 'city,state,country' format for small towns."
}

func (t *WeatherForecast) InputSchema() json.RawMessage { return locationSchema }

func (t *WeatherForecast) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	location, units, err := parseLocationArgs(args)
	if err != nil {
		return "", err
	}

	fc, err := t.client.Forecast(ctx, location, units)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch weather data: %v", err)
	}

	out, err := json.Marshal(fc)
	if err != nil {
		return "", fmt.Errorf("marshal forecast: %w", err)
	}
	return string(out), nil
}
