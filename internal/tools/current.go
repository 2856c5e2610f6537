package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/user/skywatch/internal/weather"
)

// CurrentWeather reports present conditions for a location.
type CurrentWeather struct {
	client *weather.Client
}

// NewCurrentWeather creates the get_current_weather tool.
func NewCurrentWeather(client *weather.Client) *CurrentWeather {
	return &CurrentWeather{client: client}
}

func (t *CurrentWeather) Name() string { return "get_current_weather" }

func (t *CurrentWeather) Description() string {
	return "Fetches current weather data for a specified location. " +
		"Use this when the user asks about current weather conditions, " +
		"temperature, humidity, wind, or any present-moment weather information. " +
		"Supports precise locations using 'city,state,country' format for small towns."
}

func (t *CurrentWeather) InputSchema() json.RawMessage { return locationSchema }

func (t *CurrentWeather) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	location, units, err := parseLocationArgs(args)
	if err != nil {
		return "", err
	}

	snap, err := t.client.Current(ctx, location, units)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch weather data: %v", err)
	}

	out, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	return string(out), nil
}
