package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/user/skywatch/internal/weather"
)

// locationSchema is the shared parameter schema for both weather tools.
var locationSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"location": {
			"type": "string",
			"description": "Location in one of these formats: \"City\", \"City,Country\", or \"City,State,Country\". Examples: \"London\", \"Paris,FR\", \"Austin,TX,US\", \"Bladenboro,NC,US\". For small towns, use the full \"City,State,Country\" format for best results. Use ISO 3166 country codes (US, GB, FR, etc.) and standard 2-letter state codes (TX, CA, NC, etc.)"
		},
		"units": {
			"type": "string",
			"enum": ["metric", "imperial"],
			"description": "Temperature units: \"metric\" for Celsius, \"imperial\" for Fahrenheit. Default is metric.",
			"default": "metric"
		}
	},
	"required": ["location"]
}`)

// parseLocationArgs decodes the shared {location, units} argument object,
// trimming the location and defaulting units to metric.
func parseLocationArgs(args json.RawMessage) (location, units string, err error) {
	var params struct {
		Location string `json:"location"`
		Units    string `json:"units"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return "", "", fmt.Errorf("parse args: %w", err)
	}

	location = strings.TrimSpace(params.Location)
	if location == "" {
		return "", "", fmt.Errorf("location is required")
	}

	units = params.Units
	if units == "" {
		units = weather.UnitsMetric
	}
	if units != weather.UnitsMetric && units != weather.UnitsImperial {
		return "", "", fmt.Errorf("invalid units %q: must be %q or %q", units, weather.UnitsMetric, weather.UnitsImperial)
	}
	return location, units, nil
}
