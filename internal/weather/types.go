package weather

// Snapshot is a normalized view of current conditions for one location.
type Snapshot struct {
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	TempMin     float64 `json:"temp_min"`
	TempMax     float64 `json:"temp_max"`
	Humidity    int     `json:"humidity"`
	Pressure    int     `json:"pressure"`
	Description string  `json:"description"`
	Main        string  `json:"main"`
	WindSpeed   float64 `json:"wind_speed"`
	Clouds      int     `json:"clouds"`
	Visibility  int     `json:"visibility"`
	Sunrise     string  `json:"sunrise"`
	Sunset      string  `json:"sunset"`
	Units       string  `json:"units"`
	Timestamp   string  `json:"timestamp"`
}

// ForecastEntry is one three-hour interval observation.
type ForecastEntry struct {
	Datetime    string  `json:"datetime"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	WindSpeed   float64 `json:"wind_speed"`
	Humidity    int     `json:"humidity"`
}

// Forecast is a normalized multi-day series of interval entries.
type Forecast struct {
	Location  string          `json:"location"`
	Country   string          `json:"country"`
	Forecasts []ForecastEntry `json:"forecasts"`
}
