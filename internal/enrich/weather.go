package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// WeatherService fetches current conditions from the Open-Meteo API and
// renders them as a human-readable summary. Failures surface as errors;
// the pipeline treats them as "summary unavailable", never fatal.
type WeatherService struct {
	latitude   float64
	longitude  float64
	timezone   string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherService creates a weather service for the given coordinates.
func NewWeatherService(latitude, longitude float64, timezone string) *WeatherService {
	return &WeatherService{
		latitude:  latitude,
		longitude: longitude,
		timezone:  timezone,
		baseURL:   openMeteoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
	Hourly    struct {
		Temperature []float64 `json:"temperature_2m"`
		Rain        []float64 `json:"rain"`
		Visibility  []float64 `json:"visibility"`
		Humidity    []float64 `json:"relative_humidity_2m"`
		WindSpeed   []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
}

// Summary returns a friendly multi-line description of current conditions.
func (s *WeatherService) Summary(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.4f", s.latitude))
	params.Set("longitude", fmt.Sprintf("%.4f", s.longitude))
	params.Set("hourly", "temperature_2m,rain,visibility,relative_humidity_2m,wind_speed_10m")
	params.Set("timezone", s.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create weather request: %w", err)
	}

	log.Printf("[WeatherService] Fetching weather for %.4fN, %.4fE", s.latitude, s.longitude)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed reading weather response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather non-success status=%d", resp.StatusCode)
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse weather response: %w", err)
	}

	h := parsed.Hourly
	if len(h.Temperature) == 0 || len(h.Rain) == 0 || len(h.Visibility) == 0 ||
		len(h.Humidity) == 0 || len(h.WindSpeed) == 0 {
		return "", fmt.Errorf("weather response missing hourly data")
	}

	// First hour of data stands in for current conditions.
	summary := fmt.Sprintf(`Current weather in %s:
Temperature: %.1f degrees Celsius
Rain: %.1fmm
Visibility: %.1fkm
Humidity: %.1f%%
Wind Speed: %.1fkm/h
Location: %.4fN, %.4fE`,
		parsed.Timezone,
		h.Temperature[0],
		h.Rain[0],
		h.Visibility[0]/1000,
		h.Humidity[0],
		h.WindSpeed[0],
		parsed.Latitude,
		parsed.Longitude,
	)
	return summary, nil
}
