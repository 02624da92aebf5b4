package tool

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	contractx "github.com/patcharaw/multitool-agent/agent/contract"
)

// WeatherReport is the normalized shape of one weather lookup.
type WeatherReport struct {
	City            string  `json:"city"`
	Country         string  `json:"country,omitempty"`
	TemperatureC    float64 `json:"temperature_c"`
	FeelsLikeC      float64 `json:"feels_like_c"`
	PrecipitationMM float64 `json:"precipitation_mm"`
	WindSpeedKPH    float64 `json:"wind_speed_kph"`
}

// weatherClient resolves a city through the Open-Meteo geocoding API and
// then fetches current conditions from the forecast API.
type weatherClient struct {
	http         *http.Client
	geocodeBase  string
	forecastBase string
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Name      string  `json:"name"`
		Country   string  `json:"country"`
	} `json:"results"`
}

type forecastResponse struct {
	Current struct {
		Temperature2M       float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		Precipitation       float64 `json:"precipitation"`
		WindSpeed10M        float64 `json:"wind_speed_10m"`
	} `json:"current"`
}

func (c *weatherClient) execute(ctx context.Context, args map[string]any) contractx.ToolResult {
	city, ok := stringArg(args, "city")
	if !ok {
		return contractx.Fail(ToolWeather, contractx.FailureInvalidInput, "city is required")
	}

	geoURL := fmt.Sprintf("%s/v1/search?name=%s&count=1&language=en&format=json",
		c.geocodeBase, url.QueryEscape(city))

	var geo geocodeResponse
	if err := doJSON(ctx, c.http, geoURL, nil, &geo); err != nil {
		log.Warn().Err(err).Str("city", city).Msg("weather geocoding failed")
		return mapTransportFailure(ToolWeather, city, err)
	}
	if len(geo.Results) == 0 {
		return contractx.Fail(ToolWeather, contractx.FailureNotFound, "no location found for %q", city)
	}
	loc := geo.Results[0]

	forecastURL := fmt.Sprintf(
		"%s/v1/forecast?latitude=%g&longitude=%g&current=temperature_2m,apparent_temperature,precipitation,wind_speed_10m",
		c.forecastBase, loc.Latitude, loc.Longitude)

	var fc forecastResponse
	if err := doJSON(ctx, c.http, forecastURL, nil, &fc); err != nil {
		log.Warn().Err(err).Str("city", city).Msg("weather forecast failed")
		return mapTransportFailure(ToolWeather, city, err)
	}

	name := loc.Name
	if name == "" {
		name = city
	}
	return contractx.Succeed(ToolWeather, WeatherReport{
		City:            name,
		Country:         loc.Country,
		TemperatureC:    fc.Current.Temperature2M,
		FeelsLikeC:      fc.Current.ApparentTemperature,
		PrecipitationMM: fc.Current.Precipitation,
		WindSpeedKPH:    fc.Current.WindSpeed10M,
	})
}
