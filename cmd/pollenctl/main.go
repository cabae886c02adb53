// Command pollenctl is a development helper for poking the Google Pollen
// API directly: one-shot forecast fetches and API key validation, printed
// as JSON or a readout table.
//
// Usage:
//
//	POLLEN_API_KEY=... pollenctl -lat 52.52 -lon 13.405 -days 3
//	POLLEN_API_KEY=... pollenctl -validate
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/pollen-forecast-service/internal/adapter/googlepollen"
	"github.com/couchcryptid/pollen-forecast-service/internal/observability"
)

func main() {
	_ = godotenv.Load()

	lat := flag.Float64("lat", 37.7749, "latitude")
	lon := flag.Float64("lon", -122.4194, "longitude")
	days := flag.Int("days", 5, "forecast days (1-5)")
	validate := flag.Bool("validate", false, "validate the API key and exit")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	readouts := flag.Bool("readouts", false, "print per-type readouts instead of the raw forecast")
	flag.Parse()

	apiKey := os.Getenv("POLLEN_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "POLLEN_API_KEY must be set")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := googlepollen.NewClient(apiKey, &http.Client{}, *timeout, observability.NewMetrics(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if *validate {
		runValidate(ctx, client)
		return
	}

	forecast, err := client.FetchForecast(ctx, *lat, *lon, *days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if *readouts {
		_ = enc.Encode(forecast.Readouts())
		return
	}
	_ = enc.Encode(forecast)
}

func runValidate(ctx context.Context, client *googlepollen.Client) {
	ok, err := client.ValidateKey(ctx)
	switch {
	case err != nil:
		var connErr *googlepollen.ConnectionError
		if errors.As(err, &connErr) {
			fmt.Fprintf(os.Stderr, "cannot reach pollen service: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "unexpected error: %v\n", err)
		}
		os.Exit(1)
	case !ok:
		fmt.Fprintln(os.Stderr, "invalid API key")
		os.Exit(1)
	}
	fmt.Println("API key is valid")
}
