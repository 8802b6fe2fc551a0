package cfg

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./sitegeist.db" description:"Path to the SQLite database file"`

	// Post source configuration
	Geofence    string `long:"geofence" env:"GEOFENCE" description:"Bounding box as lat1,lon1,lat2,lon2 (required)" required:"true"`
	StreamURL   string `long:"stream-url" env:"STREAM_URL" description:"Filtered post stream endpoint (required)" required:"true"`
	LookupURL   string `long:"lookup-url" env:"LOOKUP_URL" description:"Single post lookup endpoint"`
	StreamToken string `long:"stream-token" env:"STREAM_TOKEN" description:"Bearer token for the post stream API"`

	// Annotation configuration
	AnnotatorURL     string `long:"annotator-url" env:"ANNOTATOR_URL" description:"Remote annotation service URL (built-in annotator when empty)"`
	AnnotatorTimeout int    `long:"annotator-timeout" env:"ANNOTATOR_TIMEOUT" default:"10" description:"Annotation request timeout in seconds"`
	AnnotatorRules   string `long:"annotator-rules" env:"ANNOTATOR_RULES" description:"Path to a YAML rules file for the built-in annotator"`

	// Application configuration
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for scheduled tasks"`
	TrendHours        int    `long:"trend-hours" env:"TREND_HOURS" default:"1" description:"Size of the recent window for trend detection, in hours"`
	PurgeAfterArchive bool   `long:"purge-after-archive" env:"PURGE_AFTER_ARCHIVE" description:"Delete posts older than 24h after a successful archive"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"SiteGeist/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	coords, err := parseGeofence(raw.Geofence)
	if err != nil {
		return nil, fmt.Errorf("failed to parse geofence: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		Geofence:          raw.Geofence,
		GeofenceCoords:    coords,
		StreamURL:         raw.StreamURL,
		LookupURL:         raw.LookupURL,
		StreamToken:       raw.StreamToken,
		AnnotatorURL:      raw.AnnotatorURL,
		AnnotatorTimeout:  raw.AnnotatorTimeout,
		AnnotatorRules:    raw.AnnotatorRules,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		TrendHours:        raw.TrendHours,
		PurgeAfterArchive: raw.PurgeAfterArchive,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// parseGeofence splits a lat1,lon1,lat2,lon2 list into its four coordinates.
// Range validation happens where the geofence is built, not here.
func parseGeofence(s string) ([4]float64, error) {
	var coords [4]float64

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return coords, fmt.Errorf("expected 4 comma-separated coordinates, got %d", len(parts))
	}

	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return coords, fmt.Errorf("coordinate %d is not a number: %q", i+1, part)
		}
		coords[i] = v
	}

	return coords, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
