package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rkist/meteofetch/meteomatics"
	"github.com/rkist/meteofetch/query"
	"github.com/rkist/meteofetch/store"
	"github.com/rkist/meteofetch/summary"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	defaultParameters = "t_2m:C,precip_1h:mm,wind_speed_10m:ms"
	defaultLatitude   = 52.520551
	defaultLongitude  = 13.461804
	defaultInterval   = "PT1H"
	defaultHours      = 24

	// artifactLabelFormat names saved artifacts after the fetch time (UTC).
	artifactLabelFormat = "20060102T150405Z"
)

type fetchOptions struct {
	lat        float64
	lon        float64
	bbox       string
	gridSteps  string
	parameters string
	hours      int
	start      string
	end        string
	interval   string
	format     string
	baseURL    string
	username   string
	password   string
	out        string
}

func NewCmdFetch(out io.Writer, logger logrus.FieldLogger, config *Config) *cobra.Command {
	opts := &fetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch weather data and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doFetch(out, logger, config, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", defaultLatitude, "Latitude (point mode)")
	cmd.Flags().Float64Var(&opts.lon, "lon", defaultLongitude, "Longitude (point mode)")
	cmd.Flags().StringVar(&opts.bbox, "bbox", "", "Bounding box for grid as lat_min,lon_min,lat_max,lon_max")
	cmd.Flags().StringVar(&opts.gridSteps, "grid-steps", "", "Grid step as dlat,dlon (e.g. 0.05,0.05)")
	cmd.Flags().StringVar(&opts.parameters, "parameters", defaultParameters, "Comma-separated parameter list (e.g. t_2m:C,precip_1h:mm)")
	cmd.Flags().IntVar(&opts.hours, "hours", defaultHours, "Hours ahead from now (UTC) to include (ignored if --start/--end provided)")
	cmd.Flags().StringVar(&opts.start, "start", "", "Start time ISO8601 (e.g. 2025-10-01T00:00:00Z)")
	cmd.Flags().StringVar(&opts.end, "end", "", "End time ISO8601 (e.g. 2025-10-02T00:00:00Z)")
	cmd.Flags().StringVar(&opts.interval, "interval", defaultInterval, "ISO-8601 interval step (e.g. PT1H)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Response format (json, csv or netcdf)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "API base URL (defaults to api.base_url)")
	cmd.Flags().StringVar(&opts.username, "username", "", "API username (overrides METEOMATICS_USERNAME)")
	cmd.Flags().StringVar(&opts.password, "password", "", "API password (overrides METEOMATICS_PASSWORD)")
	cmd.Flags().StringVar(&opts.out, "out", "", "Path to save the raw response (defaults to output.directory)")

	return cmd
}

func doFetch(out io.Writer, logger logrus.FieldLogger, config *Config, opts *fetchOptions) error {
	spec, err := buildRequestSpec(opts, time.Now())
	if err != nil {
		return err
	}

	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = config.API.BaseURL
	}
	url := spec.URL(baseURL)

	username, password, err := credentials(opts, config)
	if err != nil {
		return err
	}

	logger = logger.WithField("request_id", uuid.New().String())
	logger.WithField("url", url).Debug("Fetching weather data")

	client := meteomatics.New(username, password, time.Duration(config.API.Timeout)*time.Second)
	body, err := client.Fetch(context.Background(), url)
	if err != nil {
		var statusErr *meteomatics.StatusError
		if errors.As(err, &statusErr) {
			fmt.Fprintln(out, statusErr)
		}
		return err
	}

	label := time.Now().UTC().Format(artifactLabelFormat)
	artifacts := store.New(afero.NewOsFs(), config.Output.Directory)

	if opts.format == "json" {
		path, err := artifacts.SaveJSON(opts.out, label, body)
		if err != nil {
			return err
		}
		logger.WithField("path", path).Debug("Artifact saved")
		fmt.Fprintf(out, "Saved raw response to %s\n\n", path)
		payload, err := summary.Parse(body)
		if err != nil {
			return errors.Wrap(err, "decoding response payload")
		}
		fmt.Fprintln(out, summary.Summarize(payload))
		return nil
	}

	// csv is saved as text, anything else as opaque bytes. Either way the
	// body is written verbatim and no summary is printed.
	ext := "nc"
	if opts.format == "csv" {
		ext = "csv"
	}
	path, err := artifacts.SaveRaw(opts.out, label, ext, body)
	if err != nil {
		return err
	}
	logger.WithField("path", path).Debug("Artifact saved")
	fmt.Fprintf(out, "Saved raw response to %s\n", path)
	return nil
}

func buildRequestSpec(opts *fetchOptions, now time.Time) (query.RequestSpec, error) {
	var ts query.TimeSpec
	if opts.start != "" && opts.end != "" {
		ts = query.TimeSpec{Start: opts.start, End: opts.end, Interval: opts.interval}
	} else {
		ts = query.GenerateTimeSpec(now, opts.hours, opts.interval)
	}

	var coords query.CoordinateSpec = query.Point{Lat: opts.lat, Lon: opts.lon}
	if opts.bbox != "" && opts.gridSteps != "" {
		latMin, lonMin, latMax, lonMax, err := query.ParseBoundingBox(opts.bbox)
		if err != nil {
			return query.RequestSpec{}, err
		}
		latStep, lonStep, err := query.ParseGridSteps(opts.gridSteps)
		if err != nil {
			return query.RequestSpec{}, err
		}
		coords = query.Grid{
			LatMin: latMin, LonMin: lonMin,
			LatMax: latMax, LonMax: lonMax,
			LatStep: latStep, LonStep: lonStep,
		}
	}

	return query.RequestSpec{
		Time:        ts,
		Coordinates: coords,
		Parameters:  opts.parameters,
		Format:      opts.format,
	}, nil
}

// credentials resolves the API credentials: flags win over the config
// file, which viper has already merged with the environment.
func credentials(opts *fetchOptions, config *Config) (string, string, error) {
	username := opts.username
	if username == "" {
		username = config.API.Username
	}
	password := opts.password
	if password == "" {
		password = config.API.Password
	}
	if username == "" || password == "" {
		return "", "", errors.New("missing credentials: set METEOMATICS_USERNAME and METEOMATICS_PASSWORD or pass --username/--password")
	}
	return username, password, nil
}
