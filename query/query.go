// Package query builds Meteomatics request URLs from user-supplied time
// windows, coordinates and parameter lists. The API uses a positional
// path grammar:
//
//	{base}/{start}--{end}:{interval}/{parameters}/{coordinates}/{format}
//
// Nothing here is validated beyond what is needed to format the URL;
// malformed values travel to the API unmodified and are reported there.
package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// TimeFormat is the timestamp layout expected by the API.
const TimeFormat = "2006-01-02T15:04:05Z"

// TimeSpec describes the time window and sampling interval of a query.
// Start and End are used verbatim; Interval is an ISO-8601 duration
// such as "PT1H".
type TimeSpec struct {
	Start    string
	End      string
	Interval string
}

func (ts TimeSpec) PathSegment() string {
	return fmt.Sprintf("%s--%s:%s", ts.Start, ts.End, ts.Interval)
}

// GenerateTimeSpec returns a window starting at now (UTC, truncated to
// the hour) and spanning the given number of hours.
func GenerateTimeSpec(now time.Time, hours int, interval string) TimeSpec {
	start := now.UTC().Truncate(time.Hour)
	end := start.Add(time.Duration(hours) * time.Hour)
	return TimeSpec{
		Start:    start.Format(TimeFormat),
		End:      end.Format(TimeFormat),
		Interval: interval,
	}
}

// CoordinateSpec is a location rendered into the API's path grammar,
// either a single point or a rectangular grid.
type CoordinateSpec interface {
	PathSegment() string
}

// Point is a single latitude/longitude pair.
type Point struct {
	Lat float64
	Lon float64
}

func (p Point) PathSegment() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// Grid is a bounding box sampled at fixed latitude/longitude steps.
// The corners may be given in any order.
type Grid struct {
	LatMin, LonMin   float64
	LatMax, LonMax   float64
	LatStep, LonStep float64
}

// PathSegment renders "lat_top,lon_left_lat_bottom,lon_right:dlat,dlon"
// as expected by the API, normalizing the corners so that top >= bottom
// and right >= left.
func (g Grid) PathSegment() string {
	latTop := math.Max(g.LatMin, g.LatMax)
	latBottom := math.Min(g.LatMin, g.LatMax)
	lonLeft := math.Min(g.LonMin, g.LonMax)
	lonRight := math.Max(g.LonMin, g.LonMax)
	return fmt.Sprintf("%.6f,%.6f_%.6f,%.6f:%.6f,%.6f",
		latTop, lonLeft, latBottom, lonRight, g.LatStep, g.LonStep)
}

// RequestSpec aggregates everything needed to build a request URL.
// Parameters is the comma-joined list of parameter identifiers, passed
// through unvalidated.
type RequestSpec struct {
	Time        TimeSpec
	Coordinates CoordinateSpec
	Parameters  string
	Format      string
}

// URL builds the full request URL against the given base.
func (r RequestSpec) URL(baseURL string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		strings.TrimRight(baseURL, "/"),
		r.Time.PathSegment(),
		r.Parameters,
		r.Coordinates.PathSegment(),
		r.Format)
}

// ParseBoundingBox parses "lat_min,lon_min,lat_max,lon_max".
func ParseBoundingBox(s string) (latMin, lonMin, latMax, lonMax float64, err error) {
	vals, err := splitFloats(s, 4)
	if err != nil {
		return 0, 0, 0, 0, errors.Wrapf(err, "invalid bounding box %q", s)
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

// ParseGridSteps parses "dlat,dlon". Steps must be positive.
func ParseGridSteps(s string) (latStep, lonStep float64, err error) {
	vals, err := splitFloats(s, 2)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid grid steps %q", s)
	}
	if vals[0] <= 0 || vals[1] <= 0 {
		return 0, 0, errors.Errorf("invalid grid steps %q: steps must be positive", s)
	}
	return vals[0], vals[1], nil
}

func splitFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.Errorf("want %d comma-separated values, got %d", n, len(parts))
	}
	vals := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		vals[i] = f
	}
	return vals, nil
}
