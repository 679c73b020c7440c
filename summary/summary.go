// Package summary turns a Meteomatics JSON response into a short
// per-parameter digest.
package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// sampleLimit is how many leading samples are echoed per parameter.
const sampleLimit = 3

// Parse decodes a raw JSON payload for summarization. Numbers are kept
// as json.Number so that sample values print exactly as received.
func Parse(blob []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(blob))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Summarize renders one header line plus one line per parameter entry.
// Missing or malformed fields degrade to sentinel values; the function
// never fails on payload shape.
func Summarize(payload map[string]interface{}) string {
	lines := []string{fmt.Sprintf("Status: %v | API version: %v | Generated: %v",
		payload["status"], payload["version"], payload["dateGenerated"])}

	data, ok := payload["data"].([]interface{})
	if !ok || len(data) == 0 {
		lines = append(lines, "No 'data' array found in response.")
		return strings.Join(lines, "\n")
	}

	for _, entry := range data {
		lines = append(lines, parameterLine(entry))
	}

	return strings.Join(lines, "\n")
}

// parameterLine digests a single entry of the "data" array. Only the
// first coordinate block is summarized. Samples stay in received order;
// non-numeric values count toward Count and show up in Samples but are
// excluded from Min/Max.
func parameterLine(entry interface{}) string {
	m, _ := entry.(map[string]interface{})

	name := "<unknown>"
	if n, ok := m["parameter"].(string); ok {
		name = n
	}

	coords, _ := m["coordinates"].([]interface{})
	if len(coords) == 0 {
		return fmt.Sprintf("Parameter %s: no coordinates returned", name)
	}

	coord, _ := coords[0].(map[string]interface{})
	dates, _ := coord["dates"].([]interface{})

	var (
		timestamps []interface{}
		values     []float64
		samples    []string
	)
	for _, d := range dates {
		dm, _ := d.(map[string]interface{})
		timestamps = append(timestamps, dm["date"])
		if len(samples) < sampleLimit {
			samples = append(samples, fmt.Sprintf("%v=%v", dm["date"], dm["value"]))
		}
		if n, ok := dm["value"].(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				values = append(values, f)
			}
		}
	}

	count := len(dates)

	tsFirst, tsLast := "<none>", "<none>"
	if len(timestamps) > 0 {
		tsFirst = fmt.Sprintf("%v", timestamps[0])
		tsLast = fmt.Sprintf("%v", timestamps[len(timestamps)-1])
	}

	vMin, vMax := "<na>", "<na>"
	if len(values) > 0 {
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		vMin = fmt.Sprintf("%.3f", lo)
		vMax = fmt.Sprintf("%.3f", hi)
	}

	sample := "<no samples>"
	if count > 0 {
		sample = strings.Join(samples, ", ")
	}

	return strings.Join([]string{
		fmt.Sprintf("Parameter: %s", name),
		fmt.Sprintf("Lat/Lon: %v,%v", coord["lat"], coord["lon"]),
		fmt.Sprintf("Count: %d", count),
		fmt.Sprintf("Range: %s → %s", tsFirst, tsLast),
		fmt.Sprintf("Min/Max: %s/%s", vMin, vMax),
		fmt.Sprintf("Samples: %s", sample),
	}, " | ")
}
