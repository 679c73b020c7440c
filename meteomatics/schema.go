package meteomatics

import (
	"github.com/xeipuuv/gojsonschema"
)

// responseSchema describes the shape of a JSON response from the API.
// Deliberately permissive on "value": the API emits strings for
// non-numeric samples (e.g. symbols) and null for gaps.
const responseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["status", "version", "data"],
  "properties": {
    "status": {"type": "string"},
    "version": {"type": "string"},
    "dateGenerated": {"type": "string"},
    "user": {"type": "string"},
    "data": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["parameter", "coordinates"],
        "properties": {
          "parameter": {"type": "string"},
          "coordinates": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["lat", "lon", "dates"],
              "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"},
                "dates": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["date"],
                    "properties": {
                      "date": {"type": "string"},
                      "value": {"type": ["number", "string", "null"]}
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

// ValidateResponse checks a saved JSON payload against the response
// schema.
func ValidateResponse(blob []byte) (*gojsonschema.Result, error) {
	return gojsonschema.Validate(
		gojsonschema.NewStringLoader(responseSchema),
		gojsonschema.NewBytesLoader(blob),
	)
}
