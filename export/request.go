package export

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// AllCities is the city label used for roster-wide exports
const AllCities = "all"

// Limits bounds the per-city record count of a request
type Limits struct {
	Default int
	Max     int
}

var DefaultLimits = Limits{Default: 10, Max: 200}

// Request selects what to export. Limit is already clamped.
type Request struct {
	City   string
	All    bool
	Limit  int
	Format Format
}

// Label is the requested city name, or "all" for roster-wide requests
func (r Request) Label() string {
	if r.All {
		return AllCities
	}
	return r.City
}

// UsageError means the caller did not say what to export
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// ParseRequest reads city, all, limit and format from a query string.
// The city is kept exactly as sent; a blank one counts as missing.
//
// Limit policy: absent, non-numeric and negative values fall back to
// limits.Default. Values above limits.Max, including ones too large for
// an int, are clamped to it. Zero is allowed.
func ParseRequest(q url.Values, limits Limits) (Request, error) {
	req := Request{
		City:   q.Get("city"),
		All:    q.Get("all") == "true",
		Limit:  ParseLimit(q.Get("limit"), limits),
		Format: FormatJSON,
	}

	if !req.All && strings.TrimSpace(req.City) == "" {
		return Request{}, &UsageError{Message: "Missing required parameter: city or all=true"}
	}

	switch f := Format(strings.ToLower(strings.TrimSpace(q.Get("format")))); f {
	case "", FormatJSON:
	case FormatCSV:
		req.Format = FormatCSV
	default:
		return Request{}, &UsageError{Message: "Unsupported format: " + string(f) + " (use json or csv)"}
	}

	return req, nil
}

// ParseLimit applies the limit policy to a raw value
func ParseLimit(raw string, limits Limits) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	switch {
	case errors.Is(err, strconv.ErrRange) && limit > 0:
		// Atoi saturates at MaxInt, so the cap below applies
	case err != nil || limit < 0:
		limit = limits.Default
	}
	if limits.Max > 0 && limit > limits.Max {
		limit = limits.Max
	}
	return limit
}
