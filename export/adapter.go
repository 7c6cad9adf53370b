package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cfl_scraper/models"
)

// Generator produces records for one city
type Generator interface {
	Generate(city string, count int) []models.PropertyRecord
}

// Result is a rendered export body
type Result struct {
	Body        []byte
	ContentType string
	Filename    string
	Count       int
}

// Envelope is the JSON response shape
type Envelope struct {
	Success    bool                    `json:"success"`
	Count      int                     `json:"count"`
	City       string                  `json:"city"`
	Properties []models.PropertyRecord `json:"properties"`
}

type Adapter struct {
	gen    Generator
	roster []string
}

func New(gen Generator, roster []string) *Adapter {
	return &Adapter{gen: gen, roster: roster}
}

// Roster returns the cities used for all-cities requests, in order
func (a *Adapter) Roster() []string {
	return a.roster
}

// Cities returns the cities a request selects, in generation order
func (a *Adapter) Cities(req Request) []string {
	if req.All {
		return a.roster
	}
	return []string{req.City}
}

// Collect runs the generator once per selected city and concatenates the
// results in roster order.
func (a *Adapter) Collect(req Request) []models.PropertyRecord {
	cities := a.Cities(req)
	records := make([]models.PropertyRecord, 0, len(cities)*max(req.Limit, 0))
	for _, city := range cities {
		records = append(records, a.gen.Generate(city, req.Limit)...)
	}
	return records
}

// Render serializes records in the requested format
func (a *Adapter) Render(req Request, records []models.PropertyRecord) (*Result, error) {
	return Render(req, records)
}

// Render serializes records without an Adapter; req only supplies the
// format and label.
func Render(req Request, records []models.PropertyRecord) (*Result, error) {
	switch req.Format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, records); err != nil {
			return nil, fmt.Errorf("render csv: %w", err)
		}
		return &Result{
			Body:        buf.Bytes(),
			ContentType: "text/csv",
			Filename:    Filename(req.Label(), "csv"),
			Count:       len(records),
		}, nil
	case FormatJSON, "":
		body, err := json.Marshal(Envelope{
			Success:    true,
			Count:      len(records),
			City:       req.Label(),
			Properties: records,
		})
		if err != nil {
			return nil, fmt.Errorf("render json: %w", err)
		}
		return &Result{
			Body:        body,
			ContentType: "application/json",
			Filename:    Filename(req.Label(), "json"),
			Count:       len(records),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

// Export collects and renders in one step
func (a *Adapter) Export(req Request) (*Result, error) {
	return a.Render(req, a.Collect(req))
}

// Filename builds "properties-<label>.<ext>" with characters that would
// break a Content-Disposition header removed.
func Filename(label, ext string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' || r == '/' || r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, label)
	if clean == "" {
		clean = "export"
	}
	return "properties-" + clean + "." + ext
}
