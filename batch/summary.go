package batch

import (
	"fmt"
	"io"
	"strconv"

	"cfl_scraper/models"
)

// Summary describes one finished batch
type Summary struct {
	Total    int
	Cities   int
	AvgPrice int
	MinPrice int
	MaxPrice int
	JSONPath string
	CSVPath  string
}

// Summarize computes totals and price statistics. Prices are zero when
// there are no records; the average is rounded to the nearest dollar.
func Summarize(records []models.PropertyRecord, cities int) *Summary {
	s := &Summary{Total: len(records), Cities: cities}
	if len(records) == 0 {
		return s
	}

	sum := 0
	s.MinPrice = records[0].Price
	s.MaxPrice = records[0].Price
	for _, r := range records {
		sum += r.Price
		s.MinPrice = min(s.MinPrice, r.Price)
		s.MaxPrice = max(s.MaxPrice, r.Price)
	}
	s.AvgPrice = (sum + len(records)/2) / len(records)
	return s
}

func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "Export complete")
	fmt.Fprintf(w, "  Records:   %d\n", s.Total)
	fmt.Fprintf(w, "  Cities:    %d\n", s.Cities)
	fmt.Fprintf(w, "  Avg price: %s\n", Dollars(s.AvgPrice))
	fmt.Fprintf(w, "  Min price: %s\n", Dollars(s.MinPrice))
	fmt.Fprintf(w, "  Max price: %s\n", Dollars(s.MaxPrice))
	if s.JSONPath != "" {
		fmt.Fprintf(w, "  JSON:      %s\n", s.JSONPath)
	}
	if s.CSVPath != "" {
		fmt.Fprintf(w, "  CSV:       %s\n", s.CSVPath)
	}
}

// Dollars formats a whole-dollar amount as $1,234,567
func Dollars(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + "$" + string(out)
}
