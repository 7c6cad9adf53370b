package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"cfl_scraper/models"
)

// CSVHeader is the fixed export column set
var CSVHeader = []string{
	"Property ID", "MLS ID", "Address", "City", "State", "ZIP",
	"Price", "Beds", "Baths", "SqFt", "Type", "Year", "Status",
}

// WriteCSV writes the header and one row per record. Numeric columns are
// bare; text columns are always double-quoted with embedded quotes doubled,
// so commas and quotes inside values keep the column count intact.
func WriteCSV(w io.Writer, records []models.PropertyRecord) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return err
	}

	for _, r := range records {
		fields := []string{
			quote(r.PropertyID),
			quote(r.MLSID),
			quote(r.StreetAddress),
			quote(r.City),
			quote(r.State),
			quote(r.ZipCode),
			strconv.Itoa(r.Price),
			strconv.Itoa(r.Bedrooms),
			r.BathroomsText(),
			strconv.Itoa(r.SqFt),
			quote(r.PropertyType),
			strconv.Itoa(r.YearBuilt),
			quote(r.ListingStatus),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
