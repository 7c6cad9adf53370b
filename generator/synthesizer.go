package generator

import (
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"

	"cfl_scraper/models"
)

// Field bounds. Ranges are inclusive unless noted.
const (
	MinBedrooms     = 2
	MaxBedrooms     = 5
	MinBathrooms    = 1.0
	MaxBathrooms    = 4.0
	MinSqFt         = 1000
	MaxSqFt         = 3500
	MinYearBuilt    = 1980
	MaxYearBuilt    = 2023
	MinPricePerSqFt = 150
	MaxPricePerSqFt = 349
	MaxDaysOnMarket = 89
	MinHOAFee       = 50
	MaxHOAFee       = 349
	MinZip          = 32701
	MaxZip          = 34799

	// lot multiplier in [2, 5), zestimate factor in [0.95, 1.05)
	MinLotFactor       = 2.0
	MaxLotFactor       = 5.0
	MinZestimateFactor = 0.95
	MaxZestimateFactor = 1.05

	MinLatitude  = 27.50
	MaxLatitude  = 29.20
	MinLongitude = -82.80
	MaxLongitude = -80.60

	MinSchoolRating   = 6
	MaxSchoolRating   = 9
	MinSchoolDistance = 0.5
	MaxSchoolDistance = 6.0

	ImageCount = 5
)

// Synthesizer fabricates property records with internally consistent
// valuation fields. It holds no state besides its random source.
type Synthesizer struct {
	src Source
}

func New(src Source) *Synthesizer {
	return &Synthesizer{src: src}
}

// Generate returns exactly count records for city. The city is not checked
// against any roster. A negative count is treated as zero.
func (s *Synthesizer) Generate(city string, count int) []models.PropertyRecord {
	if count < 0 {
		count = 0
	}
	records := make([]models.PropertyRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, s.record(city))
	}
	return records
}

func (s *Synthesizer) record(city string) models.PropertyRecord {
	id := s.propertyID()

	sqft := s.between(MinSqFt, MaxSqFt)
	price := sqft * s.between(MinPricePerSqFt, MaxPricePerSqFt)
	bedrooms := s.between(MinBedrooms, MaxBedrooms)
	bathrooms := MinBathrooms + float64(s.src.Intn(int((MaxBathrooms-MinBathrooms)*2)+1))*0.5
	lotSize := int(float64(sqft) * s.uniform(MinLotFactor, MaxLotFactor))
	zestimate := int(float64(price) * s.uniform(MinZestimateFactor, MaxZestimateFactor))

	rec := models.PropertyRecord{
		PropertyID:    id,
		MLSID:         fmt.Sprintf("O%07d", s.src.Intn(10000000)),
		StreetAddress: s.streetAddress(),
		City:          city,
		State:         models.StateFlorida,
		ZipCode:       fmt.Sprintf("%05d", s.between(MinZip, MaxZip)),
		Latitude:      round(s.uniform(MinLatitude, MaxLatitude), 6),
		Longitude:     round(s.uniform(MinLongitude, MaxLongitude), 6),
		Price:         price,
		Bedrooms:      bedrooms,
		Bathrooms:     bathrooms,
		SqFt:          sqft,
		LotSize:       lotSize,
		YearBuilt:     s.between(MinYearBuilt, MaxYearBuilt),
		PropertyType:  s.pick(models.PropertyTypes),
		ListingStatus: models.ListingStatusForSale,
		DaysOnMarket:  s.src.Intn(MaxDaysOnMarket + 1),
		HOAFee:        s.hoaFee(),
		Zestimate:     zestimate,
		RentZestimate: RentEstimate(price),
		PriceHistory:  DerivePriceHistory(price),
		TaxHistory:    DeriveTaxHistory(price),
		Agent:         agents[s.src.Intn(len(agents))],
		Images:        images(id),
		ThumbnailURL:  fmt.Sprintf("https://picsum.photos/seed/%s-1/400/300", id),
		Schools:       s.schools(city),
	}
	rec.Description = fmt.Sprintf(
		"Beautiful %d bedroom, %s bathroom home in %s with %d sq ft of living space. "+
			"Open floor plan, updated kitchen and a screened lanai.",
		bedrooms, rec.BathroomsText(), city, sqft)

	return rec
}

func (s *Synthesizer) propertyID() string {
	id, err := uuid.NewRandomFromReader(sourceReader{src: s.src})
	if err != nil {
		// sourceReader never fails; keep an opaque id regardless
		return "FL-" + strconv.Itoa(s.src.Intn(math.MaxInt32))
	}
	return "FL-" + id.String()
}

func (s *Synthesizer) streetAddress() string {
	return fmt.Sprintf("%d %s %s",
		s.between(100, 9999), s.pick(streetNames), s.pick(streetSuffixes))
}

func (s *Synthesizer) hoaFee() *int {
	if s.src.Intn(2) != 0 {
		return nil
	}
	fee := s.between(MinHOAFee, MaxHOAFee)
	return &fee
}

func (s *Synthesizer) schools(city string) []models.School {
	levels := []struct{ level, suffix string }{
		{models.SchoolLevelElementary, "Elementary School"},
		{models.SchoolLevelMiddle, "Middle School"},
		{models.SchoolLevelHigh, "High School"},
	}
	schools := make([]models.School, 0, len(levels))
	for _, l := range levels {
		schools = append(schools, models.School{
			Name:     city + " " + l.suffix,
			Level:    l.level,
			Rating:   s.between(MinSchoolRating, MaxSchoolRating),
			Distance: round(s.uniform(MinSchoolDistance, MaxSchoolDistance), 1),
		})
	}
	return schools
}

func images(id string) []string {
	urls := make([]string, ImageCount)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://picsum.photos/seed/%s-%d/800/600", id, i+1)
	}
	return urls
}

// between returns an int in [lo, hi]
func (s *Synthesizer) between(lo, hi int) int {
	return lo + s.src.Intn(hi-lo+1)
}

// uniform returns a float in [lo, hi)
func (s *Synthesizer) uniform(lo, hi float64) float64 {
	return lo + s.src.Float64()*(hi-lo)
}

func (s *Synthesizer) pick(values []string) string {
	return values[s.src.Intn(len(values))]
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
