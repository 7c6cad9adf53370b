package models

import "strconv"

// PropertyRecord is a single synthetic for-sale listing
type PropertyRecord struct {
	PropertyID    string       `json:"propertyId"`
	MLSID         string       `json:"mlsId"`
	StreetAddress string       `json:"streetAddress"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	ZipCode       string       `json:"zipCode"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	Price         int          `json:"price"`
	Bedrooms      int          `json:"bedrooms"`
	Bathrooms     float64      `json:"bathrooms"`
	SqFt          int          `json:"sqft"`
	LotSize       int          `json:"lotSize"`
	YearBuilt     int          `json:"yearBuilt"`
	PropertyType  string       `json:"propertyType"`
	ListingStatus string       `json:"listingStatus"`
	DaysOnMarket  int          `json:"daysOnMarket"`
	HOAFee        *int         `json:"hoaFee"`
	Zestimate     int          `json:"zestimate"`
	RentZestimate int          `json:"rentZestimate"`
	PriceHistory  []PriceEvent `json:"priceHistory"`
	TaxHistory    []TaxRecord  `json:"taxHistory"`
	Agent         Agent        `json:"agent"`
	Images        []string     `json:"images"`
	ThumbnailURL  string       `json:"thumbnailUrl"`
	Description   string       `json:"description"`
	Schools       []School     `json:"schools"`
}

// BathroomsText renders bathrooms without trailing zeros ("2", "2.5")
func (p PropertyRecord) BathroomsText() string {
	return strconv.FormatFloat(p.Bathrooms, 'f', -1, 64)
}

type PriceEvent struct {
	Date   string `json:"date"`
	Event  string `json:"event"`
	Price  int    `json:"price"`
	Source string `json:"source"`
}

type TaxRecord struct {
	Year          int `json:"year"`
	TaxPaid       int `json:"taxPaid"`
	AssessedValue int `json:"assessedValue"`
}

// Agent is the listing agent and their brokerage
type Agent struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Broker string `json:"broker"`
}

type School struct {
	Name     string  `json:"name"`
	Level    string  `json:"level"` // elementary, middle, high
	Rating   int     `json:"rating"`
	Distance float64 `json:"distance"` // miles
}

// Property types
const (
	PropertyTypeSingleFamily = "Single Family"
	PropertyTypeCondo        = "Condo"
	PropertyTypeTownhouse    = "Townhouse"
	PropertyTypeMultiFamily  = "Multi-Family"
)

// PropertyTypes lists every property type a record may carry
var PropertyTypes = []string{
	PropertyTypeSingleFamily,
	PropertyTypeCondo,
	PropertyTypeTownhouse,
	PropertyTypeMultiFamily,
}

const (
	StateFlorida         = "FL"
	ListingStatusForSale = "FOR_SALE"
)

// School levels
const (
	SchoolLevelElementary = "elementary"
	SchoolLevelMiddle     = "middle"
	SchoolLevelHigh       = "high"
)
