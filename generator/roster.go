package generator

import "cfl_scraper/models"

// DefaultRoster is the Central Florida city list used for all-cities exports.
// Order matters: all-cities output is grouped in this order.
var DefaultRoster = []string{
	"Orlando",
	"Tampa",
	"St. Petersburg",
	"Clearwater",
	"Lakeland",
	"Kissimmee",
	"Winter Park",
	"Sanford",
	"Daytona Beach",
	"Ocala",
	"Gainesville",
	"Melbourne",
	"Palm Bay",
	"Winter Haven",
	"Brandon",
}

var agents = []models.Agent{
	{Name: "Sarah Johnson", Phone: "(407) 555-0123", Email: "sarah.johnson@example.com", Broker: "Keller Williams Realty"},
	{Name: "Michael Chen", Phone: "(813) 555-0145", Email: "michael.chen@example.com", Broker: "Coldwell Banker"},
	{Name: "Jessica Martinez", Phone: "(321) 555-0167", Email: "jessica.martinez@example.com", Broker: "RE/MAX Properties"},
	{Name: "David Thompson", Phone: "(863) 555-0189", Email: "david.thompson@example.com", Broker: "Century 21"},
}

var streetNames = []string{
	"Orange Blossom", "Lake Underhill", "Magnolia", "Palmetto", "Cypress",
	"Citrus", "Pine Hills", "Live Oak", "Sunshine", "Heron Bay",
	"Pelican", "Mangrove", "Sandpiper", "Lakeshore", "Hibiscus",
}

var streetSuffixes = []string{"St", "Ave", "Dr", "Ln", "Blvd", "Ct", "Way", "Cir"}
