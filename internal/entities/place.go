package entities

import (
	"strings"
	"time"
)

// Category is one of the fixed place categories.
type Category string

const (
	CategoryCaves      Category = "Caves"
	CategoryBeaches    Category = "Beaches"
	CategoryMountains  Category = "Mountains"
	CategoryParks      Category = "Parks"
	CategoryWaterfalls Category = "Waterfalls"
	CategoryCities     Category = "Cities"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryCaves,
	CategoryBeaches,
	CategoryMountains,
	CategoryParks,
	CategoryWaterfalls,
	CategoryCities,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// DisplayDateLayout is the DD-MM-YYYY format used by the UI.
const DisplayDateLayout = "02-01-2006"

// Place is a visited point of interest.
type Place struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	VisitDate time.Time `json:"visitDate"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Images    []string  `json:"images"`
	CreatedBy string    `json:"createdBy"` // Owner user ID
}

// FormattedVisitDate renders the visit date as DD-MM-YYYY.
func (p *Place) FormattedVisitDate() string {
	if p.VisitDate.IsZero() {
		return "Unknown Date"
	}
	return p.VisitDate.UTC().Format(DisplayDateLayout)
}

// WithoutImagesMatching returns the image URLs that do not contain fragment.
func WithoutImagesMatching(images []string, fragment string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		if !strings.Contains(img, fragment) {
			out = append(out, img)
		}
	}
	return out
}

// CategoryCount is the number of places in one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
}
