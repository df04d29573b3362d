package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"explorer-be/internal/entities"
)

// CreatePlaceRequest represents the add-place form and POST /api/pois body.
type CreatePlaceRequest struct {
	Name      string     `json:"name" form:"name" binding:"required,min=2,max=100"`
	Category  string     `json:"category" form:"category" binding:"required,category"`
	VisitDate string     `json:"visitDate" form:"visitDate" binding:"required,isodate"`
	Latitude  Coordinate `json:"latitude" form:"latitude" binding:"required,float"`
	Longitude Coordinate `json:"longitude" form:"longitude" binding:"required,float"`
}

var errNotFinite = errors.New("coordinate is not a finite number")

// Coordinate is the raw text of a latitude or longitude. Any JSON value is
// accepted while decoding so that a wrong type is reported by the float rule
// against its field; a JSON 0 stays "0" and an empty form field stays empty.
type Coordinate string

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
	default:
		*c = Coordinate(data)
	}
	return nil
}

// Float64 parses the coordinate, exponent forms included.
func (c Coordinate) Float64() (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(c)), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// PlaceQuery is the optional category filter on list/bulk-delete endpoints
type PlaceQuery struct {
	Category string `form:"category" binding:"omitempty,category"`
}

// VisitDateLayouts are the accepted ISO date forms, most specific last.
var VisitDateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseVisitDate parses an ISO date; plain dates are taken as UTC midnight.
func ParseVisitDate(value string) (time.Time, error) {
	var err error
	for _, layout := range VisitDateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}

// ToPlace converts a validated request into a new place owned by ownerID.
func (r *CreatePlaceRequest) ToPlace(ownerID string) (*entities.Place, error) {
	visitDate, err := ParseVisitDate(r.VisitDate)
	if err != nil {
		return nil, err
	}
	latitude, err := r.Latitude.Float64()
	if err != nil {
		return nil, err
	}
	longitude, err := r.Longitude.Float64()
	if err != nil {
		return nil, err
	}
	return &entities.Place{
		Name:      r.Name,
		Category:  entities.Category(r.Category),
		VisitDate: visitDate,
		Latitude:  latitude,
		Longitude: longitude,
		Images:    []string{},
		CreatedBy: ownerID,
	}, nil
}
