package geocoding

import (
	"context"
	"net/url"
	"strings"
)

// Google status values.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
	PlaceID          string   `json:"place_id"`
	Types            []string `json:"types"`
}

type GeocodeResponse struct {
	Results      []GeocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Coordinates is a resolved point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (r *GeocodeResponse) validate() *Failure {
	if r.Status == "" {
		return newFailure(UpstreamError, "geocode response missing status", nil)
	}
	if r.Status != StatusOK && r.Status != StatusZeroResults {
		return statusFailure(r.Status, r.ErrorMessage)
	}
	for i, res := range r.Results {
		if res.Geometry.Location.Lat == nil || res.Geometry.Location.Lng == nil {
			return newFailure(UpstreamError, "geocode result missing location", nil)
		}
		if r.Results[i].Types == nil {
			r.Results[i].Types = []string{}
		}
	}
	if r.Results == nil {
		r.Results = []GeocodeResult{}
	}
	return nil
}

// LookupAddress returns the validated upstream response; ZERO_RESULTS is not an error here.
func (c *Client) LookupAddress(ctx context.Context, address string) (*GeocodeResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, newFailure(InvalidInput, "Address is required", nil)
	}

	var resp GeocodeResponse
	if err := c.getJSON(ctx, "geocode", c.geocodeURL, url.Values{"address": {address}}, &resp); err != nil {
		return nil, err
	}
	if f := resp.validate(); f != nil {
		return nil, f
	}
	return &resp, nil
}

// Geocode resolves address to the first candidate's coordinates.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	resp, err := c.LookupAddress(ctx, address)
	if err != nil {
		return Coordinates{}, err
	}
	return FirstCoordinates(resp)
}

// FirstCoordinates picks the first result of a validated response.
func FirstCoordinates(resp *GeocodeResponse) (Coordinates, error) {
	if resp == nil || len(resp.Results) == 0 {
		return Coordinates{}, newFailure(UpstreamError, "no results for address", nil)
	}
	loc := resp.Results[0].Geometry.Location
	return Coordinates{Lat: *loc.Lat, Lng: *loc.Lng}, nil
}
