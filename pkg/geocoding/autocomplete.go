package geocoding

import (
	"context"
	"net/url"
	"strings"
)

type StructuredFormatting struct {
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

type AutocompletePrediction struct {
	Description          string               `json:"description"`
	PlaceID              string               `json:"place_id"`
	StructuredFormatting StructuredFormatting `json:"structured_formatting"`
}

type AutocompleteResponse struct {
	Predictions  []AutocompletePrediction `json:"predictions"`
	Status       string                   `json:"status"`
	ErrorMessage string                   `json:"error_message,omitempty"`
}

// Prediction is the flattened suggestion handed to callers.
type Prediction struct {
	Description   string `json:"description"`
	PlaceID       string `json:"place_id"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

func (r *AutocompleteResponse) validate() *Failure {
	if r.Status == "" {
		return newFailure(UpstreamError, "autocomplete response missing status", nil)
	}
	if r.Status != StatusOK && r.Status != StatusZeroResults {
		return statusFailure(r.Status, r.ErrorMessage)
	}
	for _, p := range r.Predictions {
		if p.Description == "" || p.PlaceID == "" {
			return newFailure(UpstreamError, "autocomplete prediction missing description or place_id", nil)
		}
	}
	if r.Predictions == nil {
		r.Predictions = []AutocompletePrediction{}
	}
	return nil
}

// LookupPredictions returns the validated upstream response.
func (c *Client) LookupPredictions(ctx context.Context, input string) (*AutocompleteResponse, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, newFailure(InvalidInput, "Input query is required", nil)
	}

	var resp AutocompleteResponse
	if err := c.getJSON(ctx, "autocomplete", c.autocompleteURL, url.Values{"input": {input}}, &resp); err != nil {
		return nil, err
	}
	if f := resp.validate(); f != nil {
		return nil, f
	}
	return &resp, nil
}

// Autocomplete returns ranked predictions for partial input; ZERO_RESULTS is an empty list.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]Prediction, error) {
	resp, err := c.LookupPredictions(ctx, input)
	if err != nil {
		return nil, err
	}
	return Flatten(resp), nil
}

func Flatten(resp *AutocompleteResponse) []Prediction {
	out := make([]Prediction, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Prediction{
			Description:   p.Description,
			PlaceID:       p.PlaceID,
			MainText:      p.StructuredFormatting.MainText,
			SecondaryText: p.StructuredFormatting.SecondaryText,
		})
	}
	return out
}
