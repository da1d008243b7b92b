package handlers

import (
	"net/http"

	apperrors "campus-sublets/internal/errors"

	"github.com/gin-gonic/gin"
)

// GeocodingHandler serves the address lookup endpoints. Errors use the flat
// {"error": message} shape clients of these endpoints expect.
type GeocodingHandler struct {
	geocodingService GeocodingService
}

func NewGeocodingHandler(geocodingService GeocodingService) *GeocodingHandler {
	return &GeocodingHandler{geocodingService: geocodingService}
}

type geocodeRequest struct {
	Address string `json:"address"`
}

type autocompleteRequest struct {
	Input string `json:"input"`
}

// Geocode godoc
// @Summary Geocode an address
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param request body geocodeRequest true "Address to resolve"
// @Success 200 {object} geocoding.GeocodeResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /geocoding [post]
func (h *GeocodingHandler) Geocode(c *gin.Context) {
	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.geocodingService.Lookup(c.Request.Context(), req.Address)
	if err != nil {
		renderGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Autocomplete godoc
// @Summary Place autocomplete predictions
// @Tags Geocoding
// @Accept json
// @Produce json
// @Param request body autocompleteRequest true "Partial address"
// @Success 200 {object} geocoding.AutocompleteResponse
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /places-autocomplete [post]
func (h *GeocodingHandler) Autocomplete(c *gin.Context) {
	var req autocompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.geocodingService.Autocomplete(c.Request.Context(), req.Input)
	if err != nil {
		renderGatewayError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func renderGatewayError(c *gin.Context, err error) {
	appErr := apperrors.MapError(err)
	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.UserMessage})
}
