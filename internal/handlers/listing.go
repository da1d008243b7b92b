package handlers

import (
	"net/http"

	"campus-sublets/internal/middleware"
	"campus-sublets/internal/models"
	"campus-sublets/internal/services"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingService ListingService
}

func NewListingHandler(listingService ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// ListListings godoc
// @Summary List listings
// @Description One page of listings filtered by price and property type and sorted by the chosen option
// @Tags Listings
// @Produce json
// @Param price_min query number false "Minimum monthly price"
// @Param price_max query number false "Maximum monthly price"
// @Param property_type query string false "Property type or Any"
// @Param sort query string false "recommended, price_low, price_high, rating or date_newest"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination" default(20)
// @Success 200 {object} models.PaginatedListingsResponse
// @Failure 500 {object} map[string]interface{}
// @Router /listings [get]
func (h *ListingHandler) ListListings(c *gin.Context) {
	st := h.listingService.DefaultState()
	st.ApplyPatch(patchFromQuery(c))

	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", services.DefaultPageLimit)

	response, err := h.listingService.List(c.Request.Context(), st, offset, limit, c.Request.URL.Path, c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// MapListings godoc
// @Summary Map listings
// @Description Markers and fitted viewport for the filtered listing set
// @Tags Listings
// @Produce json
// @Param price_min query number false "Minimum monthly price"
// @Param price_max query number false "Maximum monthly price"
// @Param property_type query string false "Property type or Any"
// @Success 200 {object} services.MapView
// @Failure 500 {object} map[string]interface{}
// @Router /listings/map [get]
func (h *ListingHandler) MapListings(c *gin.Context) {
	st := h.listingService.DefaultState()
	st.ApplyPatch(patchFromQuery(c))
	st.SetViewMode("map")

	view, err := h.listingService.Map(c.Request.Context(), st)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MyListings godoc
// @Summary List my listings
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]models.PresentationListing
// @Failure 401 {object} map[string]interface{}
// @Router /listings/mine [get]
func (h *ListingHandler) MyListings(c *gin.Context) {
	listings, err := h.listingService.ListMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": listings})
}

// GetListing godoc
// @Summary Get listing by ID
// @Tags Listings
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} models.PresentationListing
// @Failure 404 {object} map[string]interface{}
// @Router /listings/{id} [get]
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, err := h.listingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// CreateListing godoc
// @Summary Create a listing
// @Description The caller becomes the owner. The location is geocoded when coordinates are absent.
// @Tags Listings
// @Accept json
// @Produce json
// @Param listing body models.ListingInput true "Listing data"
// @Security BearerAuth
// @Success 201 {object} models.PresentationListing
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /listings [post]
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var input models.ListingInput
	if !bindJSON(c, &input) {
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), middleware.CurrentUserID(c), &input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// UpdateListing godoc
// @Summary Update a listing
// @Description Only the owner may update; omitted fields are left untouched
// @Tags Listings
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param listing body models.ListingInput true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} models.PresentationListing
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /listings/{id} [put]
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	var input models.ListingInput
	if !bindJSON(c, &input) {
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), &input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary Delete a listing
// @Tags Listings
// @Param id path string true "Listing ID"
// @Security BearerAuth
// @Success 204
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /listings/{id} [delete]
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	if err := h.listingService.Delete(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
