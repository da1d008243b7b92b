package handlers

import (
	"net/http"

	"campus-sublets/internal/browse"
	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/filters"

	"github.com/gin-gonic/gin"
)

type BrowseHandler struct {
	registry *browse.Registry
}

func NewBrowseHandler(registry *browse.Registry) *BrowseHandler {
	return &BrowseHandler{registry: registry}
}

func (h *BrowseHandler) session(c *gin.Context) (*browse.Session, bool) {
	s, err := h.registry.Get(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return s, true
}

// CreateSession godoc
// @Summary Open a browse session
// @Description Creates a session with default filters and loads its first listing set
// @Tags Browse
// @Produce json
// @Success 201 {object} browse.View
// @Failure 500 {object} map[string]interface{}
// @Router /browse [post]
func (h *BrowseHandler) CreateSession(c *gin.Context) {
	s, err := h.registry.Create(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, s.View())
}

// GetSession godoc
// @Summary Get a browse session
// @Tags Browse
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} browse.View
// @Failure 404 {object} map[string]interface{}
// @Router /browse/{id} [get]
func (h *BrowseHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// UpdateFilters godoc
// @Summary Update session filters
// @Description Partial filter update. Rejected enum values are listed under "ignored".
// @Tags Browse
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param patch body filters.Patch true "Filter changes"
// @Success 200 {object} browse.View
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /browse/{id} [patch]
func (h *BrowseHandler) UpdateFilters(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var patch filters.Patch
	if !bindJSON(c, &patch) {
		return
	}
	c.JSON(http.StatusOK, s.Update(patch))
}

// RefreshSession godoc
// @Summary Refetch session listings
// @Tags Browse
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} browse.View
// @Failure 404 {object} map[string]interface{}
// @Router /browse/{id}/refresh [post]
func (h *BrowseHandler) RefreshSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Refresh(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// Suggestions godoc
// @Summary Address suggestions
// @Description Debounced autocomplete; superseded keystrokes report dispatched=false
// @Tags Browse
// @Produce json
// @Param id path string true "Session ID"
// @Param input query string true "Partial address"
// @Success 200 {object} browse.Suggestions
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /browse/{id}/suggestions [get]
func (h *BrowseHandler) Suggestions(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	suggestions, err := s.Suggest(c.Request.Context(), c.Query("input"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// ActivateMarker godoc
// @Summary Click a map marker
// @Tags Browse
// @Produce json
// @Param id path string true "Session ID"
// @Param listingId path string true "Listing ID"
// @Success 200 {object} browse.View
// @Failure 404 {object} map[string]interface{}
// @Router /browse/{id}/markers/{listingId}/activate [post]
func (h *BrowseHandler) ActivateMarker(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if !s.Activate(c.Param("listingId")) {
		_ = c.Error(apperrors.NewAppError("no marker for listing "+c.Param("listingId"), apperrors.MsgNotFound, apperrors.ErrCodeNotFound, http.StatusNotFound, nil))
		return
	}
	c.JSON(http.StatusOK, s.View())
}

// DeleteSession godoc
// @Summary Close a browse session
// @Tags Browse
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /browse/{id} [delete]
func (h *BrowseHandler) DeleteSession(c *gin.Context) {
	if err := h.registry.Delete(c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
