package handlers

import (
	"net/http"

	"campus-sublets/internal/middleware"
	"campus-sublets/internal/models"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService ProfileService
}

func NewProfileHandler(profileService ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile godoc
// @Summary Get profile by ID
// @Tags Profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} map[string]interface{}
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetMyProfile godoc
// @Summary Get my profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileService.Get(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update a profile
// @Description Updates the profile in the path, or the caller's own profile on the /me route
// @Tags Profiles
// @Accept json
// @Produce json
// @Param id path string true "Profile ID"
// @Param profile body models.UpdateProfileRequest true "Fields to change"
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /profiles/{id} [put]
// @Router /profiles/me [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	userID := middleware.CurrentUserID(c)
	id := c.Param("id")
	if id == "" {
		id = userID
	}
	profile, err := h.profileService.Update(c.Request.Context(), userID, id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
