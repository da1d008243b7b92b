package handlers

import (
	"math"
	"net/http"
	"strconv"

	apperrors "campus-sublets/internal/errors"
	"campus-sublets/internal/filters"

	"github.com/gin-gonic/gin"
)

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		_ = c.Error(apperrors.NewAppError("invalid request body: "+err.Error(), apperrors.MsgInvalidInput, apperrors.ErrCodeInvalidInput, http.StatusBadRequest, err))
		return false
	}
	return true
}

// patchFromQuery reads filter parameters. Unparsable prices are dropped so
// the previous value stays in effect.
func patchFromQuery(c *gin.Context) filters.Patch {
	var p filters.Patch
	if v, ok := queryFloat(c, "price_min"); ok {
		p.PriceMin = &v
	}
	if v, ok := queryFloat(c, "price_max"); ok {
		p.PriceMax = &v
	}
	if v, ok := c.GetQuery("property_type"); ok {
		p.PropertyType = &v
	}
	if v, ok := c.GetQuery("sort"); ok {
		p.Sort = &v
	}
	if v, ok := c.GetQuery("view"); ok {
		p.View = &v
	}
	return p
}

func queryFloat(c *gin.Context, key string) (float64, bool) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
