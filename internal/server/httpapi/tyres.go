package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/auth"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/models"
	"github.com/dmitrijs2005/tyrekeeper/internal/server/services"
	"github.com/dmitrijs2005/tyrekeeper/internal/validation"
	"github.com/gin-gonic/gin"
)

type tyreResponse struct {
	ID    int64  `json:"id"`
	Brand string `json:"brand"`
	Model string `json:"model"`
	Size  string `json:"size"`
}

type tyreListItem struct {
	tyreResponse
	UserID int64 `json:"user_id"`
}

func toTyreResponse(t *models.Tyre) tyreResponse {
	return tyreResponse{ID: t.ID, Brand: t.Brand, Model: t.Model, Size: t.Size}
}

// identity returns the caller attached by authenticate.
func identity(c *gin.Context) (auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		fail(c, common.ErrInvalidToken, "")
	}
	return id, ok
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, validation.Invalid("id", "must be a positive integer"), "")
		return 0, false
	}
	return id, true
}

func (h *handlers) createTyre(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	var in services.TyreInput
	if !bindJSON(c, &in) {
		return
	}

	tyre, err := h.tyres.Create(c.Request.Context(), who, in)
	if err != nil {
		fail(c, err, "Failed to create tyre")
		return
	}

	c.JSON(http.StatusCreated, toTyreResponse(tyre))
}

func (h *handlers) listTyres(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}

	list, err := h.tyres.List(c.Request.Context(), who)
	if err != nil {
		fail(c, err, "Failed to fetch tyres")
		return
	}

	out := make([]tyreListItem, 0, len(list))
	for i := range list {
		out = append(out, tyreListItem{tyreResponse: toTyreResponse(&list[i]), UserID: list[i].UserID})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handlers) updateTyre(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	tyreID, ok := pathID(c)
	if !ok {
		return
	}
	var in services.TyreInput
	if !bindJSON(c, &in) {
		return
	}

	tyre, err := h.tyres.Update(c.Request.Context(), who, tyreID, in)
	if err != nil {
		fail(c, err, "Failed to update tyre")
		return
	}

	c.JSON(http.StatusOK, toTyreResponse(tyre))
}

func (h *handlers) deleteTyre(c *gin.Context) {
	who, ok := identity(c)
	if !ok {
		return
	}
	tyreID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.tyres.Delete(c.Request.Context(), who, tyreID); err != nil {
		fail(c, err, "Failed to delete tyre")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tyre deleted successfully"})
}
