package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ReferenceHandler serves the read-only ingredient and tag catalogues.
type ReferenceHandler struct {
	ingredients service.IIngredientService
	tags        service.ITagService
}

func NewReferenceHandler(ingredients service.IIngredientService, tags service.ITagService) *ReferenceHandler {
	return &ReferenceHandler{ingredients: ingredients, tags: tags}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ingredients", h.ListIngredients)
	router.GET("/ingredients/:id", h.GetIngredient)
	router.GET("/tags", h.ListTags)
	router.GET("/tags/:id", h.GetTag)
}

func (h *ReferenceHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toIngredients(ingredients))
}

func (h *ReferenceHandler) GetIngredient(c *gin.Context) {
	id, ok := uintParam(c, service.ErrIngredientNotFound)
	if !ok {
		return
	}
	ingredient, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toIngredient(*ingredient))
}

func (h *ReferenceHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toTags(tags))
}

func (h *ReferenceHandler) GetTag(c *gin.Context) {
	id, ok := uintParam(c, service.ErrTagNotFound)
	if !ok {
		return
	}
	tag, err := h.tags.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toTag(*tag))
}

func uintParam(c *gin.Context, notFound error) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		_ = c.Error(notFound)
		return 0, false
	}
	return uint(n), true
}
