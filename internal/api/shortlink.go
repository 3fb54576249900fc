package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
)

// ShortLinkHandler redirects short codes to the recipe page of the web client.
type ShortLinkHandler struct {
	shortLinks   service.IShortLinkService
	siteHostname string
}

func NewShortLinkHandler(shortLinks service.IShortLinkService, siteHostname string) *ShortLinkHandler {
	return &ShortLinkHandler{
		shortLinks:   shortLinks,
		siteHostname: strings.TrimRight(siteHostname, "/"),
	}
}

func (h *ShortLinkHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/s/:code", h.Redirect)
}

func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	recipeID, err := h.shortLinks.Resolve(c.Request.Context(), c.Param("code"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Redirect(http.StatusFound, h.siteHostname+"/recipes/"+recipeID.String())
}
