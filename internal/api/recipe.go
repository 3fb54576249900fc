package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes             service.IRecipeService
	lists               service.IListService
	shoppingList        service.IShoppingListService
	shortLinks          service.IShortLinkService
	auth                middleware.TokenValidator
	creationLimiter     *middleware.RateLimiter
	modificationLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes service.IRecipeService,
	lists service.IListService,
	shoppingList service.IShoppingListService,
	shortLinks service.IShortLinkService,
	auth middleware.TokenValidator,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		lists:        lists,
		shoppingList: shoppingList,
		shortLinks:   shortLinks,
		auth:         auth,
	}
}

// WithRateLimits attaches limiters for recipe creation and per-recipe edits.
// Either may be nil.
func (h *RecipeHandler) WithRateLimits(creation, modification *middleware.RateLimiter) *RecipeHandler {
	h.creationLimiter = creation
	h.modificationLimiter = modification
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	authOptional := middleware.OptionalAuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", authOptional, h.ListRecipes)
		recipes.GET("/download_shopping_cart", authRequired, h.DownloadShoppingCart)
		recipes.GET("/:id", authOptional, h.GetRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("", authRequired, h.creationLimiter.RateLimitMiddleware(), h.CreateRecipe)
		recipes.PATCH("/:id", authRequired, h.modificationLimiter.PerRecipeRateLimitMiddleware(), h.UpdateRecipe)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)
		recipes.POST("/:id/favorite", authRequired, h.addToList(service.Favorites))
		recipes.DELETE("/:id/favorite", authRequired, h.removeFromList(service.Favorites))
		recipes.POST("/:id/shopping_cart", authRequired, h.addToList(service.ShoppingCart))
		recipes.DELETE("/:id/shopping_cart", authRequired, h.removeFromList(service.ShoppingCart))
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	p := parsePagination(c)
	filter, ok := parseRecipeFilter(c)
	if !ok {
		return
	}
	filter.Limit = p.Limit
	filter.Offset = p.Offset()

	recipes, total, err := h.recipes.List(c.Request.Context(), middleware.Viewer(c), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, newPage(c, p, total, toRecipes(recipes)))
}

// parseRecipeFilter reads author, tags, is_favorited and is_in_shopping_cart.
func parseRecipeFilter(c *gin.Context) (service.RecipeFilter, bool) {
	var f service.RecipeFilter

	if author := c.Query("author"); author != "" {
		id, err := uuid.Parse(author)
		if err != nil {
			verr := &service.ValidationError{}
			verr.Add("author", "Select a valid choice.")
			_ = c.Error(verr)
			return f, false
		}
		f.AuthorID = &id
	}

	for _, tag := range c.QueryArray("tags") {
		if tag = strings.TrimSpace(tag); tag != "" {
			f.Tags = append(f.Tags, tag)
		}
	}

	f.IsFavorited = queryBool(c, "is_favorited")
	f.IsInShoppingCart = queryBool(c, "is_in_shopping_cart")
	return f, true
}

// queryBool accepts 1/0 and true/false; anything else means unset.
func queryBool(c *gin.Context, key string) *bool {
	var v bool
	switch strings.ToLower(c.Query(key)) {
	case "1", "true":
		v = true
	case "0", "false":
		v = false
	default:
		return nil
	}
	return &v
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := uuidParam(c, "id", service.ErrRecipeNotFound)
	if !ok {
		return
	}

	recipe, err := h.recipes.GetAnnotated(c.Request.Context(), middleware.Viewer(c), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, toRecipe(*recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input service.RecipeInput
	if !bindJSON(c, &input) {
		return
	}

	created, err := h.recipes.Create(c.Request.Context(), userID, input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.respondWithRecipe(c, http.StatusCreated, userID, created.ID)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", service.ErrRecipeNotFound)
	if !ok {
		return
	}

	var input service.RecipeInput
	if !bindJSON(c, &input) {
		return
	}

	if _, err := h.recipes.Update(c.Request.Context(), userID, id, input); err != nil {
		_ = c.Error(err)
		return
	}

	h.respondWithRecipe(c, http.StatusOK, userID, id)
}

// respondWithRecipe renders a freshly written recipe as its author sees it.
func (h *RecipeHandler) respondWithRecipe(c *gin.Context, status int, viewer, id uuid.UUID) {
	recipe, err := h.recipes.GetAnnotated(c.Request.Context(), &viewer, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(status, toRecipe(*recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", service.ErrRecipeNotFound)
	if !ok {
		return
	}

	// read the code first; the link row goes with the recipe
	code, hasLink, err := h.shortLinks.Lookup(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), userID, id); err != nil {
		_ = c.Error(err)
		return
	}
	if hasLink {
		h.shortLinks.Forget(c.Request.Context(), code)
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) addToList(kind service.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id", service.ErrRecipeNotFound)
		if !ok {
			return
		}

		recipe, err := h.lists.Add(c.Request.Context(), kind, userID, id)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, toShortRecipe(*recipe))
	}
}

func (h *RecipeHandler) removeFromList(kind service.ListKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		id, ok := uuidParam(c, "id", service.ErrRecipeNotFound)
		if !ok {
			return
		}

		if err := h.lists.Remove(c.Request.Context(), kind, userID, id); err != nil {
			_ = c.Error(err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	report, err := h.shoppingList.GenerateReport(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", report)
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, ok := uuidParam(c, "id", service.ErrRecipeNotFound)
	if !ok {
		return
	}

	code, err := h.shortLinks.GetOrCreate(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.ShortLinkResponse{ShortLink: h.shortLinks.URL(code)})
}
