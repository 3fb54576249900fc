package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	authService   service.IAuthService
	users         service.IUserService
	subscriptions service.ISubscriptionService
	recipes       service.IRecipeService
}

func NewUserHandler(
	authService service.IAuthService,
	users service.IUserService,
	subscriptions service.ISubscriptionService,
	recipes service.IRecipeService,
) *UserHandler {
	return &UserHandler{
		authService:   authService,
		users:         users,
		subscriptions: subscriptions,
		recipes:       recipes,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.authService)
	authOptional := middleware.OptionalAuthMiddleware(h.authService)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", authOptional, h.ListUsers)
		users.GET("/me", authRequired, h.Me)
		users.GET("/subscriptions", authRequired, h.ListSubscriptions)
		users.POST("/set_password", authRequired, h.SetPassword)
		users.PUT("/me/avatar", authRequired, h.SetAvatar)
		users.DELETE("/me/avatar", authRequired, h.DeleteAvatar)
		users.GET("/:id", authOptional, h.GetUser)
		users.POST("/:id/subscribe", authRequired, h.Subscribe)
		users.DELETE("/:id/subscribe", authRequired, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, toUser(*user, false))
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	p := parsePagination(c)
	users, total, err := h.authService.ListUsers(c.Request.Context(), p.Limit, p.Offset())
	if err != nil {
		_ = c.Error(err)
		return
	}

	followed := map[uuid.UUID]struct{}{}
	if viewer := middleware.Viewer(c); viewer != nil {
		ids := make([]uuid.UUID, len(users))
		for i, u := range users {
			ids[i] = u.ID
		}
		if followed, err = h.subscriptions.FollowedAuthorIDs(c.Request.Context(), *viewer, ids); err != nil {
			_ = c.Error(err)
			return
		}
	}

	results := make([]types.User, len(users))
	for i, u := range users {
		_, subscribed := followed[u.ID]
		results[i] = toUser(u, subscribed)
	}
	c.JSON(http.StatusOK, newPage(c, p, total, results))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}
	h.respondWithUser(c, middleware.Viewer(c), id)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.respondWithUser(c, &userID, userID)
}

func (h *UserHandler) respondWithUser(c *gin.Context, viewer *uuid.UUID, id uuid.UUID) {
	user, err := h.authService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	subscribed, err := h.subscriptions.IsSubscribed(c.Request.Context(), viewer, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toUser(*user, subscribed))
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authService.SetPassword(c.Request.Context(), userID, req); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) SetAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.AvatarRequest
	if !bindJSON(c, &req) {
		return
	}

	url, err := h.users.SetAvatar(c.Request.Context(), userID, req.Avatar)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, types.AvatarResponse{Avatar: url})
}

func (h *UserHandler) DeleteAvatar(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.users.DeleteAvatar(c.Request.Context(), userID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	p := parsePagination(c)
	subs, total, err := h.subscriptions.ListSubscriptions(c.Request.Context(), userID, recipesLimit(c), p.Limit, p.Offset())
	if err != nil {
		_ = c.Error(err)
		return
	}

	results := make([]types.Subscription, len(subs))
	for i := range subs {
		results[i] = toSubscription(subs[i])
	}
	c.JSON(http.StatusOK, newPage(c, p, total, results))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	authorID, ok := uuidParam(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	author, err := h.subscriptions.Subscribe(c.Request.Context(), userID, authorID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	limit := recipesLimit(c)
	filter := service.RecipeFilter{AuthorID: &authorID}
	switch {
	case limit > 0:
		filter.Limit = limit
	case limit == 0:
		// only the count is wanted
		filter.Limit = 1
	}
	recipes, total, err := h.recipes.List(c.Request.Context(), &userID, filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	sub := service.Subscription{Author: *author, RecipesCount: total}
	if limit != 0 {
		for _, r := range recipes {
			sub.Recipes = append(sub.Recipes, r.Recipe)
		}
	}

	c.JSON(http.StatusCreated, toSubscription(sub))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	authorID, ok := uuidParam(c, "id", service.ErrUserNotFound)
	if !ok {
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// recipesLimit reads ?recipes_limit=; absent or invalid means every recipe.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}
