package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	SetPassword(ctx context.Context, userID uuid.UUID, req types.SetPasswordRequest) error
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
}

// IUserService defines avatar management
type IUserService interface {
	SetAvatar(ctx context.Context, userID uuid.UUID, dataURI string) (string, error)
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetAnnotated(ctx context.Context, viewer *uuid.UUID, id uuid.UUID) (*AnnotatedRecipe, error)
	List(ctx context.Context, viewer *uuid.UUID, f RecipeFilter) ([]AnnotatedRecipe, int64, error)
	Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*models.Recipe, error)
	Update(ctx context.Context, actorID, recipeID uuid.UUID, input RecipeInput) (*models.Recipe, error)
	Delete(ctx context.Context, actorID, recipeID uuid.UUID) error
}

// IListService defines favorites and shopping cart mutations
type IListService interface {
	Add(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) (*models.Recipe, error)
	Remove(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) error
}

type IShoppingListService interface {
	GenerateReport(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type IShortLinkService interface {
	GetOrCreate(ctx context.Context, recipeID uuid.UUID) (string, error)
	Resolve(ctx context.Context, code string) (uuid.UUID, error)
	Lookup(ctx context.Context, recipeID uuid.UUID) (string, bool, error)
	Forget(ctx context.Context, code string)
	URL(code string) string
}

type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	ListSubscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, limit, offset int) ([]Subscription, int64, error)
	FollowedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
	IsSubscribed(ctx context.Context, viewer *uuid.UUID, authorID uuid.UUID) (bool, error)
}

type IIngredientService interface {
	List(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	Get(ctx context.Context, id uint) (*models.Ingredient, error)
	LoadCSV(ctx context.Context, r io.Reader) (int, error)
}

type ITagService interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id uint) (*models.Tag, error)
	Ensure(ctx context.Context, tags []models.Tag) (int64, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IListService         = (*ListService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
	_ IShortLinkService    = (*ShortLinkService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IIngredientService   = (*IngredientService)(nil)
	_ ITagService          = (*TagService)(nil)
	_ ListStore            = (*GormListStore)(nil)
	_ FollowStore          = (*SubscriptionService)(nil)
	_ ImageStore           = (*S3ImageStore)(nil)
)
