package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) GetAnnotated(ctx context.Context, viewer *uuid.UUID, id uuid.UUID) (*service.AnnotatedRecipe, error) {
	args := m.Called(ctx, viewer, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnnotatedRecipe), args.Error(1)
}

// List mocks the List method; a nil first return becomes an empty page.
func (m *MockRecipeService) List(ctx context.Context, viewer *uuid.UUID, f service.RecipeFilter) ([]service.AnnotatedRecipe, int64, error) {
	args := m.Called(ctx, viewer, f)
	recipes, _ := args.Get(0).([]service.AnnotatedRecipe)
	return recipes, args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeService) Create(ctx context.Context, authorID uuid.UUID, input service.RecipeInput) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, input service.RecipeInput) (*models.Recipe, error) {
	args := m.Called(ctx, actorID, recipeID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	args := m.Called(ctx, actorID, recipeID)
	return args.Error(0)
}

// MockListService mocks favorites and shopping cart mutations
type MockListService struct {
	mock.Mock
}

func (m *MockListService) Add(ctx context.Context, kind service.ListKind, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, kind, userID, recipeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockListService) Remove(ctx context.Context, kind service.ListKind, userID, recipeID uuid.UUID) error {
	args := m.Called(ctx, kind, userID, recipeID)
	return args.Error(0)
}

// MockShoppingListService mocks report generation
type MockShoppingListService struct {
	mock.Mock
}

func (m *MockShoppingListService) GenerateReport(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID)
	report, _ := args.Get(0).([]byte)
	return report, args.Error(1)
}

// MockShortLinkService mocks short link creation and resolution
type MockShortLinkService struct {
	mock.Mock
}

func (m *MockShortLinkService) GetOrCreate(ctx context.Context, recipeID uuid.UUID) (string, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Error(1)
}

func (m *MockShortLinkService) Resolve(ctx context.Context, code string) (uuid.UUID, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockShortLinkService) Lookup(ctx context.Context, recipeID uuid.UUID) (string, bool, error) {
	args := m.Called(ctx, recipeID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockShortLinkService) Forget(ctx context.Context, code string) {
	m.Called(ctx, code)
}

func (m *MockShortLinkService) URL(code string) string {
	args := m.Called(code)
	return args.String(0)
}

var (
	_ service.IAuthService         = (*MockAuthService)(nil)
	_ service.IRecipeService       = (*MockRecipeService)(nil)
	_ service.IListService         = (*MockListService)(nil)
	_ service.IShoppingListService = (*MockShoppingListService)(nil)
	_ service.IShortLinkService    = (*MockShortLinkService)(nil)
)
