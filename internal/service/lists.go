package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// ListKind names a per-user recipe list.
type ListKind int

const (
	Favorites ListKind = iota
	ShoppingCart
)

// ListKinds is every list a viewer can have, in annotation order.
var ListKinds = []ListKind{Favorites, ShoppingCart}

func (k ListKind) String() string {
	switch k {
	case Favorites:
		return "favorites"
	case ShoppingCart:
		return "shopping cart"
	default:
		return fmt.Sprintf("list(%d)", int(k))
	}
}

func (k ListKind) table() string {
	if k == ShoppingCart {
		return models.ShoppingCartEntry{}.TableName()
	}
	return models.FavoriteRecipe{}.TableName()
}

// ListStore is the storage capability behind favorites and the shopping cart.
type ListStore interface {
	Exists(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) (bool, error)
	Create(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) error
	// Delete reports how many rows were removed.
	Delete(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) (int64, error)
	// RecipeIDsInList returns the subset of recipeIDs present in the user's list.
	RecipeIDsInList(ctx context.Context, kind ListKind, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// AddToList puts recipeID into the user's list of the given kind.
// A second add is a conflict whether detected up front or by the unique index.
func AddToList(ctx context.Context, store ListStore, kind ListKind, userID, recipeID uuid.UUID) error {
	exists, err := store.Exists(ctx, kind, userID, recipeID)
	if err != nil {
		return fmt.Errorf("checking %s: %w", kind, err)
	}
	if exists {
		return ErrAlreadyInList(kind)
	}
	if err := store.Create(ctx, kind, userID, recipeID); err != nil {
		if database.IsUniqueViolation(err) {
			return ErrAlreadyInList(kind)
		}
		return fmt.Errorf("adding to %s: %w", kind, err)
	}
	return nil
}

// RemoveFromList deletes recipeID from the user's list of the given kind.
func RemoveFromList(ctx context.Context, store ListStore, kind ListKind, userID, recipeID uuid.UUID) error {
	n, err := store.Delete(ctx, kind, userID, recipeID)
	if err != nil {
		return fmt.Errorf("removing from %s: %w", kind, err)
	}
	if n == 0 {
		return ErrNotInList(kind)
	}
	return nil
}

// GormListStore keeps lists in the favorite_recipes and shopping_cart_entries tables.
type GormListStore struct {
	db *gorm.DB
}

func NewGormListStore(db *gorm.DB) *GormListStore {
	return &GormListStore{db: db}
}

func (s *GormListStore) Exists(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Table(kind.table()).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormListStore) Create(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) error {
	db := s.db.WithContext(ctx)
	switch kind {
	case Favorites:
		return db.Create(&models.FavoriteRecipe{UserID: userID, RecipeID: recipeID}).Error
	case ShoppingCart:
		return db.Create(&models.ShoppingCartEntry{UserID: userID, RecipeID: recipeID}).Error
	}
	return fmt.Errorf("unknown list kind %d", int(kind))
}

func (s *GormListStore) Delete(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) (int64, error) {
	db := s.db.WithContext(ctx)
	var res *gorm.DB
	switch kind {
	case Favorites:
		res = db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.FavoriteRecipe{})
	case ShoppingCart:
		res = db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.ShoppingCartEntry{})
	default:
		return 0, fmt.Errorf("unknown list kind %d", int(kind))
	}
	return res.RowsAffected, res.Error
}

func (s *GormListStore) RecipeIDsInList(ctx context.Context, kind ListKind, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{})
	if len(recipeIDs) == 0 {
		return found, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Table(kind.table()).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = struct{}{}
	}
	return found, nil
}

// ListService exposes favorites and the shopping cart to the HTTP layer.
type ListService struct {
	db    *gorm.DB
	store ListStore
}

func NewListService(db *gorm.DB, store ListStore) *ListService {
	return &ListService{db: db, store: store}
}

// Add checks the recipe exists, adds it and returns it for the response body.
func (s *ListService) Add(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.recipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if err := AddToList(ctx, s.store, kind, userID, recipeID); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *ListService) Remove(ctx context.Context, kind ListKind, userID, recipeID uuid.UUID) error {
	if _, err := s.recipe(ctx, recipeID); err != nil {
		return err
	}
	return RemoveFromList(ctx, s.store, kind, userID, recipeID)
}

func (s *ListService) recipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
