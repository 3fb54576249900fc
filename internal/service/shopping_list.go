package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const shoppingListHeader = "Items to buy:\n"

// ShoppingListItem is the total amount of one (name, unit) pair.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Amount          int64
}

type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums the ingredient amounts of every recipe in the user's cart,
// grouped by ingredient name and unit and sorted by name then unit.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	db := s.db.WithContext(ctx)

	var inCart int64
	if err := db.Model(&models.ShoppingCartEntry{}).Where("user_id = ?", userID).Count(&inCart).Error; err != nil {
		return nil, fmt.Errorf("counting cart: %w", err)
	}
	if inCart == 0 {
		return nil, ErrEmptyCart
	}

	cart := db.Model(&models.ShoppingCartEntry{}).Select("recipe_id").Where("user_id = ?", userID)

	var items []ShoppingListItem
	err := db.Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("recipe_ingredients.recipe_id IN (?)", cart).
		Group("ingredients.name, ingredients.measurement_unit").
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("aggregating shopping list: %w", err)
	}

	// collations differ between stores; sort bytewise here
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items, nil
}

// RenderReport formats items as the downloadable plain-text list.
func RenderReport(items []ShoppingListItem) []byte {
	var buf bytes.Buffer
	buf.WriteString(shoppingListHeader)
	for _, item := range items {
		fmt.Fprintf(&buf, "%s - %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return buf.Bytes()
}

// GenerateReport aggregates the user's cart and renders it.
func (s *ShoppingListService) GenerateReport(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	items, err := s.Aggregate(ctx, userID)
	if err != nil {
		return nil, err
	}
	metrics.RecordShoppingList(len(items))

	logger := logging.Ctx(ctx, log.Logger)
	logger.Debug().Str("user_id", userID.String()).Int("lines", len(items)).Msg("shopping list generated")
	return RenderReport(items), nil
}
