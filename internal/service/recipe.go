package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// IngredientAmount is one ingredient line of a recipe write. Amounts and
// cooking times are capped at 32767 so cart totals cannot overflow.
type IngredientAmount struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"min=1,max=32767"`
}

// RecipeInput is the body of a recipe create or update. Image is a base64
// data URI; it may be omitted on update to keep the current image.
type RecipeInput struct {
	Name        string             `json:"name" validate:"required,max=256"`
	Text        string             `json:"text" validate:"required"`
	CookingTime int                `json:"cooking_time" validate:"min=1,max=32767"`
	Image       string             `json:"image" validate:"omitempty,datauri"`
	Tags        []uint             `json:"tags" validate:"required,min=1,unique,dive,required"`
	Ingredients []IngredientAmount `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
}

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	images    ImageStore
	annotator *Annotator
}

func NewRecipeService(db *gorm.DB, images ImageStore, annotator *Annotator) *RecipeService {
	return &RecipeService{db: db, images: images, annotator: annotator}
}

// Get loads a recipe with author, tags and ordered ingredients.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := withRecipeAssociations(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// GetAnnotated is Get plus the viewer's flags.
func (s *RecipeService) GetAnnotated(ctx context.Context, viewer *uuid.UUID, id uuid.UUID) (*AnnotatedRecipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	annotated, err := s.annotator.AnnotateOne(ctx, viewer, *recipe)
	if err != nil {
		return nil, err
	}
	return &annotated, nil
}

// List returns one page of recipes matching f, newest first, and the total
// number of matches.
func (s *RecipeService) List(ctx context.Context, viewer *uuid.UUID, f RecipeFilter) ([]AnnotatedRecipe, int64, error) {
	if err := s.checkTagSlugs(ctx, f.Tags); err != nil {
		return nil, 0, err
	}
	q, ok := applyRecipeFilter(s.db.WithContext(ctx).Model(&models.Recipe{}), viewer, f)
	if !ok {
		return []AnnotatedRecipe{}, 0, nil
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting recipes: %w", err)
	}

	q = withRecipeAssociations(q).Order("recipes.created_at DESC").Order("recipes.id")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, 0, fmt.Errorf("listing recipes: %w", err)
	}

	annotated, err := s.annotator.Annotate(ctx, viewer, recipes)
	if err != nil {
		return nil, 0, err
	}
	return annotated, total, nil
}

// Create validates input, stores the image and writes the recipe with its
// tags and ingredient amounts in one transaction.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	verr := validateStruct(input)
	if input.Image == "" {
		verr.Add("image", "This field is required.")
	}
	if err := s.checkReferences(ctx, input, verr); err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	image, err := s.images.Save(ctx, "recipes/images", input.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        input.Name,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Image:       image,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		return writeRecipeChildren(tx, recipe.ID, input)
	})
	if err != nil {
		return nil, fmt.Errorf("creating recipe: %w", err)
	}

	logger := logging.Ctx(ctx, log.Logger)
	logger.Info().Str("recipe_id", recipe.ID.String()).Str("author_id", authorID.String()).Msg("recipe created")
	return s.Get(ctx, recipe.ID)
}

// Update replaces a recipe's fields, tag set and ingredient set. Only the
// author may update.
func (s *RecipeService) Update(ctx context.Context, actorID, recipeID uuid.UUID, input RecipeInput) (*models.Recipe, error) {
	recipe, err := s.ownedRecipe(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	verr := validateStruct(input)
	if err := s.checkReferences(ctx, input, verr); err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	image := recipe.Image
	if input.Image != "" {
		if image, err = s.images.Save(ctx, "recipes/images", input.Image); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(map[string]interface{}{
			"name":         input.Name,
			"text":         input.Text,
			"cooking_time": input.CookingTime,
			"image":        image,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return writeRecipeChildren(tx, recipeID, input)
	})
	if err != nil {
		return nil, fmt.Errorf("updating recipe: %w", err)
	}

	return s.Get(ctx, recipeID)
}

// Delete removes a recipe and every row that refers to it. Only the author
// may delete.
func (s *RecipeService) Delete(ctx context.Context, actorID, recipeID uuid.UUID) error {
	if _, err := s.ownedRecipe(ctx, actorID, recipeID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []interface{}{
			&models.RecipeIngredient{},
			&models.FavoriteRecipe{},
			&models.ShoppingCartEntry{},
			&models.ShortLink{},
		}
		for _, child := range children {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(child).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", recipeID).Error
	})
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}
	return nil
}

// checkTagSlugs rejects filter slugs that name no tag.
func (s *RecipeService) checkTagSlugs(ctx context.Context, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}
	var known []string
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("slug IN ?", slugs).Pluck("slug", &known).Error; err != nil {
		return fmt.Errorf("checking tags: %w", err)
	}
	found := make(map[string]struct{}, len(known))
	for _, slug := range known {
		found[slug] = struct{}{}
	}
	verr := &ValidationError{}
	for _, slug := range slugs {
		if _, ok := found[slug]; !ok {
			verr.Add("tags", fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", slug))
			break
		}
	}
	return verr.orNil()
}

func (s *RecipeService) ownedRecipe(ctx context.Context, actorID, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != actorID {
		return nil, ErrNotAuthor
	}
	return &recipe, nil
}

// checkReferences adds a field error for every tag or ingredient id that does
// not exist. Storage errors are returned directly.
func (s *RecipeService) checkReferences(ctx context.Context, input RecipeInput, verr *ValidationError) error {
	db := s.db.WithContext(ctx)

	if len(input.Tags) > 0 {
		var found []uint
		if err := db.Model(&models.Tag{}).Where("id IN ?", input.Tags).Pluck("id", &found).Error; err != nil {
			return err
		}
		for _, id := range missingIDs(input.Tags, found) {
			verr.Add("tags", fmt.Sprintf("Tag %d does not exist.", id))
		}
	}

	if len(input.Ingredients) > 0 {
		ids := make([]uint, len(input.Ingredients))
		for i, ing := range input.Ingredients {
			ids[i] = ing.ID
		}
		var found []uint
		if err := db.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		for _, id := range missingIDs(ids, found) {
			verr.Add("ingredients", fmt.Sprintf("Ingredient %d does not exist.", id))
		}
	}
	return nil
}

func missingIDs(want, found []uint) []uint {
	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []uint
	seen := make(map[uint]struct{})
	for _, id := range want {
		if _, ok := have[id]; ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		missing = append(missing, id)
	}
	return missing
}

func writeRecipeChildren(tx *gorm.DB, recipeID uuid.UUID, input RecipeInput) error {
	for _, tagID := range input.Tags {
		if err := tx.Exec("INSERT INTO recipe_tags (recipe_id, tag_id) VALUES (?, ?)", recipeID, tagID).Error; err != nil {
			return err
		}
	}
	lines := make([]models.RecipeIngredient, len(input.Ingredients))
	for i, ing := range input.Ingredients {
		lines[i] = models.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: ing.ID,
			Amount:       ing.Amount,
			Position:     i,
		}
	}
	return tx.Omit("Ingredient").Create(&lines).Error
}

func withRecipeAssociations(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.position") }).
		Preload("Ingredients.Ingredient")
}
