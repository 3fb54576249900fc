package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Password is the plain-text password of every user created by CreateUser.
const Password = "S3cure-pass"

// CreateUser inserts a user with a unique username and email.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: string(hash),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) models.Ingredient {
	t.Helper()
	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(&ing).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ing
}

func CreateTag(t *testing.T, db *gorm.DB, name, slug string) models.Tag {
	t.Helper()
	tag := models.Tag{Name: name, Slug: slug}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// Amount pairs an ingredient with a quantity for CreateRecipe.
type Amount struct {
	Ingredient models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe directly, bypassing service validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author models.User, name string, tags []models.Tag, amounts ...Amount) models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Image:       "https://cdn.example.com/recipes/" + uuid.NewString() + ".png",
		Text:        "Cook " + name,
		CookingTime: 10,
		Tags:        tags,
	}
	for i, a := range amounts {
		recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{
			IngredientID: a.Ingredient.ID,
			Amount:       a.Amount,
			Position:     i,
		})
	}
	if err := db.Omit("Tags.*").Create(&recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}
