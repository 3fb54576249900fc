package database_test

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, database.IsUniqueViolation(nil))
	assert.False(t, database.IsUniqueViolation(errors.New("boom")))
	assert.True(t, database.IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, database.IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, database.IsUniqueViolation(&pq.Error{Code: "23503"}))
}

func TestFavoriteUniqueness(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user, "Soup", nil)

	require.NoError(t, db.Create(&models.FavoriteRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.FavoriteRecipe{UserID: user.ID, RecipeID: recipe.ID}).Error
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := testhelpers.SetupSQLite(t)
	author := testhelpers.CreateUser(t, db, "chef")
	reader := testhelpers.CreateUser(t, db, "reader")
	salt := testhelpers.CreateIngredient(t, db, "Salt", "g")
	tag := testhelpers.CreateTag(t, db, "Lunch", "lunch")
	recipe := testhelpers.CreateRecipe(t, db, author, "Soup", []models.Tag{tag}, testhelpers.Amount{Ingredient: salt, Amount: 3})

	require.NoError(t, db.Create(&models.FavoriteRecipe{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.ShoppingCartEntry{UserID: reader.ID, RecipeID: recipe.ID}).Error)
	require.NoError(t, db.Create(&models.ShortLink{RecipeID: recipe.ID, Code: "abc"}).Error)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", author.ID).Error)

	for _, model := range []interface{}{&models.Recipe{}, &models.RecipeIngredient{}, &models.FavoriteRecipe{}, &models.ShoppingCartEntry{}, &models.ShortLink{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows should cascade", model)
	}

	var tags int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&tags).Error)
	assert.Equal(t, int64(1), tags)
}

func TestRunMigrationsPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)

	// second run is a no-op
	require.NoError(t, database.RunMigrations(db, testhelpers.MigrationsDir()))

	user := testhelpers.CreateUser(t, db, "alice")
	recipe := testhelpers.CreateRecipe(t, db, user, "Soup", nil)
	require.NoError(t, db.Create(&models.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}).Error)
	err := db.Create(&models.ShoppingCartEntry{UserID: user.ID, RecipeID: recipe.ID}).Error
	assert.True(t, database.IsUniqueViolation(err))
}
