package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recipeFixture struct {
	*env
	author        models.User
	salt, pepper  models.Ingredient
	lunch, dinner models.Tag
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	e := newEnv(t)
	return &recipeFixture{
		env:    e,
		author: createUser(t, e, "chef"),
		salt:   testhelpers.CreateIngredient(t, e.db, "Salt", "g"),
		pepper: testhelpers.CreateIngredient(t, e.db, "Pepper", "g"),
		lunch:  testhelpers.CreateTag(t, e.db, "Lunch", "lunch"),
		dinner: testhelpers.CreateTag(t, e.db, "Dinner", "dinner"),
	}
}

func (f *recipeFixture) input() service.RecipeInput {
	return service.RecipeInput{
		Name:        "Soup",
		Text:        "Boil water.",
		CookingTime: 15,
		Image:       pngDataURI,
		Tags:        []uint{f.lunch.ID},
		Ingredients: []service.IngredientAmount{
			{ID: f.pepper.ID, Amount: 2},
			{ID: f.salt.ID, Amount: 5},
		},
	}
}

func validationFields(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *service.ValidationError
	require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
	return verr.Fields
}

func TestCreateRecipe(t *testing.T) {
	f := newRecipeFixture(t)

	recipe, err := f.recipes.Create(context.Background(), f.author.ID, f.input())
	require.NoError(t, err)

	assert.Equal(t, "Soup", recipe.Name)
	assert.Equal(t, f.author.ID, recipe.Author.ID)
	assert.Equal(t, "https://cdn.test/recipes/images/0.png", recipe.Image)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, "lunch", recipe.Tags[0].Slug)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "Pepper", recipe.Ingredients[0].Ingredient.Name, "ingredients keep input order")
	assert.Equal(t, 5, recipe.Ingredients[1].Amount)
}

func TestCreateRecipeValidation(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()

	cases := map[string]struct {
		mutate func(*service.RecipeInput)
		field  string
	}{
		"no ingredients":        {func(in *service.RecipeInput) { in.Ingredients = nil }, "ingredients"},
		"duplicate ingredients": {func(in *service.RecipeInput) { in.Ingredients[1].ID = in.Ingredients[0].ID }, "ingredients"},
		"unknown ingredient":    {func(in *service.RecipeInput) { in.Ingredients[0].ID = 9999 }, "ingredients"},
		"zero amount":           {func(in *service.RecipeInput) { in.Ingredients[0].Amount = 0 }, "ingredients"},
		"no tags":               {func(in *service.RecipeInput) { in.Tags = []uint{} }, "tags"},
		"duplicate tags":        {func(in *service.RecipeInput) { in.Tags = []uint{f.lunch.ID, f.lunch.ID} }, "tags"},
		"unknown tag":           {func(in *service.RecipeInput) { in.Tags = []uint{4242} }, "tags"},
		"zero cooking time":     {func(in *service.RecipeInput) { in.CookingTime = 0 }, "cooking_time"},
		"huge amount":           {func(in *service.RecipeInput) { in.Ingredients[0].Amount = 1 << 62 }, "ingredients"},
		"amount over max":       {func(in *service.RecipeInput) { in.Ingredients[0].Amount = 32768 }, "ingredients"},
		"huge cooking time":     {func(in *service.RecipeInput) { in.CookingTime = 1 << 40 }, "cooking_time"},
		"cooking time over max": {func(in *service.RecipeInput) { in.CookingTime = 32768 }, "cooking_time"},
		"empty name":            {func(in *service.RecipeInput) { in.Name = "" }, "name"},
		"empty text":            {func(in *service.RecipeInput) { in.Text = "" }, "text"},
		"missing image":         {func(in *service.RecipeInput) { in.Image = "" }, "image"},
		"bad image":             {func(in *service.RecipeInput) { in.Image = "not-an-image" }, "image"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := f.input()
			tc.mutate(&in)

			_, err := f.recipes.Create(ctx, f.author.ID, in)
			require.Error(t, err)
			assert.ErrorIs(t, err, service.ErrValidation)
			assert.Contains(t, validationFields(t, err), tc.field)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Recipe{}).Count(&count).Error)
	assert.Zero(t, count, "nothing is written when validation fails")
	assert.Empty(t, f.images.saved)
}

func TestCreateRecipeAcceptsUpperBounds(t *testing.T) {
	f := newRecipeFixture(t)
	in := f.input()
	in.CookingTime = 32767
	in.Ingredients[0].Amount = 32767

	created, err := f.recipes.Create(context.Background(), f.author.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 32767, created.CookingTime)
}

func TestUpdateRecipeReplacesSets(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created, err := f.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	in := f.input()
	in.Name = "Stew"
	in.Image = ""
	in.Tags = []uint{f.dinner.ID}
	in.Ingredients = []service.IngredientAmount{{ID: f.salt.ID, Amount: 7}}

	updated, err := f.recipes.Update(ctx, f.author.ID, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "Stew", updated.Name)
	assert.Equal(t, created.Image, updated.Image, "image kept when omitted")
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "dinner", updated.Tags[0].Slug)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 7, updated.Ingredients[0].Amount)

	var lines int64
	require.NoError(t, f.db.Model(&models.RecipeIngredient{}).Where("recipe_id = ?", created.ID).Count(&lines).Error)
	assert.Equal(t, int64(1), lines)
}

func TestUpdateRecipeInvalidLeavesRecipeUntouched(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	created, err := f.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	in := f.input()
	in.Tags = nil
	_, err = f.recipes.Update(ctx, f.author.ID, created.ID, in)
	assert.ErrorIs(t, err, service.ErrValidation)

	reloaded, err := f.recipes.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Tags, 1)
	assert.Len(t, reloaded.Ingredients, 2)
}

func TestOnlyAuthorModifiesRecipe(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	other := createUser(t, f.env, "other")
	created, err := f.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)

	_, err = f.recipes.Update(ctx, other.ID, created.ID, f.input())
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = f.recipes.Delete(ctx, other.ID, created.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)

	err = f.recipes.Delete(ctx, f.author.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
}

func TestDeleteRecipeRemovesChildren(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	reader := createUser(t, f.env, "reader")
	created, err := f.recipes.Create(ctx, f.author.ID, f.input())
	require.NoError(t, err)
	_, err = f.lists.Add(ctx, service.Favorites, reader.ID, created.ID)
	require.NoError(t, err)
	_, err = f.lists.Add(ctx, service.ShoppingCart, reader.ID, created.ID)
	require.NoError(t, err)

	require.NoError(t, f.recipes.Delete(ctx, f.author.ID, created.ID))

	_, err = f.recipes.Get(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrRecipeNotFound)
	for _, model := range []interface{}{&models.RecipeIngredient{}, &models.FavoriteRecipe{}, &models.ShoppingCartEntry{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestListRecipesFilters(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	viewer := createUser(t, f.env, "viewer")
	other := createUser(t, f.env, "other")

	soup := testhelpers.CreateRecipe(t, f.db, f.author, "Soup", []models.Tag{f.lunch}, testhelpers.Amount{Ingredient: f.salt, Amount: 1})
	testhelpers.CreateRecipe(t, f.db, f.author, "Stew", []models.Tag{f.lunch, f.dinner}, testhelpers.Amount{Ingredient: f.salt, Amount: 1})
	cake := testhelpers.CreateRecipe(t, f.db, other, "Cake", []models.Tag{f.dinner}, testhelpers.Amount{Ingredient: f.salt, Amount: 1})

	_, err := f.lists.Add(ctx, service.Favorites, viewer.ID, soup.ID)
	require.NoError(t, err)
	_, err = f.lists.Add(ctx, service.ShoppingCart, viewer.ID, cake.ID)
	require.NoError(t, err)

	names := func(viewer *uuid.UUID, filter service.RecipeFilter) []string {
		t.Helper()
		recipes, total, err := f.recipes.List(ctx, viewer, filter)
		require.NoError(t, err)
		out := make([]string, len(recipes))
		for i, r := range recipes {
			out[i] = r.Name
		}
		assert.Equal(t, int64(len(out)), total)
		return out
	}

	assert.Equal(t, []string{"Cake", "Stew", "Soup"}, names(nil, service.RecipeFilter{}), "newest first")
	assert.Equal(t, []string{"Stew", "Soup"}, names(nil, service.RecipeFilter{AuthorID: &f.author.ID}))
	assert.Equal(t, []string{"Cake", "Stew", "Soup"}, names(nil, service.RecipeFilter{Tags: []string{"lunch", "dinner"}}), "tags match any, no duplicates")
	assert.Equal(t, []string{"Cake", "Stew"}, names(nil, service.RecipeFilter{Tags: []string{"dinner"}}))
	assert.Equal(t, []string{"Soup"}, names(&viewer.ID, service.RecipeFilter{IsFavorited: boolPtr(true)}))
	assert.Equal(t, []string{"Cake", "Stew"}, names(&viewer.ID, service.RecipeFilter{IsFavorited: boolPtr(false)}))
	assert.Equal(t, []string{"Cake"}, names(&viewer.ID, service.RecipeFilter{IsInShoppingCart: boolPtr(true)}))
	assert.Equal(t, []string{"Soup"}, names(&viewer.ID, service.RecipeFilter{IsFavorited: boolPtr(true), IsInShoppingCart: boolPtr(false)}))

	assert.Empty(t, names(nil, service.RecipeFilter{IsFavorited: boolPtr(true)}))
	assert.Empty(t, names(nil, service.RecipeFilter{IsInShoppingCart: boolPtr(false)}))

	_, _, err = f.recipes.List(ctx, nil, service.RecipeFilter{Tags: []string{"lunch", "brunch"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Equal(t, []string{"Select a valid choice. brunch is not one of the available choices."}, validationFields(t, err)["tags"])
}

func TestListRecipesPaginationAndFlags(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	viewer := createUser(t, f.env, "viewer")
	var ids []uuid.UUID
	for _, name := range []string{"A", "B", "C"} {
		ids = append(ids, testhelpers.CreateRecipe(t, f.db, f.author, name, nil).ID)
	}
	_, err := f.lists.Add(ctx, service.Favorites, viewer.ID, ids[1])
	require.NoError(t, err)

	page, total, err := f.recipes.List(ctx, &viewer.ID, service.RecipeFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, "B", page[0].Name)
	assert.True(t, page[0].IsFavorited)
	assert.False(t, page[1].IsFavorited)

	anon, _, err := f.recipes.List(ctx, nil, service.RecipeFilter{})
	require.NoError(t, err)
	for _, r := range anon {
		assert.False(t, r.IsFavorited)
	}
}
