package api

import (
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func toUser(u models.User, subscribed bool) types.User {
	out := types.User{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
	if u.Avatar != "" {
		avatar := u.Avatar
		out.Avatar = &avatar
	}
	return out
}

func toTag(t models.Tag) types.Tag {
	return types.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toTags(tags []models.Tag) []types.Tag {
	out := make([]types.Tag, len(tags))
	for i, t := range tags {
		out[i] = toTag(t)
	}
	return out
}

func toIngredient(i models.Ingredient) types.Ingredient {
	return types.Ingredient{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

func toIngredients(ingredients []models.Ingredient) []types.Ingredient {
	out := make([]types.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		out[i] = toIngredient(ing)
	}
	return out
}

func toRecipe(r service.AnnotatedRecipe) types.Recipe {
	ingredients := make([]types.RecipeIngredient, len(r.Ingredients))
	for i, ri := range r.Ingredients {
		ingredients[i] = types.RecipeIngredient{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}
	return types.Recipe{
		ID:               r.ID,
		Tags:             toTags(r.Tags),
		Author:           toUser(r.Author, r.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      r.IsFavorited,
		IsInShoppingCart: r.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func toRecipes(recipes []service.AnnotatedRecipe) []types.Recipe {
	out := make([]types.Recipe, len(recipes))
	for i := range recipes {
		out[i] = toRecipe(recipes[i])
	}
	return out
}

func toShortRecipe(r models.Recipe) types.ShortRecipe {
	return types.ShortRecipe{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

func toSubscription(s service.Subscription) types.Subscription {
	recipes := make([]types.ShortRecipe, len(s.Recipes))
	for i, r := range s.Recipes {
		recipes[i] = toShortRecipe(r)
	}
	return types.Subscription{
		User:         toUser(s.Author, true),
		Recipes:      recipes,
		RecipesCount: s.RecipesCount,
	}
}
