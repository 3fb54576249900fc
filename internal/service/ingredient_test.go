package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ingredientNames(list []models.Ingredient) []string {
	out := make([]string, len(list))
	for i, ing := range list {
		out[i] = ing.Name
	}
	return out
}

func TestIngredientPrefixSearch(t *testing.T) {
	e := newEnv(t)
	for _, name := range []string{"sugar", "Salt", "salmon", "basil", "100% juice", "1000 island"} {
		testhelpers.CreateIngredient(t, e.db, name, "g")
	}
	svc := service.NewIngredientService(e.db)
	ctx := context.Background()

	list, err := svc.List(ctx, "SAL")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Salt", "salmon"}, ingredientNames(list))

	list, err = svc.List(ctx, "100%")
	require.NoError(t, err)
	assert.Equal(t, []string{"100% juice"}, ingredientNames(list), "wildcards in input are literal")

	list, err = svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestIngredientPrefixSearchFoldsUnicode(t *testing.T) {
	e := newEnv(t)
	testhelpers.CreateIngredient(t, e.db, "Бекон", "г")
	testhelpers.CreateIngredient(t, e.db, "Bacon", "g")
	svc := service.NewIngredientService(e.db)
	ctx := context.Background()

	for _, prefix := range []string{"бек", "Бек", "БЕКОН"} {
		list, err := svc.List(ctx, prefix)
		require.NoError(t, err)
		assert.Equal(t, []string{"Бекон"}, ingredientNames(list), prefix)
	}

	list, err := svc.List(ctx, "BAC")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bacon"}, ingredientNames(list))
}

func TestIngredientGet(t *testing.T) {
	e := newEnv(t)
	salt := testhelpers.CreateIngredient(t, e.db, "Salt", "g")
	svc := service.NewIngredientService(e.db)

	got, err := svc.Get(context.Background(), salt.ID)
	require.NoError(t, err)
	assert.Equal(t, "g", got.MeasurementUnit)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, service.ErrIngredientNotFound)
}

func TestIngredientLoadCSV(t *testing.T) {
	e := newEnv(t)
	svc := service.NewIngredientService(e.db)
	ctx := context.Background()

	data := "name,measurement_unit\nабрикосовое варенье,г\nSalt, g\n\"Flour, wheat\",kg\n"
	n, err := svc.LoadCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	jam, err := svc.List(ctx, "Абрикос")
	require.NoError(t, err)
	require.Len(t, jam, 1)
	assert.Equal(t, "абрикосовое варенье", jam[0].Name)

	flour, err := svc.List(ctx, "flour")
	require.NoError(t, err)
	require.Len(t, flour, 1)
	assert.Equal(t, "Flour, wheat", flour[0].Name)
	assert.Equal(t, "kg", flour[0].MeasurementUnit)

	// second load is a no-op
	n, err = svc.LoadCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int64
	require.NoError(t, e.db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestIngredientLoadCSVRejectsBadHeader(t *testing.T) {
	e := newEnv(t)
	svc := service.NewIngredientService(e.db)

	_, err := svc.LoadCSV(context.Background(), strings.NewReader("title,unit\nSalt,g\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected csv header")
}

func TestTags(t *testing.T) {
	e := newEnv(t)
	svc := service.NewTagService(e.db)
	ctx := context.Background()

	created, err := svc.Ensure(ctx, []models.Tag{{Name: "Breakfast", Slug: "breakfast"}, {Name: "Lunch", Slug: "lunch"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created)

	created, err = svc.Ensure(ctx, []models.Tag{{Name: "Breakfast", Slug: "breakfast"}, {Name: "Dinner", Slug: "dinner"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)

	tags, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "breakfast", tags[0].Slug)

	got, err := svc.Get(ctx, tags[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", got.Name)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, service.ErrTagNotFound)
}
