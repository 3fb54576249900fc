package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestIngredientsAndTags(t *testing.T) {
	a := setupTestRouter(t)
	sugar := testhelpers.CreateIngredient(t, a.DB, "Sugar", "g")
	testhelpers.CreateIngredient(t, a.DB, "Salt", "g")
	testhelpers.CreateIngredient(t, a.DB, "Brown sugar", "g")
	tag := testhelpers.CreateTag(t, a.DB, "Dinner", "dinner")

	w := PerformRequestWithToken(a.Router, http.MethodGet, "/api/ingredients?name=su", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ingredients []types.Ingredient
	decodeJSON(t, w, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, sugar.ID, ingredients[0].ID)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/ingredients/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/tags", nil, "")
	var tags []types.Tag
	decodeJSON(t, w, &tags)
	require.Len(t, tags, 1)
	assert.Equal(t, "dinner", tags[0].Slug)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/tags/abc", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodGet, fmt.Sprintf("/api/tags/%d", tag.ID), nil, "")
	var got types.Tag
	decodeJSON(t, w, &got)
	assert.Equal(t, tag.ID, got.ID)
}

func TestHealthCheck(t *testing.T) {
	a := setupTestRouter(t)
	w := PerformRequestWithToken(a.Router, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "first_name", snakeCase("FirstName"))
	assert.Equal(t, "email", snakeCase("Email"))
}
