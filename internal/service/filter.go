package service

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Nil pointers mean "no constraint".
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	Tags             []string
	IsFavorited      *bool
	IsInShoppingCart *bool
	Limit            int
	Offset           int
}

func (f RecipeFilter) hasRelationFilter() bool {
	return f.IsFavorited != nil || f.IsInShoppingCart != nil
}

// applyRecipeFilter adds the filter's WHERE clauses to q. It reports false
// when the result is known to be empty without querying: relation filters
// only make sense for a signed-in viewer.
func applyRecipeFilter(q *gorm.DB, viewer *uuid.UUID, f RecipeFilter) (*gorm.DB, bool) {
	if f.hasRelationFilter() && viewer == nil {
		return q, false
	}

	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}

	if len(f.Tags) > 0 {
		q = q.Where(`recipes.id IN (
			SELECT recipe_tags.recipe_id FROM recipe_tags
			JOIN tags ON tags.id = recipe_tags.tag_id
			WHERE tags.slug IN ?)`, f.Tags)
	}

	q = relationClause(q, viewer, Favorites, f.IsFavorited)
	q = relationClause(q, viewer, ShoppingCart, f.IsInShoppingCart)
	return q, true
}

func relationClause(q *gorm.DB, viewer *uuid.UUID, kind ListKind, want *bool) *gorm.DB {
	if want == nil {
		return q
	}
	sub := "EXISTS (SELECT 1 FROM " + kind.table() + " l WHERE l.recipe_id = recipes.id AND l.user_id = ?)"
	if !*want {
		sub = "NOT " + sub
	}
	return q.Where(sub, *viewer)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// prefixPattern turns user input into a case-insensitive LIKE prefix pattern.
func prefixPattern(prefix string) string {
	return likeEscaper.Replace(strings.ToLower(prefix)) + "%"
}
