package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/models"
)

// FollowStore answers which of a set of authors a user follows.
type FollowStore interface {
	FollowedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// AnnotatedRecipe is a recipe plus the viewer-relative flags.
type AnnotatedRecipe struct {
	models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// Annotator computes per-viewer flags for a page of recipes with a fixed
// number of lookups, independent of the page size.
type Annotator struct {
	lists   ListStore
	follows FollowStore
}

func NewAnnotator(lists ListStore, follows FollowStore) *Annotator {
	return &Annotator{lists: lists, follows: follows}
}

// Annotate returns recipes in input order with flags set for viewer.
// A nil viewer gets every flag false and causes no lookups.
func (a *Annotator) Annotate(ctx context.Context, viewer *uuid.UUID, recipes []models.Recipe) ([]AnnotatedRecipe, error) {
	out := make([]AnnotatedRecipe, len(recipes))
	for i := range recipes {
		out[i].Recipe = recipes[i]
	}
	if viewer == nil || len(recipes) == 0 {
		return out, nil
	}

	recipeIDs := make([]uuid.UUID, len(recipes))
	authorSeen := make(map[uuid.UUID]struct{})
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for i, r := range recipes {
		recipeIDs[i] = r.ID
		if _, ok := authorSeen[r.AuthorID]; !ok {
			authorSeen[r.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, r.AuthorID)
		}
	}

	membership := make(map[ListKind]map[uuid.UUID]struct{}, len(ListKinds))
	for _, kind := range ListKinds {
		set, err := a.lists.RecipeIDsInList(ctx, kind, *viewer, recipeIDs)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", kind, err)
		}
		membership[kind] = set
	}

	var followed map[uuid.UUID]struct{}
	if a.follows != nil {
		var err error
		followed, err = a.follows.FollowedAuthorIDs(ctx, *viewer, authorIDs)
		if err != nil {
			return nil, fmt.Errorf("loading subscriptions: %w", err)
		}
	}

	for i := range out {
		id := out[i].ID
		_, out[i].IsFavorited = membership[Favorites][id]
		_, out[i].IsInShoppingCart = membership[ShoppingCart][id]
		_, out[i].AuthorSubscribed = followed[out[i].AuthorID]
	}
	return out, nil
}

// AnnotateOne is Annotate for a single recipe.
func (a *Annotator) AnnotateOne(ctx context.Context, viewer *uuid.UUID, recipe models.Recipe) (AnnotatedRecipe, error) {
	out, err := a.Annotate(ctx, viewer, []models.Recipe{recipe})
	if err != nil {
		return AnnotatedRecipe{}, err
	}
	return out[0], nil
}
