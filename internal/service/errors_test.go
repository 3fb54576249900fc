package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{service.ErrRecipeNotFound, service.ErrNotFound},
		{service.ErrEmptyCart, service.ErrEmptyState},
		{service.ErrNotAuthor, service.ErrForbidden},
		{service.ErrSelfSubscription, service.ErrConflict},
		{service.ErrAlreadyInList(service.Favorites), service.ErrConflict},
		{service.ErrNotInList(service.ShoppingCart), service.ErrConflict},
		{service.ErrInvalidToken, service.ErrUnauthorized},
		{&service.ValidationError{}, service.ErrValidation},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("handler: %w", tc.err)
		assert.True(t, errors.Is(wrapped, tc.kind), "%v should be %v", tc.err, tc.kind)
	}
}

func TestListErrorMessages(t *testing.T) {
	assert.Equal(t, "recipe is already in favorites", service.ErrAlreadyInList(service.Favorites).Error())
	assert.Equal(t, "recipe is not in shopping cart", service.ErrNotInList(service.ShoppingCart).Error())
}

func TestValidationErrorMessage(t *testing.T) {
	verr := &service.ValidationError{}
	assert.True(t, verr.Empty())
	verr.Add("tags", "This field is required.")
	verr.Add("cooking_time", "Ensure this value is greater than or equal to 1.")

	assert.False(t, verr.Empty())
	assert.Equal(t, "validation failed: cooking_time: Ensure this value is greater than or equal to 1., tags: This field is required.", verr.Error())
}
