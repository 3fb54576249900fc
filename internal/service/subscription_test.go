package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSelfSubscriptionFails(t *testing.T) {
	e := newEnv(t)
	user := createUser(t, e, "alice")

	_, err := e.subscriptions.Subscribe(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrSelfSubscription)
	assert.ErrorIs(t, err, service.ErrConflict)

	err = e.subscriptions.Unsubscribe(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrSelfSubscription)
}

func TestSubscribeLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := createUser(t, e, "alice")
	bob := createUser(t, e, "bob")

	author, err := e.subscriptions.Subscribe(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", author.Username)

	_, err = e.subscriptions.Subscribe(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrAlreadySubscribed)

	subscribed, err := e.subscriptions.IsSubscribed(ctx, &alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = e.subscriptions.IsSubscribed(ctx, nil, bob.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	require.NoError(t, e.subscriptions.Unsubscribe(ctx, alice.ID, bob.ID))
	err = e.subscriptions.Unsubscribe(ctx, alice.ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrNotSubscribed)
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	e := newEnv(t)
	alice := createUser(t, e, "alice")

	_, err := e.subscriptions.Subscribe(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	err = e.subscriptions.Unsubscribe(context.Background(), alice.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestListSubscriptions(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := createUser(t, e, "alice")
	bob := createUser(t, e, "bob")
	carol := createUser(t, e, "carol")
	createUser(t, e, "dave")
	for _, name := range []string{"B1", "B2", "B3"} {
		createRecipe(t, e, bob, name)
	}

	for _, author := range []uuid.UUID{carol.ID, bob.ID} {
		_, err := e.subscriptions.Subscribe(ctx, alice.ID, author)
		require.NoError(t, err)
	}

	subs, total, err := e.subscriptions.ListSubscriptions(ctx, alice.ID, 2, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)

	assert.Equal(t, "bob", subs[0].Author.Username)
	assert.Equal(t, int64(3), subs[0].RecipesCount)
	require.Len(t, subs[0].Recipes, 2)
	assert.Equal(t, "B3", subs[0].Recipes[0].Name)

	assert.Equal(t, "carol", subs[1].Author.Username)
	assert.Zero(t, subs[1].RecipesCount)
	assert.Empty(t, subs[1].Recipes)

	all, _, err := e.subscriptions.ListSubscriptions(ctx, alice.ID, -1, 1, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Recipes, 3)
}

func TestListSubscriptionsQueryCountIndependentOfAuthors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := createUser(t, e, "alice")

	var queries int
	counting := false
	count := func(*gorm.DB) {
		if counting {
			queries++
		}
	}
	require.NoError(t, e.db.Callback().Query().After("gorm:query").Register("test:count_query", count))
	require.NoError(t, e.db.Callback().Row().After("gorm:row").Register("test:count_row", count))

	measure := func() int {
		queries, counting = 0, true
		defer func() { counting = false }()
		_, _, err := e.subscriptions.ListSubscriptions(ctx, alice.ID, 2, 10, 0)
		require.NoError(t, err)
		return queries
	}

	follow := func(name string) {
		author := createUser(t, e, name)
		for _, title := range []string{name + "-1", name + "-2", name + "-3"} {
			createRecipe(t, e, author, title)
		}
		_, err := e.subscriptions.Subscribe(ctx, alice.ID, author.ID)
		require.NoError(t, err)
	}

	follow("bob")
	one := measure()
	follow("carol")
	follow("dave")
	follow("erin")
	assert.Equal(t, one, measure())

	subs, _, err := e.subscriptions.ListSubscriptions(ctx, alice.ID, 2, 10, 0)
	require.NoError(t, err)
	require.Len(t, subs, 4)
	for _, sub := range subs {
		assert.Equal(t, int64(3), sub.RecipesCount, sub.Author.Username)
		assert.Len(t, sub.Recipes, 2, sub.Author.Username)
	}
}
