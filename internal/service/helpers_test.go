package service_test

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"testing"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"gorm.io/gorm"
)

var pngDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(
	[]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"),
)

// memImages records saved images instead of uploading them.
type memImages struct {
	mu    sync.Mutex
	saved []string
}

func (m *memImages) Save(ctx context.Context, prefix string, dataURI string) (string, error) {
	if _, _, err := service.DecodeDataURI(dataURI); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	url := fmt.Sprintf("https://cdn.test/%s/%d.png", prefix, len(m.saved))
	m.saved = append(m.saved, url)
	return url, nil
}

type env struct {
	db            *gorm.DB
	images        *memImages
	lists         *service.ListService
	store         *service.GormListStore
	subscriptions *service.SubscriptionService
	recipes       *service.RecipeService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	images := &memImages{}
	store := service.NewGormListStore(db)
	subs := service.NewSubscriptionService(db)
	return &env{
		db:            db,
		images:        images,
		lists:         service.NewListService(db, store),
		store:         store,
		subscriptions: subs,
		recipes:       service.NewRecipeService(db, images, service.NewAnnotator(store, subs)),
	}
}

func boolPtr(b bool) *bool { return &b }

func createUser(t *testing.T, e *env, name string) models.User {
	return testhelpers.CreateUser(t, e.db, name)
}

func createRecipe(t *testing.T, e *env, author models.User, name string, amounts ...testhelpers.Amount) models.Recipe {
	return testhelpers.CreateRecipe(t, e.db, author, name, nil, amounts...)
}
