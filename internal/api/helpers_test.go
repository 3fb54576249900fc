package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

const testSiteHostname = "https://foodgram.test"

var pngDataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(
	[]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"),
)

type memImages struct {
	mu sync.Mutex
	n  int
}

func (m *memImages) Save(ctx context.Context, prefix string, dataURI string) (string, error) {
	if _, _, err := service.DecodeDataURI(dataURI); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	return fmt.Sprintf("https://cdn.test/%s/%d.png", prefix, m.n), nil
}

// TestAPI holds the router and the services behind it.
type TestAPI struct {
	Router *gin.Engine
	DB     *gorm.DB
	Auth   *service.AuthService
}

func setupTestRouter(t *testing.T) *TestAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	images := &memImages{}
	store := service.NewGormListStore(db)
	subs := service.NewSubscriptionService(db)
	auth := service.NewAuthService(db, "test-secret", nil)
	recipes := service.NewRecipeService(db, images, service.NewAnnotator(store, subs))

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	RegisterRoutes(router, db, Services{
		Auth:          auth,
		Users:         service.NewUserService(db, images),
		Recipes:       recipes,
		Lists:         service.NewListService(db, store),
		ShoppingList:  service.NewShoppingListService(db),
		ShortLinks:    service.NewShortLinkService(db, nil, testSiteHostname+"/s/"),
		Subscriptions: subs,
		Ingredients:   service.NewIngredientService(db),
		Tags:          service.NewTagService(db),
		SiteHostname:  testSiteHostname,
	})

	return &TestAPI{Router: router, DB: db, Auth: auth}
}

// CreateTestUserAndToken inserts a user and signs a token for it.
func CreateTestUserAndToken(t *testing.T, a *TestAPI, username string) (models.User, string) {
	t.Helper()
	user := testhelpers.CreateUser(t, a.DB, username)
	token, err := a.Auth.GenerateToken(&user)
	require.NoError(t, err)
	return user, token
}

// PerformRequestWithToken sends body as JSON; an empty token sends no
// Authorization header.
func PerformRequestWithToken(r http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
