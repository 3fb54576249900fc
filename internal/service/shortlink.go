package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	shortCodeAlphabet    = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortCodeLength      = 3
	maxShortCodeAttempts = 64
	shortLinkCacheTTL    = 24 * time.Hour
	shortLinkCachePrefix = "shortlink:"
)

// CodeGenerator produces candidate short codes.
type CodeGenerator func() (string, error)

// RandomCode draws shortCodeLength characters from [a-zA-Z0-9].
func RandomCode() (string, error) {
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	var sb strings.Builder
	for i := 0; i < shortCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(shortCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// ShortLinkService hands out one stable short code per recipe.
type ShortLinkService struct {
	db       *gorm.DB
	cache    *redis.Client
	generate CodeGenerator
	baseURL  string
}

// NewShortLinkService creates the service. cache may be nil.
func NewShortLinkService(db *gorm.DB, cache *redis.Client, baseURL string) *ShortLinkService {
	return &ShortLinkService{db: db, cache: cache, generate: RandomCode, baseURL: baseURL}
}

// WithGenerator replaces the code source, for tests.
func (s *ShortLinkService) WithGenerator(gen CodeGenerator) *ShortLinkService {
	s.generate = gen
	return s
}

// URL renders the public short link for code.
func (s *ShortLinkService) URL(code string) string {
	return s.baseURL + code
}

// GetOrCreate returns the recipe's code, creating one on first use.
func (s *ShortLinkService) GetOrCreate(ctx context.Context, recipeID uuid.UUID) (string, error) {
	db := s.db.WithContext(ctx)

	if code, ok, err := s.existing(db, recipeID); err != nil || ok {
		return code, err
	}

	var count int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrRecipeNotFound
	}

	for attempt := 0; attempt < maxShortCodeAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return "", fmt.Errorf("generating short code: %w", err)
		}

		err = db.Create(&models.ShortLink{RecipeID: recipeID, Code: code}).Error
		if err == nil {
			metrics.ShortLinksCreated.Inc()
			logger := logging.Ctx(ctx, log.Logger)
			logger.Info().Str("recipe_id", recipeID.String()).Str("code", code).Msg("short link created")
			return code, nil
		}
		if !database.IsUniqueViolation(err) {
			return "", fmt.Errorf("creating short link: %w", err)
		}

		// either another request linked this recipe first, or the code is taken
		if winner, ok, err := s.existing(db, recipeID); err != nil || ok {
			return winner, err
		}
		metrics.ShortLinkCollisions.Inc()
	}
	return "", ErrShortLinkSpaceExhausted
}

func (s *ShortLinkService) existing(db *gorm.DB, recipeID uuid.UUID) (string, bool, error) {
	var link models.ShortLink
	err := db.Where("recipe_id = ?", recipeID).Take(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return link.Code, true, nil
}

// Resolve maps a code back to its recipe.
func (s *ShortLinkService) Resolve(ctx context.Context, code string) (uuid.UUID, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, shortLinkCachePrefix+code).Result(); err == nil {
			if id, err := uuid.Parse(cached); err == nil {
				metrics.ShortLinkResolutions.WithLabelValues("cache").Inc()
				return id, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("short link cache read failed")
		}
	}

	var link models.ShortLink
	err := s.db.WithContext(ctx).Where("code = ?", code).Take(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.ShortLinkResolutions.WithLabelValues("miss").Inc()
		return uuid.Nil, ErrShortLinkNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	metrics.ShortLinkResolutions.WithLabelValues("db").Inc()

	if s.cache != nil {
		if err := s.cache.Set(ctx, shortLinkCachePrefix+code, link.RecipeID.String(), shortLinkCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("short link cache write failed")
		}
	}
	return link.RecipeID, nil
}

// Lookup returns the recipe's code without creating one.
func (s *ShortLinkService) Lookup(ctx context.Context, recipeID uuid.UUID) (string, bool, error) {
	return s.existing(s.db.WithContext(ctx), recipeID)
}

// Forget drops the cached resolution of code once its recipe is gone.
func (s *ShortLinkService) Forget(ctx context.Context, code string) {
	if s.cache == nil || code == "" {
		return
	}
	if err := s.cache.Del(ctx, shortLinkCachePrefix+code).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("failed to evict short link from cache")
	}
}
