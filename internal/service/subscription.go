package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/models"
	"gorm.io/gorm"
)

// Subscription is a followed author with a preview of their recipes.
type Subscription struct {
	Author       models.User
	RecipesCount int64
	Recipes      []models.Recipe
}

type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes userID follow authorID and returns the author.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error) {
	if userID == authorID {
		return nil, ErrSelfSubscription
	}
	db := s.db.WithContext(ctx)

	var author models.User
	if err := db.First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := db.Create(&models.Follower{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("creating subscription: %w", err)
	}
	return &author, nil
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	if userID == authorID {
		return ErrSelfSubscription
	}
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	res := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follower{})
	if res.Error != nil {
		return fmt.Errorf("deleting subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotSubscribed
	}
	return nil
}

// ListSubscriptions pages through the authors userID follows. recipesLimit < 0
// includes every recipe of each author.
func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID uuid.UUID, recipesLimit, limit, offset int) ([]Subscription, int64, error) {
	db := s.db.WithContext(ctx)

	followed := db.Model(&models.Follower{}).Select("author_id").Where("user_id = ?", userID)

	var total int64
	if err := db.Model(&models.User{}).Where("id IN (?)", followed).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	q := db.Where("id IN (?)", followed).Order("username")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	if len(authors) == 0 {
		return []Subscription{}, total, nil
	}
	authorIDs := make([]uuid.UUID, len(authors))
	for i, author := range authors {
		authorIDs[i] = author.ID
	}

	var counts []struct {
		AuthorID uuid.UUID
		Total    int64
	}
	err := db.Model(&models.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("counting author recipes: %w", err)
	}
	countByAuthor := make(map[uuid.UUID]int64, len(counts))
	for _, c := range counts {
		countByAuthor[c.AuthorID] = c.Total
	}

	previews, err := s.recipePreviews(db, authorIDs, recipesLimit)
	if err != nil {
		return nil, 0, err
	}

	subs := make([]Subscription, len(authors))
	for i, author := range authors {
		subs[i] = Subscription{
			Author:       author,
			RecipesCount: countByAuthor[author.ID],
			Recipes:      previews[author.ID],
		}
		if subs[i].Recipes == nil {
			subs[i].Recipes = []models.Recipe{}
		}
	}
	return subs, total, nil
}

// recipePreviews loads the newest recipesLimit recipes of every author in one
// query. recipesLimit < 0 loads them all.
func (s *SubscriptionService) recipePreviews(db *gorm.DB, authorIDs []uuid.UUID, recipesLimit int) (map[uuid.UUID][]models.Recipe, error) {
	previews := make(map[uuid.UUID][]models.Recipe, len(authorIDs))
	if recipesLimit == 0 {
		return previews, nil
	}

	var recipes []models.Recipe
	q := db.Where("author_id IN ?", authorIDs)
	if recipesLimit > 0 {
		ranked := db.Model(&models.Recipe{}).
			Select("id, ROW_NUMBER() OVER (PARTITION BY author_id ORDER BY created_at DESC, id) AS rn").
			Where("author_id IN ?", authorIDs)
		q = db.Where("id IN (?)", db.Table("(?) AS ranked", ranked).Select("id").Where("rn <= ?", recipesLimit))
	}
	if err := q.Order("created_at DESC").Order("id").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("loading recipe previews: %w", err)
	}
	for _, r := range recipes {
		previews[r.AuthorID] = append(previews[r.AuthorID], r)
	}
	return previews, nil
}

// FollowedAuthorIDs returns the subset of authorIDs that userID follows.
func (s *SubscriptionService) FollowedAuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]struct{}, error) {
	found := make(map[uuid.UUID]struct{})
	if len(authorIDs) == 0 {
		return found, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Follower{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = struct{}{}
	}
	return found, nil
}

// IsSubscribed is false for anonymous viewers.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, viewer *uuid.UUID, authorID uuid.UUID) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	set, err := s.FollowedAuthorIDs(ctx, *viewer, []uuid.UUID{authorID})
	if err != nil {
		return false, err
	}
	_, ok := set[authorID]
	return ok, nil
}
