package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const csvBatchSize = 500

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns ingredients whose name starts with namePrefix, ignoring case.
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name").Order("id")
	if namePrefix != "" {
		q = q.Where(`name_lower LIKE ? ESCAPE '\'`, prefixPattern(namePrefix))
	}
	var ingredients []models.Ingredient
	if err := q.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *IngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}

// LoadCSV bulk-loads "name,measurement_unit" rows. The load is skipped when
// the table already has data, so it is safe to run on every deploy. It
// returns the number of rows inserted.
func (s *IngredientService) LoadCSV(ctx context.Context, r io.Reader) (int, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Ingredient{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info().Int64("existing", count).Msg("ingredients already loaded, skipping")
		return 0, nil
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("reading csv header: %w", err)
	}
	if strings.TrimSpace(header[0]) != "name" || strings.TrimSpace(header[1]) != "measurement_unit" {
		return 0, fmt.Errorf("unexpected csv header %q, want name,measurement_unit", strings.Join(header, ","))
	}

	var rows []models.Ingredient
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading csv: %w", err)
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		rows = append(rows, models.Ingredient{Name: name, MeasurementUnit: strings.TrimSpace(record[1])})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&rows, csvBatchSize).Error
	})
	if err != nil {
		return 0, fmt.Errorf("inserting ingredients: %w", err)
	}

	log.Info().Int("count", len(rows)).Msg("ingredients loaded")
	return len(rows), nil
}
