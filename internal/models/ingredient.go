package models

import (
	"strings"

	"gorm.io/gorm"
)

// Ingredient is reference data: a product and the unit it is measured in.
// (name, measurement_unit) is unique in practice but not enforced.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:128;not null;index" json:"name"`
	MeasurementUnit string `gorm:"size:64;not null" json:"measurement_unit"`
	// NameLower backs prefix search; SQLite's LOWER only folds ASCII.
	NameLower string `gorm:"size:128;not null;index" json:"-"`
}

func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Slug string `gorm:"size:128;not null;uniqueIndex" json:"slug"`
}
