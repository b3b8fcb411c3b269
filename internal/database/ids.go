package database

import (
	"gorm.io/gorm"

	"github.com/example/siteapi/internal/utils"
)

// NextAvailableID loads every id of model's table in ascending order and returns the
// lowest unused positive one. Nothing is reserved: two concurrent callers can be handed
// the same id, and the later insert then fails on the primary key.
func NextAvailableID(tx *gorm.DB, model interface{}) (int, error) {
	var ids []int
	if err := tx.Model(model).Order("id asc").Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return utils.LowestAvailableID(ids), nil
}
