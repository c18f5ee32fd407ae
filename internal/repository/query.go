package repository

import (
	"errors"

	"beauty-center-backend/internal/domain/entity"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"
)

// where applies a squirrel condition to a gorm query. Empty conditions are skipped.
// UUID values must be passed as strings: squirrel expands arrays into IN lists.
func where(db *gorm.DB, cond sq.And) (*gorm.DB, error) {
	if len(cond) == 0 {
		return db, nil
	}
	query, args, err := cond.ToSql()
	if err != nil {
		return nil, err
	}
	return db.Where(query, args...), nil
}

// paginate counts the rows matched by query and loads one page into dest.
// Preloads are applied to the page query only.
func paginate(query *gorm.DB, page entity.Page, order string, dest interface{}, preloads ...string) (int64, error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	for _, p := range preloads {
		query = query.Preload(p)
	}
	err := query.Order(order).Offset(page.Offset()).Limit(page.Limit()).Find(dest).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// first loads one row, mapping gorm.ErrRecordNotFound to found=false.
func first(query *gorm.DB, dest interface{}) (bool, error) {
	err := query.First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func likePattern(s string) string {
	return "%" + s + "%"
}
