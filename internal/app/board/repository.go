package board

import "gorm.io/gorm"

type Repository interface {
	GetByCategory(category string) (*BoardRequirement, error)
	List() ([]*BoardRequirement, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByCategory(category string) (*BoardRequirement, error) {
	var req BoardRequirement
	err := r.db.Where("board_category = ?", category).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) List() ([]*BoardRequirement, error) {
	var reqs []*BoardRequirement
	err := r.db.Order("board_category ASC").Find(&reqs).Error
	return reqs, err
}
