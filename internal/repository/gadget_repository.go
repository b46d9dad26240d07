package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gadgetry/internal/model"
)

// GadgetRepository defines gadget persistence operations. There is no
// delete: retiring a gadget is a status transition via Save.
type GadgetRepository interface {
	Create(ctx context.Context, gadget *model.Gadget) error
	Save(ctx context.Context, gadget *model.Gadget) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gadget, error)
	List(ctx context.Context, status *model.GadgetStatus) ([]model.Gadget, error)
	CodenameExists(ctx context.Context, codename string) (bool, error)
}

type gadgetRepository struct {
	db *gorm.DB
}

// NewGadgetRepository creates a new gadget repository.
func NewGadgetRepository(db *gorm.DB) GadgetRepository {
	return &gadgetRepository{db: db}
}

func (r *gadgetRepository) Create(ctx context.Context, gadget *model.Gadget) error {
	return r.db.WithContext(ctx).Create(gadget).Error
}

func (r *gadgetRepository) Save(ctx context.Context, gadget *model.Gadget) error {
	return r.db.WithContext(ctx).Save(gadget).Error
}

func (r *gadgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Gadget, error) {
	var gadget model.Gadget
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&gadget).Error; err != nil {
		return nil, err
	}
	return &gadget, nil
}

func (r *gadgetRepository) List(ctx context.Context, status *model.GadgetStatus) ([]model.Gadget, error) {
	q := r.db.WithContext(ctx)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var gadgets []model.Gadget
	if err := q.Order("created_at").Find(&gadgets).Error; err != nil {
		return nil, err
	}
	return gadgets, nil
}

func (r *gadgetRepository) CodenameExists(ctx context.Context, codename string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Gadget{}).
		Where("codename = ?", codename).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
