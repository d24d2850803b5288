package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/comanda/internal/domain"
	"github.com/seu-repo/comanda/internal/ports"
)

type MenuRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewMenuRepository(db *gorm.DB, log *zap.Logger) ports.MenuRepository {
	return &MenuRepository{
		db:  db,
		log: log,
	}
}

func (r *MenuRepository) Save(ctx context.Context, item *domain.MenuItem) error {
	result := r.db.WithContext(ctx).Save(item)
	if result.Error != nil {
		r.log.Error("Failed to save menu item", zap.String("name", item.Name), zap.Error(result.Error))
		return result.Error
	}
	return nil
}

func (r *MenuRepository) FindByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) FindByName(ctx context.Context, name string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.WithContext(ctx).First(&item, "LOWER(name) = LOWER(?)", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *MenuRepository) FindAll(ctx context.Context, filter map[string]interface{}) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	// Basic filtering implementation
	query := r.db.WithContext(ctx)
	if category, ok := filter["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if station, ok := filter["station"]; ok {
		query = query.Where("station = ?", station)
	}
	if available, ok := filter["available"]; ok {
		query = query.Where("available = ?", available)
	}

	result := query.Order("category, name").Find(&items)
	if result.Error != nil {
		return nil, result.Error
	}
	return items, nil
}

func (r *MenuRepository) FindAvailable(ctx context.Context) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := r.db.WithContext(ctx).Where("available = ?", true).Order("category, name").Find(&items).Error
	return items, err
}

func (r *MenuRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	result := r.db.WithContext(ctx).Model(&domain.MenuItem{}).Where("id = ?", id).Update("available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.MenuItem{}, "id = ?", id).Error
}
