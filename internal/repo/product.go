package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns every product ordered by id.
func (r *GormRepo) ListProducts(ctx context.Context) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProductsByOwner(ctx context.Context, ownerID uint) ([]models.Product, error) {
	items := make([]models.Product, 0)
	if err := r.DB.WithContext(ctx).Where("user_id = ?", ownerID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SaveProduct writes the mutable columns of prod. The owner is never updated;
// updated_at is refreshed by gorm.
func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	res := r.DB.WithContext(ctx).
		Model(prod).
		Select("name", "description", "price").
		Updates(models.Product{
			Name:        prod.Name,
			Description: prod.Description,
			Price:       prod.Price,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
