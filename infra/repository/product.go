package repository

import (
	"context"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func (r *productRepository) Create(ctx context.Context, create dto.ProductCreate) error {
	prod := Product{
		ID:       create.ID,
		Name:     create.Name,
		Price:    create.Price,
		Quantity: create.Quantity,
		OwnerID:  create.OwnerID,
	}
	return MapGormErrorToDomain(r.db.WithContext(ctx).Create(&prod).Error)
}

func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (*dto.ProductRead, error) {
	var prod Product
	if err := r.db.WithContext(ctx).First(&prod, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapProductToDTO(&prod), nil
}

func (r *productRepository) GetByName(ctx context.Context, name string) (*dto.ProductRead, error) {
	var prod Product
	if err := r.db.WithContext(ctx).First(&prod, "name = ?", name).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapProductToDTO(&prod), nil
}

func (r *productRepository) List(ctx context.Context) ([]*dto.ProductRead, error) {
	var prods []Product
	if err := r.db.WithContext(ctx).Find(&prods).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.ProductRead, 0, len(prods))
	for i := range prods {
		result = append(result, mapProductToDTO(&prods[i]))
	}
	return result, nil
}

func (r *productRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.ProductUpdate,
) error {
	updates := make(map[string]any)
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Price != nil {
		updates["price"] = *update.Price
	}
	if update.Quantity != nil {
		updates["quantity"] = *update.Quantity
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Decrement takes n units out of stock guarded by the remaining
// quantity, in one UPDATE so racing purchases cannot oversell.
func (r *productRepository) Decrement(
	ctx context.Context,
	id uuid.UUID,
	n int64,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND quantity >= ?", id, n).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", n))
	if res.Error != nil {
		return false, MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapProductToDTO(prod *Product) *dto.ProductRead {
	return &dto.ProductRead{
		ID:        prod.ID,
		Name:      prod.Name,
		Price:     prod.Price,
		Quantity:  prod.Quantity,
		OwnerID:   prod.OwnerID,
		CreatedAt: prod.CreatedAt,
		UpdatedAt: prod.UpdatedAt,
	}
}
