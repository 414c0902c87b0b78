package repository

import (
	"context"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) Create(ctx context.Context, create dto.AccountCreate) error {
	acct := Account{
		ID:             create.ID,
		Username:       create.Username,
		HashedPassword: create.HashedPassword,
		Role:           string(create.Role),
		Balance:        0,
	}
	return MapGormErrorToDomain(r.db.WithContext(ctx).Create(&acct).Error)
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountToDTO(&acct), nil
}

func (r *accountRepository) GetByUsername(
	ctx context.Context,
	username string,
) (*dto.AccountRead, error) {
	var acct Account
	if err := r.db.WithContext(ctx).First(&acct, "username = ?", username).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapAccountToDTO(&acct), nil
}

func (r *accountRepository) List(ctx context.Context) ([]*dto.AccountRead, error) {
	var accts []Account
	if err := r.db.WithContext(ctx).Find(&accts).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	result := make([]*dto.AccountRead, 0, len(accts))
	for i := range accts {
		result = append(result, mapAccountToDTO(&accts[i]))
	}
	return result, nil
}

func (r *accountRepository) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.AccountUpdate,
) error {
	updates := make(map[string]any)
	if update.Username != nil {
		updates["username"] = *update.Username
	}
	if update.HashedPassword != nil {
		updates["hashed_password"] = *update.HashedPassword
	}
	if update.Role != nil {
		updates["role"] = string(*update.Role)
	}
	if update.Balance != nil {
		updates["balance"] = *update.Balance
	}
	if update.ActiveToken != nil {
		updates["active_token"] = *update.ActiveToken
	}
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddToBalance applies delta guarded against going negative, in one
// UPDATE so concurrent deposits never lose an increment.
func (r *accountRepository) AddToBalance(
	ctx context.Context,
	id uuid.UUID,
	delta int64,
) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return 0, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return 0, err
		}
		return 0, domain.ErrInsufficientFunds
	}
	acct, err := r.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// CompareAndSetBalance writes new only if the balance still equals old.
func (r *accountRepository) CompareAndSetBalance(
	ctx context.Context,
	id uuid.UUID,
	old, new int64,
) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ? AND balance = ?", id, old).
		UpdateColumn("balance", new)
	if res.Error != nil {
		return false, MapGormErrorToDomain(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *accountRepository) SetActiveToken(
	ctx context.Context,
	id uuid.UUID,
	token string,
) error {
	res := r.db.WithContext(ctx).Model(&Account{}).
		Where("id = ?", id).
		UpdateColumn("active_token", token)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&Account{}, "id = ?", id)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapAccountToDTO(acct *Account) *dto.AccountRead {
	return &dto.AccountRead{
		ID:             acct.ID,
		Username:       acct.Username,
		Role:           domain.Role(acct.Role),
		Balance:        acct.Balance,
		HashedPassword: acct.HashedPassword,
		ActiveToken:    acct.ActiveToken,
		CreatedAt:      acct.CreatedAt,
		UpdatedAt:      acct.UpdatedAt,
	}
}
