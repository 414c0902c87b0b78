package memory

import (
	"context"
	"sort"
	"time"

	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/google/uuid"
)

type accountRepo struct {
	s session
}

func (r *accountRepo) Create(ctx context.Context, create dto.AccountCreate) error {
	return r.s.atomic(func(s session) error {
		if _, err := s.getAccount(create.ID); err == nil {
			return domain.ErrConflict
		}
		now := time.Now().UTC()
		s.putAccount(accountRec{
			id:             create.ID,
			username:       create.Username,
			hashedPassword: create.HashedPassword,
			role:           create.Role,
			balance:        0,
			createdAt:      now,
			updatedAt:      now,
		})
		return nil
	})
}

func (r *accountRepo) Get(ctx context.Context, id uuid.UUID) (*dto.AccountRead, error) {
	rec, err := r.s.getAccount(id)
	if err != nil {
		return nil, err
	}
	return mapAccount(rec), nil
}

func (r *accountRepo) GetByUsername(
	ctx context.Context,
	username string,
) (*dto.AccountRead, error) {
	rec, err := r.s.getAccountByUsername(username)
	if err != nil {
		return nil, err
	}
	return mapAccount(rec), nil
}

func (r *accountRepo) List(ctx context.Context) ([]*dto.AccountRead, error) {
	recs := r.s.listAccounts()
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].createdAt.Before(recs[j].createdAt)
	})
	out := make([]*dto.AccountRead, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapAccount(rec))
	}
	return out, nil
}

func (r *accountRepo) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.AccountUpdate,
) error {
	return r.s.atomic(func(s session) error {
		rec, err := s.getAccount(id)
		if err != nil {
			return err
		}
		if update.Username != nil {
			rec.username = *update.Username
		}
		if update.HashedPassword != nil {
			rec.hashedPassword = *update.HashedPassword
		}
		if update.Role != nil {
			rec.role = *update.Role
		}
		if update.Balance != nil {
			rec.balance = *update.Balance
		}
		if update.ActiveToken != nil {
			rec.activeToken = *update.ActiveToken
		}
		rec.updatedAt = time.Now().UTC()
		s.putAccount(rec)
		return nil
	})
}

func (r *accountRepo) AddToBalance(
	ctx context.Context,
	id uuid.UUID,
	delta int64,
) (int64, error) {
	var balance int64
	err := r.s.atomic(func(s session) error {
		rec, err := s.getAccount(id)
		if err != nil {
			return err
		}
		if rec.balance+delta < 0 {
			return domain.ErrInsufficientFunds
		}
		rec.balance += delta
		rec.updatedAt = time.Now().UTC()
		s.putAccount(rec)
		balance = rec.balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *accountRepo) CompareAndSetBalance(
	ctx context.Context,
	id uuid.UUID,
	old, new int64,
) (bool, error) {
	var swapped bool
	err := r.s.atomic(func(s session) error {
		rec, err := s.getAccount(id)
		if err != nil {
			return err
		}
		if rec.balance != old {
			return nil
		}
		rec.balance = new
		rec.updatedAt = time.Now().UTC()
		s.putAccount(rec)
		swapped = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return swapped, nil
}

func (r *accountRepo) SetActiveToken(
	ctx context.Context,
	id uuid.UUID,
	token string,
) error {
	return r.s.atomic(func(s session) error {
		rec, err := s.getAccount(id)
		if err != nil {
			return err
		}
		rec.activeToken = token
		rec.updatedAt = time.Now().UTC()
		s.putAccount(rec)
		return nil
	})
}

func (r *accountRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.atomic(func(s session) error {
		if _, err := s.getAccount(id); err != nil {
			return err
		}
		s.deleteAccount(id)
		return nil
	})
}

func mapAccount(rec accountRec) *dto.AccountRead {
	return &dto.AccountRead{
		ID:             rec.id,
		Username:       rec.username,
		Role:           rec.role,
		Balance:        rec.balance,
		HashedPassword: rec.hashedPassword,
		ActiveToken:    rec.activeToken,
		CreatedAt:      rec.createdAt,
		UpdatedAt:      rec.updatedAt,
	}
}

type productRepo struct {
	s session
}

func (r *productRepo) Create(ctx context.Context, create dto.ProductCreate) error {
	return r.s.atomic(func(s session) error {
		if _, err := s.getProduct(create.ID); err == nil {
			return domain.ErrConflict
		}
		now := time.Now().UTC()
		s.putProduct(productRec{
			id:        create.ID,
			name:      create.Name,
			price:     create.Price,
			quantity:  create.Quantity,
			ownerID:   create.OwnerID,
			createdAt: now,
			updatedAt: now,
		})
		return nil
	})
}

func (r *productRepo) Get(ctx context.Context, id uuid.UUID) (*dto.ProductRead, error) {
	rec, err := r.s.getProduct(id)
	if err != nil {
		return nil, err
	}
	return mapProduct(rec), nil
}

func (r *productRepo) GetByName(ctx context.Context, name string) (*dto.ProductRead, error) {
	rec, err := r.s.getProductByName(name)
	if err != nil {
		return nil, err
	}
	return mapProduct(rec), nil
}

func (r *productRepo) List(ctx context.Context) ([]*dto.ProductRead, error) {
	recs := r.s.listProducts()
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].createdAt.Before(recs[j].createdAt)
	})
	out := make([]*dto.ProductRead, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapProduct(rec))
	}
	return out, nil
}

func (r *productRepo) Update(
	ctx context.Context,
	id uuid.UUID,
	update dto.ProductUpdate,
) error {
	return r.s.atomic(func(s session) error {
		rec, err := s.getProduct(id)
		if err != nil {
			return err
		}
		if update.Name != nil {
			rec.name = *update.Name
		}
		if update.Price != nil {
			rec.price = *update.Price
		}
		if update.Quantity != nil {
			rec.quantity = *update.Quantity
		}
		rec.updatedAt = time.Now().UTC()
		s.putProduct(rec)
		return nil
	})
}

func (r *productRepo) Decrement(
	ctx context.Context,
	id uuid.UUID,
	n int64,
) (bool, error) {
	var ok bool
	err := r.s.atomic(func(s session) error {
		rec, err := s.getProduct(id)
		if err != nil {
			return err
		}
		if rec.quantity < n {
			return nil
		}
		rec.quantity -= n
		rec.updatedAt = time.Now().UTC()
		s.putProduct(rec)
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.s.atomic(func(s session) error {
		if _, err := s.getProduct(id); err != nil {
			return err
		}
		s.deleteProduct(id)
		return nil
	})
}

func mapProduct(rec productRec) *dto.ProductRead {
	return &dto.ProductRead{
		ID:        rec.id,
		Name:      rec.name,
		Price:     rec.price,
		Quantity:  rec.quantity,
		OwnerID:   rec.ownerID,
		CreatedAt: rec.createdAt,
		UpdatedAt: rec.updatedAt,
	}
}

type transactionRepo struct {
	s session
}

func (r *transactionRepo) Create(ctx context.Context, create dto.TransactionCreate) error {
	createdAt := create.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	r.s.appendTxn(txnRec{
		id:         create.ID,
		buyerID:    create.BuyerID,
		productID:  create.ProductID,
		quantity:   create.Quantity,
		totalSpent: create.TotalSpent,
		change:     append([]int64(nil), create.Change...),
		createdAt:  createdAt,
	})
	return nil
}

func (r *transactionRepo) ListByBuyer(
	ctx context.Context,
	buyerID uuid.UUID,
) ([]*dto.TransactionRead, error) {
	recs := r.s.listTxnsByBuyer(buyerID)
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].createdAt.After(recs[j].createdAt)
	})
	out := make([]*dto.TransactionRead, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &dto.TransactionRead{
			ID:         rec.id,
			BuyerID:    rec.buyerID,
			ProductID:  rec.productID,
			Quantity:   rec.quantity,
			TotalSpent: rec.totalSpent,
			Change:     append([]int64(nil), rec.change...),
			CreatedAt:  rec.createdAt,
		})
	}
	return out, nil
}
