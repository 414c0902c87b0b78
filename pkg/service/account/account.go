// Package account implements the account store: registration,
// credential checks and balance bookkeeping.
package account

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/coinshop/pkg/domain"
	accountdomain "github.com/amirasaad/coinshop/pkg/domain/account"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/amirasaad/coinshop/pkg/repository"
	"github.com/amirasaad/coinshop/pkg/utils"
	"github.com/google/uuid"
)

// Kept constant so a lookup miss costs the same as a hash mismatch.
const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Service owns account records and their balances.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates an account Service.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Register creates a new account. The uniqueness check and the insert
// run in the same transaction, so two concurrent registrations for the
// same username cannot both pass the existence check.
func (s *Service) Register(
	ctx context.Context,
	username, password, role string,
) (read *dto.AccountRead, err error) {
	log := s.logger.With("context", "Register", "username", username)
	log.Debug("Register called")
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, err
	}
	acct, err := accountdomain.New(username, password, parsedRole)
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		_, err = repo.GetByUsername(ctx, username)
		if err == nil {
			return domain.ErrConflict
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := repo.Create(ctx, dto.AccountCreate{
			ID:             acct.ID,
			Username:       acct.Username,
			HashedPassword: acct.HashedPassword,
			Role:           acct.Role,
		}); err != nil {
			return err
		}
		read, err = repo.Get(ctx, acct.ID)
		return err
	})
	if err != nil {
		log.Error("Register failed", "error", err)
		return nil, err
	}
	log.Info("Register successful", "accountID", read.ID, "role", read.Role)
	return read, nil
}

// Authenticate verifies a username/password pair. Any mismatch reports
// the same ErrInvalidCredentials; a lookup miss still burns a bcrypt
// compare to avoid leaking which usernames exist.
func (s *Service) Authenticate(
	ctx context.Context,
	username, password string,
) (*dto.AccountRead, error) {
	log := s.logger.With("context", "Authenticate", "username", username)
	log.Debug("Authenticate called")
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	acct, err := repo.GetByUsername(ctx, username)
	if err != nil {
		_ = utils.CheckPasswordHash(password, dummyHash)
		log.Error("Authenticate failed", "error", domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, acct.HashedPassword) {
		log.Error("Authenticate failed", "error", domain.ErrInvalidCredentials)
		return nil, domain.ErrInvalidCredentials
	}
	log.Info("Authenticate successful", "accountID", acct.ID)
	return acct, nil
}

// AdjustBalance atomically applies delta to the account balance and
// returns the new balance. A delta that would drive the balance
// negative fails with ErrInsufficientFunds and changes nothing.
func (s *Service) AdjustBalance(
	ctx context.Context,
	accountID uuid.UUID,
	delta int64,
) (newBalance int64, err error) {
	log := s.logger.With("context", "AdjustBalance", "accountID", accountID)
	log.Debug("AdjustBalance called", "delta", delta)
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		newBalance, err = repo.AddToBalance(ctx, accountID, delta)
		return err
	})
	if err != nil {
		log.Error("AdjustBalance failed", "error", err)
		return 0, err
	}
	log.Info("AdjustBalance successful", "balance", newBalance)
	return newBalance, nil
}

// SetBalance overwrites the account balance. Negative values are
// rejected; the write is atomic relative to other balance mutations.
func (s *Service) SetBalance(
	ctx context.Context,
	accountID uuid.UUID,
	value int64,
) error {
	log := s.logger.With("context", "SetBalance", "accountID", accountID)
	log.Debug("SetBalance called", "value", value)
	if value < 0 {
		return domain.ErrValidation
	}
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err := repo.Get(ctx, accountID); err != nil {
			return err
		}
		return repo.Update(ctx, accountID, dto.AccountUpdate{Balance: &value})
	})
	if err != nil {
		log.Error("SetBalance failed", "error", err)
		return err
	}
	log.Info("SetBalance successful", "balance", value)
	return nil
}

// Get returns a single account.
func (s *Service) Get(ctx context.Context, accountID uuid.UUID) (*dto.AccountRead, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, accountID)
}

// List returns all accounts.
func (s *Service) List(ctx context.Context) ([]*dto.AccountRead, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// UpdateInput carries the patchable account fields across the service
// boundary. Nil fields are left untouched.
type UpdateInput struct {
	Username *string
	Password *string
	Role     *string
	Balance  *int64
}

// Update patches an account. A changed password is rehashed, a changed
// role re-validated and a changed username re-checked for uniqueness in
// the same transaction as the write.
func (s *Service) Update(
	ctx context.Context,
	accountID uuid.UUID,
	in UpdateInput,
) (read *dto.AccountRead, err error) {
	log := s.logger.With("context", "Update", "accountID", accountID)
	log.Debug("Update called")
	var update dto.AccountUpdate
	if in.Password != nil {
		hashed, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		update.HashedPassword = &hashed
	}
	if in.Role != nil {
		parsed, err := domain.ParseRole(*in.Role)
		if err != nil {
			log.Error("Update failed", "error", err)
			return nil, err
		}
		update.Role = &parsed
	}
	if in.Balance != nil {
		if *in.Balance < 0 {
			return nil, domain.ErrValidation
		}
		update.Balance = in.Balance
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if in.Username != nil && *in.Username != current.Username {
			if *in.Username == "" {
				return accountdomain.ErrUsernameEmpty
			}
			if _, err := repo.GetByUsername(ctx, *in.Username); err == nil {
				return domain.ErrConflict
			} else if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			update.Username = in.Username
		}
		if err := repo.Update(ctx, accountID, update); err != nil {
			return err
		}
		read, err = repo.Get(ctx, accountID)
		return err
	})
	if err != nil {
		log.Error("Update failed", "error", err)
		return nil, err
	}
	log.Info("Update successful")
	return read, nil
}

// Delete removes an account. Clearing the row also drops any active
// session bound to it.
func (s *Service) Delete(ctx context.Context, accountID uuid.UUID) error {
	log := s.logger.With("context", "Delete", "accountID", accountID)
	log.Debug("Delete called")
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if _, err := repo.Get(ctx, accountID); err != nil {
			return err
		}
		return repo.Delete(ctx, accountID)
	})
	if err != nil {
		log.Error("Delete failed", "error", err)
		return err
	}
	log.Info("Delete successful")
	return nil
}
