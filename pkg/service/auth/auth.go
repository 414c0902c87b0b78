// Package auth implements the session manager: it issues, validates
// and revokes the single session token an account may hold.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/coinshop/pkg/config"
	"github.com/amirasaad/coinshop/pkg/domain"
	"github.com/amirasaad/coinshop/pkg/dto"
	"github.com/amirasaad/coinshop/pkg/repository"
	"github.com/amirasaad/coinshop/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const dummyHash = "$2a$10$7zFqzDbD3RrlkMTczbXG9OWZ0FLOXjIxXzSZ.QZxkVXjXcx7QZQiC"

// Service issues and revokes session tokens. A token is a signed HS256
// claim {account_id, role, exp}; validity additionally requires the
// token to still be the account's recorded active session, which is
// what makes logout and logout-all effective.
type Service struct {
	uow    repository.UnitOfWork
	cfg    *config.Jwt
	logger *slog.Logger
}

// New creates an auth Service. The signing key arrives via cfg; it is
// never read from the environment here.
func New(uow repository.UnitOfWork, cfg *config.Jwt, logger *slog.Logger) *Service {
	return &Service{uow: uow, cfg: cfg, logger: logger}
}

// Login verifies credentials and mints the account's sole session
// token. It fails ErrSessionActive when a session is already recorded;
// the caller must log out first (reject-on-active policy, no silent
// revocation).
func (s *Service) Login(
	ctx context.Context,
	username, password string,
) (token string, err error) {
	log := s.logger.With("context", "Login", "username", username)
	log.Debug("Login called")
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := repo.GetByUsername(ctx, username)
		if errors.Is(err, domain.ErrNotFound) {
			// Always check password hash to avoid timing attacks
			_ = utils.CheckPasswordHash(password, dummyHash)
			return domain.ErrInvalidCredentials
		}
		if err != nil {
			return err
		}
		if !utils.CheckPasswordHash(password, acct.HashedPassword) {
			return domain.ErrInvalidCredentials
		}
		if acct.ActiveToken != "" {
			return domain.ErrSessionActive
		}
		token, err = s.mint(acct)
		if err != nil {
			return err
		}
		return repo.SetActiveToken(ctx, acct.ID, token)
	})
	if err != nil {
		log.Error("Login failed", "error", err)
		return "", err
	}
	log.Info("Login successful")
	return token, nil
}

func (s *Service) mint(acct *dto.AccountRead) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)
	claims["account_id"] = acct.ID.String()
	claims["role"] = string(acct.Role)
	claims["exp"] = time.Now().Add(s.cfg.Expiry).Unix()
	return token.SignedString([]byte(s.cfg.Secret))
}

// Validate checks a bearer token and maps it to an account id and role.
// It is read-only: it verifies the signature and expiry, then
// cross-checks the stored active token on the plain read path, so it
// never contends on the locks used by balance mutation.
func (s *Service) Validate(
	ctx context.Context,
	tokenString string,
) (accountID uuid.UUID, role domain.Role, err error) {
	log := s.logger.With("context", "Validate")
	log.Debug("Validate called")
	if tokenString == "" {
		return uuid.Nil, "", domain.ErrUnauthenticated
	}
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthenticated
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			log.Error("Validate failed", "error", domain.ErrTokenExpired)
			return uuid.Nil, "", domain.ErrTokenExpired
		}
		log.Error("Validate failed", "error", err)
		return uuid.Nil, "", domain.ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, "", domain.ErrUnauthenticated
	}
	rawID, ok := claims["account_id"].(string)
	if !ok {
		return uuid.Nil, "", domain.ErrUnauthenticated
	}
	accountID, err = uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", domain.ErrUnauthenticated
	}
	rawRole, ok := claims["role"].(string)
	if !ok {
		return uuid.Nil, "", domain.ErrUnauthenticated
	}
	role, err = domain.ParseRole(rawRole)
	if err != nil {
		return uuid.Nil, "", domain.ErrUnauthenticated
	}

	repo, err := s.uow.AccountRepository()
	if err != nil {
		return uuid.Nil, "", err
	}
	acct, err := repo.Get(ctx, accountID)
	if err != nil {
		log.Error("Validate failed", "error", err)
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, "", domain.ErrSessionInvalid
		}
		return uuid.Nil, "", err
	}
	if acct.ActiveToken != tokenString {
		log.Error("Validate failed", "error", domain.ErrSessionInvalid)
		return uuid.Nil, "", domain.ErrSessionInvalid
	}
	log.Debug("Validate successful", "accountID", accountID, "role", role)
	return accountID, role, nil
}

// Logout removes exactly the given token from the account's session
// slot. Logging out with an already-revoked token is a no-op; an
// unknown account fails ErrNotFound.
func (s *Service) Logout(ctx context.Context, accountID uuid.UUID, token string) error {
	log := s.logger.With("context", "Logout", "accountID", accountID)
	log.Debug("Logout called")
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := repo.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if acct.ActiveToken != token {
			return nil
		}
		return repo.SetActiveToken(ctx, accountID, "")
	})
	if err != nil {
		log.Error("Logout failed", "error", err)
		return err
	}
	log.Info("Logout successful")
	return nil
}

// LogoutAll clears the account's session slot unconditionally. It fails
// ErrNoActiveSession when there was nothing to revoke.
func (s *Service) LogoutAll(ctx context.Context, accountID uuid.UUID) error {
	log := s.logger.With("context", "LogoutAll", "accountID", accountID)
	log.Debug("LogoutAll called")
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		acct, err := repo.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if acct.ActiveToken == "" {
			return domain.ErrNoActiveSession
		}
		return repo.SetActiveToken(ctx, accountID, "")
	})
	if err != nil {
		log.Error("LogoutAll failed", "error", err)
		return err
	}
	log.Info("LogoutAll successful")
	return nil
}
