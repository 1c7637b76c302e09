// Package accounts implements operator sign-in, profile and password
// management for the mock backend.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/logging"
	"github.com/dmitrijs2005/buildhub/internal/server/auth"
	"github.com/dmitrijs2005/buildhub/internal/server/config"
	"github.com/dmitrijs2005/buildhub/internal/server/mail"
	"github.com/dmitrijs2005/buildhub/internal/server/memstore"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var hashCost = bcrypt.DefaultCost

type Service struct {
	db           *memstore.Database
	mail         mail.Sender
	log          logging.Logger
	jwtSecret    []byte
	tokenTTL     time.Duration
	resetTTL     time.Duration
	resetBaseURL string
	now          func() time.Time
}

func NewService(db *memstore.Database, sender mail.Sender, cfg *config.Config, log logging.Logger) *Service {
	return &Service{
		db:           db,
		mail:         sender,
		log:          log,
		jwtSecret:    []byte(cfg.SecretKey),
		tokenTTL:     cfg.TokenTTL,
		resetTTL:     cfg.ResetTokenTTL,
		resetBaseURL: strings.TrimRight(cfg.ResetBaseURL, "/"),
		now:          time.Now,
	}
}

func hashPassword(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// EnsureAdmin creates the operator account unless the e-mail is taken.
func (s *Service) EnsureAdmin(email, password, name string) (models.Admin, error) {
	if a, err := s.db.AccountByEmail(email); err == nil {
		return a.Admin, nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return models.Admin{}, err
	}
	admin := models.Admin{ID: uuid.NewString(), Name: name, Email: email, Role: "admin"}
	if err := s.db.Accounts.Insert(memstore.Account{Admin: admin, PasswordHash: hash}); err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (models.LoginResult, error) {
	account, err := s.db.AccountByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, memstore.ErrNotFound) {
			return models.LoginResult{}, ErrInvalidCredentials
		}
		return models.LoginResult{}, err
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		s.log.Warn(ctx, "rejected sign-in", "email", email)
		return models.LoginResult{}, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(account.Admin.ID, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return models.LoginResult{}, err
	}
	return models.LoginResult{Token: token, Admin: account.Admin}, nil
}

// Authenticate resolves a bearer token to its operator.
func (s *Service) Authenticate(token string) (models.Admin, error) {
	id, err := auth.GetAdminIDFromToken(token, s.jwtSecret)
	if err != nil {
		return models.Admin{}, err
	}
	account, err := s.db.Accounts.Get(id)
	if err != nil {
		return models.Admin{}, auth.ErrInvalidToken
	}
	return account.Admin, nil
}

func (s *Service) ChangePassword(_ context.Context, adminID, current, next string) error {
	if len(next) < minPasswordLen {
		return ErrWeakPassword
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}

	_, err = s.db.Accounts.Update(adminID, func(a *memstore.Account) error {
		if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(current)) != nil {
			return ErrWrongPassword
		}
		a.PasswordHash = hash
		return nil
	})
	return err
}

// ForgotPassword mails a reset link. Unknown addresses succeed silently so
// the endpoint does not reveal which e-mails are registered.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.db.AccountByEmail(strings.TrimSpace(email))
	if err != nil {
		s.log.Debug(ctx, "password reset for unknown email", "email", email)
		return nil
	}

	rt := memstore.ResetToken{Token: uuid.NewString(), AdminID: account.Admin.ID, ExpiresAt: s.now().Add(s.resetTTL)}
	if err := s.db.ResetTokens.Insert(rt); err != nil {
		return err
	}

	link := s.resetBaseURL + "/" + rt.Token
	text := fmt.Sprintf("Hello %s,\n\nUse the link below to choose a new BuildHub password. It expires in %s.\n\n%s\n",
		account.Admin.Name, s.resetTTL, link)
	if err := s.mail.Send(ctx, account.Admin.Email, "Reset your BuildHub password", text); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ResetPassword consumes a reset token. Tokens are single use.
func (s *Service) ResetPassword(_ context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return ErrWeakPassword
	}

	rt, err := s.db.ResetTokens.Get(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	_ = s.db.ResetTokens.Delete(token)
	if s.now().After(rt.ExpiresAt) {
		return ErrInvalidResetToken
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = s.db.Accounts.Update(rt.AdminID, func(a *memstore.Account) error {
		a.PasswordHash = hash
		return nil
	})
	if errors.Is(err, memstore.ErrNotFound) {
		return ErrInvalidResetToken
	}
	return err
}
