package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/buildhub/internal/client/api"
	"github.com/dmitrijs2005/buildhub/internal/client/models"
	"github.com/dmitrijs2005/buildhub/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/buildhub/internal/client/store"
	"github.com/dmitrijs2005/buildhub/internal/logging"
)

// LoginPath is where a rejected session is sent.
const LoginPath = "/login"

// Default notifications, used when the server sends none.
const (
	MsgLoginOK              = "Login successful."
	MsgLoginFailed          = "Login failed. Please try again."
	MsgForgotOK             = "Password reset link sent to your email."
	MsgForgotFailed         = "Something went wrong. Please try again."
	MsgResetOK              = "Password reset successfully."
	MsgResetFailed          = "Failed to reset password."
	MsgProfileFailed        = "Failed to get profile."
	MsgChangePasswordOK     = "Password changed successfully."
	MsgChangePasswordFailed = "Failed to change password."
)

// Navigator moves the view layer to a route.
type Navigator interface {
	Navigate(path string)
}

// Session is a copy of the session state. It is authenticated iff Token is not empty.
type Session struct {
	Admin       *models.Admin
	Token       string
	Status      store.Status
	LastError   string
	LastMessage string
}

func (s Session) IsAuthenticated() bool { return s.Token != "" }

// AuthService defines the session operations used by the console.
//
// Restore seeds the session from local storage without any network call.
// Login, ForgotPassword, ResetPassword, GetProfile and ChangePassword follow
// the loading/succeeded/failed lifecycle and also return their error.
// Logout and HandleUnauthorized always end anonymous.
type AuthService interface {
	Restore(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetProfile(ctx context.Context) (models.Admin, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	// HandleUnauthorized tears the session down and redirects to LoginPath.
	HandleUnauthorized(ctx context.Context)

	// Token implements api.TokenSource.
	Token() string
	StoredToken(ctx context.Context) string
	State() Session
	ClearError()
	ClearMessage()
}

type authService struct {
	client api.Doer
	repo   localstore.Repository
	nav    Navigator
	log    logging.Logger

	mu    sync.RWMutex
	state Session
}

// NewAuthService builds an anonymous session. nav may be nil.
func NewAuthService(client api.Doer, repo localstore.Repository, nav Navigator, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Nop()
	}
	return &authService{
		client: client,
		repo:   repo,
		nav:    nav,
		log:    log.With("component", "session"),
		state:  Session{Status: store.StatusIdle},
	}
}

func (a *authService) State() Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	if s.Admin != nil {
		admin := *s.Admin
		s.Admin = &admin
	}
	return s
}

func (a *authService) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state.Token
}

func (a *authService) StoredToken(ctx context.Context) string {
	token, err := a.repo.Get(ctx, localstore.KeyToken)
	if err != nil {
		a.log.Warn(ctx, "read stored token", "error", err)
		return ""
	}
	return token
}

func (a *authService) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.LastError = ""
}

func (a *authService) ClearMessage() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.LastMessage = ""
}

func (a *authService) Restore(ctx context.Context) error {
	token, err := a.repo.Get(ctx, localstore.KeyToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	raw, err := a.repo.Get(ctx, localstore.KeyAdmin)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	var admin *models.Admin
	if raw != "" {
		var v models.Admin
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			a.log.Warn(ctx, "stored admin is not valid json", "error", err)
		} else {
			admin = &v
		}
	}

	a.mu.Lock()
	a.state.Token = token
	a.state.Admin = admin
	a.mu.Unlock()

	if token != "" {
		a.log.Debug(ctx, "session restored from local storage")
	}
	return nil
}

func (a *authService) begin() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Status = store.StatusLoading
	a.state.LastError = ""
}

func (a *authService) succeed(message, fallback string, apply func(s *Session)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Status = store.StatusSucceeded
	if message == "" {
		message = fallback
	}
	a.state.LastMessage = message
	if apply != nil {
		apply(&a.state)
	}
}

func (a *authService) fail(ctx context.Context, op string, err error, fallback string) error {
	msg := api.Message(err)
	if msg == "" {
		msg = fallback
	}
	a.mu.Lock()
	a.state.Status = store.StatusFailed
	a.state.LastError = msg
	a.state.LastMessage = ""
	a.mu.Unlock()

	a.log.Warn(ctx, "operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	a.begin()

	resp, err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	})
	var result models.LoginResult
	if err == nil {
		err = resp.Decode(&result)
	}
	if err == nil && result.Token == "" {
		err = errLoginNoToken
	}
	if err != nil {
		return a.fail(ctx, "login", err, MsgLoginFailed)
	}

	admin, err := json.Marshal(result.Admin)
	if err != nil {
		return a.fail(ctx, "login", err, MsgLoginFailed)
	}
	if err := a.repo.SetMany(ctx, map[string]string{
		localstore.KeyToken: result.Token,
		localstore.KeyAdmin: string(admin),
	}); err != nil {
		return a.fail(ctx, "login", err, MsgLoginFailed)
	}

	a.succeed(resp.Message, MsgLoginOK, func(s *Session) {
		s.Token = result.Token
		s.Admin = &result.Admin
	})
	a.log.Info(ctx, "signed in", "email", result.Admin.Email)
	return nil
}

func (a *authService) teardown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = Session{Status: store.StatusIdle}
}

func (a *authService) Logout(ctx context.Context) error {
	a.teardown()
	if err := a.repo.Delete(ctx, localstore.KeyToken, localstore.KeyAdmin); err != nil {
		a.log.Error(ctx, "clear local storage", "error", err)
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (a *authService) HandleUnauthorized(ctx context.Context) {
	_ = a.Logout(ctx)
	a.log.Warn(ctx, "session expired, redirecting to login")
	if a.nav != nil {
		a.nav.Navigate(LoginPath)
	}
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	a.begin()
	resp, err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		return a.fail(ctx, "forgot password", err, MsgForgotFailed)
	}
	a.succeed(resp.Message, MsgForgotOK, nil)
	return nil
}

func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	a.begin()
	resp, err := a.client.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Body:   map[string]string{"token": token, "newPassword": newPassword},
	})
	if err != nil {
		return a.fail(ctx, "reset password", err, MsgResetFailed)
	}
	a.succeed(resp.Message, MsgResetOK, nil)
	return nil
}

// GetProfile reloads the principal from the server and stores it locally.
func (a *authService) GetProfile(ctx context.Context) (models.Admin, error) {
	if a.Token() == "" {
		return models.Admin{}, ErrNotAuthenticated
	}
	a.begin()
	resp, err := a.client.Do(ctx, api.Request{Method: http.MethodGet, Path: "/auth/profile"})
	var admin models.Admin
	if err == nil {
		err = resp.Decode(&admin)
	}
	if err != nil {
		return admin, a.fail(ctx, "get profile", err, MsgProfileFailed)
	}

	if raw, err := json.Marshal(admin); err == nil {
		if err := a.repo.Set(ctx, localstore.KeyAdmin, string(raw)); err != nil {
			a.log.Warn(ctx, "persist profile", "error", err)
		}
	}

	a.mu.Lock()
	a.state.Status = store.StatusSucceeded
	if a.state.Token != "" {
		a.state.Admin = &admin
	}
	if resp.Message != "" {
		a.state.LastMessage = resp.Message
	}
	a.mu.Unlock()
	return admin, nil
}

func (a *authService) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if a.Token() == "" {
		return ErrNotAuthenticated
	}
	a.begin()
	resp, err := a.client.Do(ctx, api.Request{
		Method: http.MethodPut,
		Path:   "/auth/change-password",
		Body:   map[string]string{"currentPassword": currentPassword, "newPassword": newPassword},
	})
	if err != nil {
		return a.fail(ctx, "change password", err, MsgChangePasswordFailed)
	}
	a.succeed(resp.Message, MsgChangePasswordOK, nil)
	return nil
}
