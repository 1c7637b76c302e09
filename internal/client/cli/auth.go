package cli

import (
	"context"

	"github.com/dmitrijs2005/buildhub/internal/client/guard"
	"github.com/dmitrijs2005/buildhub/internal/client/services"
	"github.com/dmitrijs2005/buildhub/internal/client/validate"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) sessionNotice() {
	s := a.auth.State()
	if s.LastError != "" {
		a.println("Error:", s.LastError)
	}
	if s.LastMessage != "" {
		a.println(s.LastMessage)
	}
	a.auth.ClearError()
	a.auth.ClearMessage()
}

// showInvalid prints form errors and reports whether there were any.
func (a *App) showInvalid(err error) bool {
	if err == nil {
		return false
	}
	if fe, ok := validate.AsErrors(err); ok {
		for _, field := range fe.Fields() {
			a.printf("  %s: %s\n", field, fe[field])
		}
		return true
	}
	a.println("Error:", err)
	return true
}

// Login prompts for credentials on the login view and signs in. On success
// the console moves to the dashboard.
func (a *App) Login(ctx context.Context) error {
	if !a.enter(ctx, guard.PathLogin) {
		return nil
	}

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	form := validate.LoginForm{Email: email, Password: string(password)}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}

	err = a.auth.Login(ctx, form.Email, form.Password)
	a.sessionNotice()
	if err != nil {
		return err
	}
	a.enter(ctx, guard.PathDashboard)
	return nil
}

// Logout always succeeds locally; storage errors are only logged.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.enter(ctx, guard.PathLogin)
	a.println("Logged out.")
	return err
}

func (a *App) ForgotPassword(ctx context.Context) error {
	if !a.enter(ctx, guard.PathForgotPassword) {
		return nil
	}
	email, err := getSimpleText(a.reader, "Enter your account email", a.out)
	if err != nil {
		return err
	}
	form := validate.ForgotPasswordForm{Email: email}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}
	err = a.auth.ForgotPassword(ctx, form.Email)
	a.sessionNotice()
	return err
}

func (a *App) ResetPassword(ctx context.Context, token string) error {
	if !a.enter(ctx, "/reset-password/"+token) {
		return nil
	}
	password, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer wipe(password)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer wipe(confirm)

	form := validate.ResetPasswordForm{Password: string(password), Confirm: string(confirm)}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}
	err = a.auth.ResetPassword(ctx, token, form.Password)
	a.sessionNotice()
	if err == nil {
		a.enter(ctx, guard.PathLogin)
	}
	return err
}

func (a *App) Profile(ctx context.Context) error {
	if !a.enter(ctx, guard.PathDashboard) {
		return nil
	}
	admin, err := a.auth.GetProfile(ctx)
	a.sessionNotice()
	if err != nil {
		return err
	}
	a.printf("%s <%s>", admin.Name, admin.Email)
	if admin.Role != "" {
		a.printf(" [%s]", admin.Role)
	}
	a.println()
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	if !a.enter(ctx, guard.PathDashboard) {
		return nil
	}

	var secrets [3][]byte
	defer func() {
		for _, s := range secrets {
			wipe(s)
		}
	}()
	for i, prompt := range []string{"Current password", "New password", "Confirm new password"} {
		pw, err := getPassword(prompt, a.out)
		if err != nil {
			return err
		}
		secrets[i] = pw
	}

	form := validate.ChangePasswordForm{Current: string(secrets[0]), New: string(secrets[1]), Confirm: string(secrets[2])}
	if err := validate.Check(form); a.showInvalid(err) {
		return err
	}
	err := a.auth.ChangePassword(ctx, form.Current, form.New)
	a.sessionNotice()
	return err
}

var _ services.Navigator = (*App)(nil)
