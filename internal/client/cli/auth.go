package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/client/session"
	"github.com/dmitrijs2005/greenhub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register walks through the signup form and submits it. Validation and
// backend failures are shown by the session notifier, so they are logged
// here and not returned.
func (a *App) Register(ctx context.Context) error {
	var form models.SignupForm
	var err error

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &form.FirstName},
		{"Last name", &form.LastName},
		{"Email", &form.Email},
		{"Phone number (optional)", &form.PhoneNumber},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	age, err := getSimpleText(a.reader, "Age (optional)", a.out)
	if err != nil {
		return err
	}
	if age != "" {
		if form.Age, err = strconv.Atoi(age); err != nil {
			return fmt.Errorf("%w: age must be a number", common.ErrValidation)
		}
	}

	pw, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	form.Password, form.ConfirmPassword = string(pw), string(confirm)

	if err := a.session.Signup(ctx, form); err != nil {
		a.log.Warn(ctx, "signup failed", "err", err)
	}
	return nil
}

// Login prompts for email and password. Empty fields are rejected before
// anything is sent.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	pw, err := getPassword("Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if strings.TrimSpace(email) == "" || len(pw) == 0 {
		printlnFn("Email and password are required.")
		return nil
	}

	if _, err := a.session.Login(ctx, email, string(pw)); err != nil {
		a.log.Warn(ctx, "login failed", "err", err)
	}
	return nil
}

// Forgot requests a password reset link.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	msg, err := a.accounts.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	printlnFn(msg)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}

// WhoAmI prints the signed-in user and what the bearer token says about
// itself.
func (a *App) WhoAmI(ctx context.Context) error {
	u, ok := a.session.User()
	if !ok {
		return common.ErrNotAuthenticated
	}
	printlnFn(fmt.Sprintf("%s <%s>", u.DisplayName(), u.Email))
	if u.Role != "" {
		printlnFn("Role:", u.Role)
	}

	c, err := session.TokenInfo(a.session.Token())
	if err != nil {
		printlnFn("Token: opaque")
		return nil
	}
	if c.Subject != "" {
		printlnFn("Token subject:", c.Subject)
	}
	if !c.ExpiresAt.IsZero() {
		state := "valid until"
		if c.Expired(time.Now()) {
			state = "expired at"
		}
		printlnFn(fmt.Sprintf("Token %s %s", state, c.ExpiresAt.Local().Format(time.RFC1123)))
	}
	return nil
}
