package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/common"
)

// Profile prints the signed-in user.
func (a *App) Profile(ctx context.Context) error {
	u, ok := a.session.User()
	if !ok {
		return common.ErrNotAuthenticated
	}
	printUser(u)
	return nil
}

func printUser(u models.User) {
	printlnFn(u.DisplayName())
	rows := []struct{ label, value string }{
		{"Email", u.Email},
		{"Phone", u.PhoneNumber},
		{"Role", u.Role},
		{"Location", u.Location},
		{"Bio", u.Bio},
		{"Avatar", u.ProfileImageURL},
		{"Cover", u.ProfileBackgroundImageURL},
	}
	for _, r := range rows {
		if r.value != "" {
			printlnFn(fmt.Sprintf("%-9s %s", r.label+":", r.value))
		}
	}
}

// EditProfile walks through the settings form pre-filled with the current
// values. Image fields take a URL or a local file to upload.
func (a *App) EditProfile(ctx context.Context) error {
	u, ok := a.session.User()
	if !ok {
		return common.ErrNotAuthenticated
	}
	p := models.ProfileFromUser(u)

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"First name", &p.FirstName},
		{"Last name", &p.LastName},
		{"Email", &p.Email},
		{"Phone number", &p.PhoneNumber},
		{"Bio", &p.Bio},
		{"Location", &p.Location},
		{"Profile image (URL or file)", &p.ProfileImageURL},
		{"Cover image (URL or file)", &p.ProfileBackgroundImageURL},
	}
	for _, f := range fields {
		v, err := GetWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	updated, err := a.accounts.UpdateProfile(ctx, p)
	if err != nil {
		return err
	}
	printlnFn("Profile updated.")
	printUser(*updated)
	return nil
}
