package models

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() SignupForm {
	return SignupForm{
		FirstName:       "Ada",
		LastName:        "Green",
		Email:           "ada@example.org",
		Password:        "Secret1",
		ConfirmPassword: "Secret1",
	}
}

func TestValidate_Signup(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *SignupForm)
		wantMsg string
	}{
		{name: "valid", mutate: func(f *SignupForm) {}},
		{name: "missing first name", mutate: func(f *SignupForm) { f.FirstName = "" }, wantMsg: "first_name is required"},
		{name: "bad email", mutate: func(f *SignupForm) { f.Email = "nope" }, wantMsg: "email must be a valid email"},
		{name: "short password", mutate: func(f *SignupForm) { f.Password, f.ConfirmPassword = "Ab1", "Ab1" }, wantMsg: "password must be at least 6 characters"},
		{name: "no capital", mutate: func(f *SignupForm) { f.Password, f.ConfirmPassword = "secret1", "secret1" }, wantMsg: "password must contain an uppercase letter"},
		{name: "mismatch", mutate: func(f *SignupForm) { f.ConfirmPassword = "Other1" }, wantMsg: "passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validSignup()
			tt.mutate(&f)
			err := Validate(f)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, common.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidate_NewProduct(t *testing.T) {
	p := NewProduct{Name: "Seeds", Price: 3.5, Category: CategoryOrganicSeeds, Unit: "pack", Images: []string{"a.jpg"}}
	require.NoError(t, Validate(p))

	noImages := p
	noImages.Images = nil
	err := Validate(noImages)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "images needs at least 1 item(s)")

	badCategory := p
	badCategory.Category = "toys"
	assert.ErrorContains(t, Validate(badCategory), "category must be one of")

	free := p
	free.Price = 0
	assert.ErrorContains(t, Validate(free), "price must be > 0")
}

func TestSignupForm_ConfirmPasswordNotSerialized(t *testing.T) {
	b, err := json.Marshal(validSignup())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "Confirm")
	assert.Contains(t, string(b), `"password":"Secret1"`)
}

func TestUser_DecodeAndDisplayName(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"u1","email":"a@b.com","first_name":"Ada","extra":true}`), &u))
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "Ada", u.DisplayName())

	assert.Equal(t, "Bob", User{Name: "Bob", Email: "b@x"}.DisplayName())
	assert.Equal(t, "b@x", User{Email: "b@x"}.DisplayName())
}

func TestUser_MergeKeepsUntouchedFields(t *testing.T) {
	u := User{ID: "u1", Email: "a@b.com", FirstName: "Ada", Role: "seller", Bio: "old"}
	got := u.Merge(ProfileUpdate{FirstName: "Ada", LastName: "Green", Email: "a@b.com", Location: "Oran"})

	want := User{ID: "u1", Email: "a@b.com", FirstName: "Ada", LastName: "Green", Role: "seller", Bio: "old", Location: "Oran"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileFromUser(t *testing.T) {
	u := User{FirstName: "Ada", LastName: "Green", Email: "a@b.com", ProfileImageURL: "https://img/a.png"}
	p := ProfileFromUser(u)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "https://img/a.png", p.ProfileImageURL)
	require.NoError(t, Validate(p))
}
