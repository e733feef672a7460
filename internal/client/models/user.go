// Package models defines the records exchanged with the GreenHub backend and
// the validated forms the client builds requests from.
package models

import "strings"

// User is the identity record returned at login and persisted in the
// credential store. Unknown fields sent by the backend are ignored.
type User struct {
	ID                        string `json:"_id"`
	Email                     string `json:"email"`
	FirstName                 string `json:"first_name,omitempty"`
	LastName                  string `json:"last_name,omitempty"`
	Name                      string `json:"name,omitempty"`
	Age                       int    `json:"age,omitempty"`
	Role                      string `json:"role,omitempty"`
	PhoneNumber               string `json:"phone_number,omitempty"`
	Bio                       string `json:"bio,omitempty"`
	Location                  string `json:"location,omitempty"`
	ProfileImageURL           string `json:"profile_image_url,omitempty"`
	ProfileBackgroundImageURL string `json:"profile_background_image_url,omitempty"`
}

// DisplayName prefers "first last", then Name, then the email address.
func (u User) DisplayName() string {
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Merge returns a copy of u with the non-empty fields of p applied.
func (u User) Merge(p ProfileUpdate) User {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.Email, p.Email)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.Bio, p.Bio)
	set(&u.Location, p.Location)
	set(&u.ProfileImageURL, p.ProfileImageURL)
	set(&u.ProfileBackgroundImageURL, p.ProfileBackgroundImageURL)
	return u
}
