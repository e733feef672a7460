package models

// SignupForm is the registration record. ConfirmPassword is checked locally
// and never sent.
type SignupForm struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	Age             int    `json:"age,omitempty" validate:"gte=0"`
	Password        string `json:"password" validate:"required,min=6,containsany=ABCDEFGHIJKLMNOPQRSTUVWXYZ"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
}

// ProfileUpdate is the settings form. Image fields hold either a URL or a
// local file path; local files are uploaded before the request is sent.
type ProfileUpdate struct {
	FirstName                 string `json:"first_name" validate:"required"`
	LastName                  string `json:"last_name" validate:"required"`
	Email                     string `json:"email" validate:"required,email"`
	PhoneNumber               string `json:"phone_number"`
	Bio                       string `json:"bio"`
	Location                  string `json:"location"`
	ProfileImageURL           string `json:"profile_image_url,omitempty"`
	ProfileBackgroundImageURL string `json:"profile_background_image_url,omitempty"`
}

// ProfileFromUser pre-fills the settings form.
func ProfileFromUser(u User) ProfileUpdate {
	return ProfileUpdate{
		FirstName:                 u.FirstName,
		LastName:                  u.LastName,
		Email:                     u.Email,
		PhoneNumber:               u.PhoneNumber,
		Bio:                       u.Bio,
		Location:                  u.Location,
		ProfileImageURL:           u.ProfileImageURL,
		ProfileBackgroundImageURL: u.ProfileBackgroundImageURL,
	}
}
