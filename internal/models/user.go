package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // don’t expose hash
	CreatedOn    time.Time `json:"created_on"`
}

// Author is the public projection of a User embedded in post responses.
type Author struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedOn time.Time `json:"created_on"`
}

// Public returns the exposable view of the user.
func (u *User) Public() Author {
	return Author{ID: u.ID, Username: u.Username, CreatedOn: u.CreatedOn}
}

// Profile is an author together with their posts, newest first.
type Profile struct {
	Author
	Posts []Post `json:"posts"`
}
