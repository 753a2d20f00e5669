package models

// User represents a registered author. The password field holds the opaque
// credential hash and is never serialized; services clear it before returning
// a user from an authentication flow.
type User struct {
	Base
	Username  string `gorm:"uniqueIndex;size:12;not null" json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Password  string `gorm:"not null" json:"-"`
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
