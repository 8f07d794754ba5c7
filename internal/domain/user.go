package domain

import "time"

// User represents a registered Game Market account.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Age          *int       `json:"age,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ShortInfo projects the account onto the fields a recipient picker needs.
func (u User) ShortInfo() UserShortInfo {
	return UserShortInfo{ID: u.ID, Name: u.Name, Age: u.Age}
}

// UserShortInfo is a candidate recipient. A nil Age means the age is unknown.
type UserShortInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  *int   `json:"age,omitempty"`
}

func IntPtr(v int) *int {
	return &v
}
