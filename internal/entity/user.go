package entity

import (
	"time"
)

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:20;uniqueIndex;not null" json:"name"`
}

const RoleUser = "ROLE_USER"

// User identity (username, email, password hash) is owned by the external auth
// service; this backend only edits the profile fields.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:100;uniqueIndex;not null" json:"-"`
	PasswordHash   string    `gorm:"column:password;size:120;not null" json:"-"`
	Bio            *string   `gorm:"size:255" json:"bio"`
	ProfilePicture *string   `gorm:"size:255" json:"profilePicture"`
	JoinDate       time.Time `gorm:"autoCreateTime" json:"joinDate"`
	Roles          []Role    `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"-"`
}

func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
