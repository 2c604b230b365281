package model

import "time"

// Profile is the site owner's singleton profile.
type Profile struct {
	ID          string     `db:"id" json:"id"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	Location    string     `db:"location" json:"location"`
	Bio         string     `db:"bio" json:"bio"`
	Skills      StringList `db:"skills" json:"skills"`
	GitHub      string     `db:"github" json:"github"`
	LinkedIn    string     `db:"linkedin" json:"linkedin"`
	Avatar      string     `db:"avatar" json:"avatar"`
	AvatarThumb string     `db:"avatar_thumb" json:"avatarThumb"`
	Resume      string     `db:"resume" json:"resume"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}
