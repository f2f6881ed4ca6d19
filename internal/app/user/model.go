package user

import "time"

type Level string

const (
	LevelTrainee   Level = "trainee"
	LevelMember    Level = "member"
	LevelExpert    Level = "expert"
	LevelModerator Level = "moderator"
	LevelAdmin     Level = "admin"
)

type User struct {
	ID              string  `gorm:"primaryKey"`
	Username        string  `gorm:"size:50;not null;unique"`
	Email           string  `gorm:"size:255;not null;unique"`
	PasswordHash    string  `gorm:"type:text;not null"`
	AvatarURL       *string `gorm:"type:text"`
	Level           Level   `gorm:"size:20;not null;default:'trainee'"`
	Reputation      int     `gorm:"not null;default:0"`
	LoginCount      int     `gorm:"not null;default:0"`
	LastLoginDate   *string `gorm:"type:date"`
	InvitedByUserID *string `gorm:"size:255"`
	IsVerified      bool    `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Profile struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Avatar     *string `json:"avatar,omitempty"`
	Level      Level   `json:"level"`
	Reputation int     `json:"reputation"`
	LoginCount int     `json:"loginCount"`
	CreatedAt  int64   `json:"createdAt"`
}

type AvatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Avatar:     u.AvatarURL,
		Level:      u.Level,
		Reputation: u.Reputation,
		LoginCount: u.LoginCount,
		CreatedAt:  u.CreatedAt.UnixMilli(),
	}
}
