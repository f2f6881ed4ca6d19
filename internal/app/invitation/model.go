package invitation

import "time"

type InvitationCode struct {
	Code            string `gorm:"primaryKey;size:32"`
	CreatedByUserID string `gorm:"size:255;not null;index"`
	CreatedAt       time.Time
	ExpiresAt       time.Time  `gorm:"not null"`
	IsUsed          bool       `gorm:"not null;default:false"`
	UsedByUserID    *string    `gorm:"size:255"`
	UsedAt          *time.Time
}

func (InvitationCode) TableName() string {
	return "invitation_codes"
}

type GenerateResponse struct {
	Code        string    `json:"code"`
	ExpiresAt   time.Time `json:"expiresAt"`
	ActiveCodes int       `json:"activeCodes"`
	MaxCodes    int       `json:"maxCodes"`
}

type ValidateRequest struct {
	Code string `json:"code" binding:"required"`
}

// Validate failure reasons. Callers distinguish an already-used code
// (a conflict) from a code that never was or no longer is valid.
const (
	ReasonNotFound = "not_found"
	ReasonUsed     = "already_used"
	ReasonExpired  = "expired"
)

type ValidateResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
	Error  string `json:"error,omitempty"`
}

// CodeInfo is one entry of the owner's code listing, joined with the
// redeemer's username when the code has been used.
type CodeInfo struct {
	Code           string     `json:"code"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	Used           bool       `json:"used"`
	UsedByUsername *string    `json:"used_by_username,omitempty"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
}

type ListResponse struct {
	Codes []CodeInfo `json:"codes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
