package board

import "time"

// BoardRequirement holds the optional posting-eligibility thresholds for a
// category. A category without a row is unrestricted.
type BoardRequirement struct {
	BoardCategory string  `gorm:"primaryKey;size:50"`
	MinLevel      *string `gorm:"size:20"`
	MinReputation *int
	MinLoginCount *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (BoardRequirement) TableName() string {
	return "board_requirements"
}

type CheckAccessRequest struct {
	Category string `json:"category" binding:"required"`
}

// MissingRequirement reports one failed threshold with the numbers the UI
// needs to render a precise message.
type MissingRequirement struct {
	Type     string      `json:"type"`
	Required interface{} `json:"required"`
	Current  interface{} `json:"current"`
}

type AccessResult struct {
	CanAccess           bool                 `json:"canAccess"`
	MissingRequirements []MissingRequirement `json:"missingRequirements,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
