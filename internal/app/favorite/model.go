package favorite

type Favorite struct {
	UserID  string `gorm:"primaryKey;size:255"`
	TopicID string `gorm:"primaryKey;size:255"`
}

type ToggleRequest struct {
	TopicID string `json:"topicId" binding:"required"`
}

type ToggleResponse struct {
	Success    bool `json:"success"`
	IsFavorite bool `json:"isFavorite"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
