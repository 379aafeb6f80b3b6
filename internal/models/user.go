package models

// User is the authenticated account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// Token is returned by the login endpoint. Only AccessToken is kept.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // "bearer"
}

// Favorite links a user to an event they saved.
type Favorite struct {
	ID      int `json:"id"`
	UserID  int `json:"user_id"`
	EventID int `json:"event_id"`
}

// Schedule links a user to an event they plan to attend.
type Schedule struct {
	ID       int  `json:"id"`
	UserID   int  `json:"user_id"`
	EventID  int  `json:"event_id"`
	Reminder bool `json:"reminder"`
}
