package models

// User represents a user in the system
type User struct {
	Username  string `json:"username" db:"username"`
	Name      string `json:"name" db:"name"`
	AvatarURL string `json:"avatar_url" db:"avatar_url"`
}

// UserCSV represents a user record from the CSV seed file
type UserCSV struct {
	Username  string `csv:"username"`
	Name      string `csv:"name"`
	AvatarURL string `csv:"avatar_url"`
}
