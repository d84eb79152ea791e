package models

// Site is an organizational location that holds assets.
type Site struct {
	ID      int64   `json:"id" db:"id"`
	Name    string  `json:"name" db:"name"`
	Address *string `json:"address" db:"address"`
}
