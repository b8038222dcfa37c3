package model

import "time"

// Project is a collaboration workspace containing tasks.
type Project struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	FetchedAt   time.Time `json:"-" db:"fetched_at"`
}

// Member is a user that belongs to a project.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}
