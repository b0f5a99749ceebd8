package model

import (
	"time"
)

type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserTask assigns a task to a user.
type UserTask struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TaskID    string    `json:"taskId"`
	CreatedAt time.Time `json:"created_at"`
}
