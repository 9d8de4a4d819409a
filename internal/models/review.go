package models

import (
	"time"
)

type Review struct {
	ID        int64     `json:"id"`
	Tour      int64     `json:"tour"`
	Author    string    `json:"author_name"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewRequest struct {
	Tour    int64  `json:"tour"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title,omitempty" validate:"max=200"`
	Comment string `json:"comment" validate:"required,min=10,max=5000"`
}
