package models

import (
	"time"
)

type WishlistItem struct {
	ID      int64     `json:"id"`
	Tour    Tour      `json:"tour"`
	AddedAt time.Time `json:"created_at"`
}
