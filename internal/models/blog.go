package models

import (
	"time"
)

type Post struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content,omitempty"`
	Image       string     `json:"featured_image,omitempty"`
	Author      string     `json:"author_name,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
	ReadingTime int        `json:"reading_time"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type Category struct {
	ID         int64  `json:"id"`
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	PostsCount int    `json:"posts_count"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type PostFilter struct {
	Category string
	Tag      string
	Search   string
	Page     int
}
