package models

import "time"

// Post is a blog entry joined with its author's username for display.
type Post struct {
	ID         int64     `db:"id" json:"id"`
	Title      string    `db:"title" json:"title"`
	Body       string    `db:"body" json:"body"`
	AuthorID   int64     `db:"author_id" json:"author_id"`
	AuthorName string    `db:"author_name" json:"author_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// PostRequest is the JSON body for creating or updating a post.
type PostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
