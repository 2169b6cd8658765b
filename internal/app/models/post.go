package models

import "time"

// Post is a message published inside a community
type Post struct {
	ID          string    `json:"id" db:"id"`
	CommunityID string    `json:"communityId" db:"community_id"`
	Title       string    `json:"title" db:"title"`
	Content     string    `json:"content" db:"content"`
	Author      string    `json:"author" db:"author"`
	AuthorID    string    `json:"authorId" db:"author_id"`
	ImageURL    *string   `json:"image,omitempty" db:"image_url"`
	Likes       int       `json:"likes" db:"likes"`
	Dislikes    int       `json:"dislikes" db:"dislikes"`
	Comments    []Comment `json:"comments" db:"comments"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Comment is embedded in a Post and never addressed on its own
type Comment struct {
	ID       string `json:"id"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
}
