package models

import "time"

// Comment represents a visitor reply to a post.
type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"postId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	VisitorID string    `json:"visitorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentInput carries a new comment.
type CommentInput struct {
	Author    string
	Text      string
	VisitorID string
}
