package models

import "time"

// Post is a published code snippet.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Language    string    `json:"language"`
	Tags        []string  `json:"tags"`
	Code        string    `json:"code"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PostInput carries the fields of a new post. Optional fields are defaulted by Normalize.
type PostInput struct {
	Title       string
	Description string
	Author      string
	Language    string
	Tags        []string
	Code        string
}

// PostPatch carries a partial update. A nil field keeps the stored value.
type PostPatch struct {
	Title       *string
	Description *string
	Author      *string
	Language    *string
	Tags        []string
	Code        *string
}

// PostSummary is a post with its derived engagement counts, as listed on the board.
type PostSummary struct {
	Post
	Views         int `json:"views"`
	Likes         int `json:"likes"`
	CommentsCount int `json:"commentsCount"`
}

// PostDetail is a single post as seen by one visitor.
type PostDetail struct {
	Post
	Views     int       `json:"views"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
	UserLiked bool      `json:"userLiked"`
}

// LikeResult is the outcome of a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// CodeFile is a post body prepared for download.
type CodeFile struct {
	Filename string
	Body     string
}
