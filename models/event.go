package models

// Realtime event names pushed to subscribers.
const (
	EventNewPost       = "newPost"
	EventUpdatePost    = "updatePost"
	EventDeletePost    = "deletePost"
	EventNewComment    = "newComment"
	EventUpdateLikes   = "updateLikes"
	EventClearAllPosts = "clearAllPosts"
)

// Event describes one committed mutation. Room, when non-zero, scopes delivery
// to subscribers viewing that post.
type Event struct {
	Name    string
	Room    int64
	Payload any
}

// CommentEvent is the payload of newComment.
type CommentEvent struct {
	PostID  int64   `json:"postId"`
	Comment Comment `json:"comment"`
}

// LikesEvent is the payload of updateLikes.
type LikesEvent struct {
	PostID int64 `json:"postId"`
	Likes  int   `json:"likes"`
	Liked  bool  `json:"liked"`
}
