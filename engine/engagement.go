package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/cppla/codeshare/models"
)

// AddComment appends a comment to a post. Author and text are required.
func (e *Engine) AddComment(ctx context.Context, postID int64, in models.CommentInput) (*models.Comment, error) {
	author := strings.TrimSpace(in.Author)
	text := strings.TrimSpace(in.Text)
	if err := required(field{"author", author}, field{"text", text}); err != nil {
		return nil, err
	}
	var created models.Comment
	err := e.mutate(ctx, "addComment", func(snap *models.Snapshot) (*models.Event, bool, error) {
		if snap.FindPost(postID) < 0 {
			return nil, false, notFound(postID)
		}
		snap.LastCommentID++
		created = models.Comment{
			ID:        snap.LastCommentID,
			PostID:    postID,
			Author:    author,
			Text:      text,
			VisitorID: in.VisitorID,
			CreatedAt: e.now(),
		}
		snap.Comments[postID] = append([]models.Comment{created}, snap.Comments[postID]...)
		return &models.Event{
			Name:    models.EventNewComment,
			Room:    postID,
			Payload: models.CommentEvent{PostID: postID, Comment: created},
		}, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListComments returns the comments of a post, newest first.
func (e *Engine) ListComments(ctx context.Context, postID int64) ([]models.Comment, error) {
	snap, err := e.load(ctx, "listComments")
	if err != nil {
		return nil, err
	}
	if snap.FindPost(postID) < 0 {
		return nil, notFound(postID)
	}
	return newestFirst(snap.Comments[postID]), nil
}

// ToggleLike flips visitorID's like on a post.
func (e *Engine) ToggleLike(ctx context.Context, postID int64, visitorID string) (*models.LikeResult, error) {
	if err := required(field{"visitorId", visitorID}); err != nil {
		return nil, err
	}
	var result models.LikeResult
	err := e.mutate(ctx, "toggleLike", func(snap *models.Snapshot) (*models.Event, bool, error) {
		if snap.FindPost(postID) < 0 {
			return nil, false, notFound(postID)
		}
		var removed bool
		snap.Likes[postID], removed = removeVisitor(snap.Likes[postID], visitorID)
		if !removed {
			snap.Likes[postID], _ = addVisitor(snap.Likes[postID], visitorID)
		}
		result = models.LikeResult{Liked: !removed, Likes: len(snap.Likes[postID])}
		return &models.Event{
			Name:    models.EventUpdateLikes,
			Payload: models.LikesEvent{PostID: postID, Likes: result.Likes, Liked: result.Liked},
		}, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// newestFirst returns a sorted copy of comments, latest timestamp first.
func newestFirst(comments []models.Comment) []models.Comment {
	out := append(make([]models.Comment, 0, len(comments)), comments...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func hasVisitor(set []string, visitorID string) bool {
	for _, v := range set {
		if v == visitorID {
			return true
		}
	}
	return false
}

// addVisitor adds visitorID to set unless already present.
func addVisitor(set []string, visitorID string) ([]string, bool) {
	if hasVisitor(set, visitorID) {
		return set, false
	}
	return append(set, visitorID), true
}

// removeVisitor drops visitorID from set if present.
func removeVisitor(set []string, visitorID string) ([]string, bool) {
	for i, v := range set {
		if v == visitorID {
			return append(set[:i:i], set[i+1:]...), true
		}
	}
	return set, false
}
