package engine

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/cppla/codeshare/models"
)

// ListPosts returns every post with its derived counts, newest first.
func (e *Engine) ListPosts(ctx context.Context) ([]models.PostSummary, error) {
	snap, err := e.load(ctx, "listPosts")
	if err != nil {
		return nil, err
	}
	out := make([]models.PostSummary, 0, len(snap.Posts))
	for _, p := range snap.Posts {
		out = append(out, models.PostSummary{
			Post:          p,
			Views:         len(snap.Views[p.ID]),
			Likes:         len(snap.Likes[p.ID]),
			CommentsCount: len(snap.Comments[p.ID]),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return newer(out[i].Post, out[j].Post) })
	return out, nil
}

// GetPost returns a post as seen by visitorID and records the visit. Repeat visits by
// the same visitor do not change the view count.
func (e *Engine) GetPost(ctx context.Context, id int64, visitorID string) (*models.PostDetail, error) {
	if err := required(field{"visitorId", visitorID}); err != nil {
		return nil, err
	}
	var detail *models.PostDetail
	err := e.mutate(ctx, "getPost", func(snap *models.Snapshot) (*models.Event, bool, error) {
		idx := snap.FindPost(id)
		if idx < 0 {
			return nil, false, notFound(id)
		}
		var changed bool
		snap.Views[id], changed = addVisitor(snap.Views[id], visitorID)
		p := snap.Posts[idx]
		detail = &models.PostDetail{
			Post:      p,
			Views:     len(snap.Views[id]),
			Likes:     len(snap.Likes[id]),
			Comments:  newestFirst(snap.Comments[id]),
			UserLiked: hasVisitor(snap.Likes[id], visitorID),
		}
		return nil, changed, nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// CreatePost publishes a new post. Title, code and author are required; the other
// fields fall back to their defaults.
func (e *Engine) CreatePost(ctx context.Context, in models.PostInput) (*models.Post, error) {
	in = in.Normalize()
	if err := required(field{"title", in.Title}, field{"code", in.Code}, field{"author", in.Author}); err != nil {
		return nil, err
	}
	var created models.Post
	err := e.mutate(ctx, "createPost", func(snap *models.Snapshot) (*models.Event, bool, error) {
		now := e.now()
		snap.LastPostID++
		created = models.Post{
			ID:          snap.LastPostID,
			Title:       in.Title,
			Description: in.Description,
			Author:      in.Author,
			Language:    in.Language,
			Tags:        in.Tags,
			Code:        in.Code,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		snap.Posts = append(snap.Posts, created)
		return &models.Event{Name: models.EventNewPost, Payload: created}, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePost replaces the supplied fields of a post and re-stamps UpdatedAt.
// Nil or blank fields keep their stored value.
func (e *Engine) UpdatePost(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	var updated models.Post
	err := e.mutate(ctx, "updatePost", func(snap *models.Snapshot) (*models.Event, bool, error) {
		idx := snap.FindPost(id)
		if idx < 0 {
			return nil, false, notFound(id)
		}
		p := snap.Posts[idx]
		setIfPresent(&p.Title, patch.Title)
		setIfPresent(&p.Description, patch.Description)
		setIfPresent(&p.Author, patch.Author)
		setIfPresent(&p.Language, patch.Language)
		setIfPresent(&p.Code, patch.Code)
		if tags := models.NormalizeTags(patch.Tags); len(tags) > 0 {
			p.Tags = tags
		}
		p.UpdatedAt = e.now()
		if p.UpdatedAt.Before(p.CreatedAt) {
			p.UpdatedAt = p.CreatedAt
		}
		snap.Posts[idx] = p
		updated = p
		return &models.Event{Name: models.EventUpdatePost, Payload: p}, true, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePost removes a post with its comments, likes and views.
func (e *Engine) DeletePost(ctx context.Context, id int64) error {
	return e.mutate(ctx, "deletePost", func(snap *models.Snapshot) (*models.Event, bool, error) {
		if !snap.RemovePost(id) {
			return nil, false, notFound(id)
		}
		return &models.Event{Name: models.EventDeletePost, Payload: id}, true, nil
	})
}

// ClearAll empties the board and rewinds both id counters. It returns how many posts were removed.
func (e *Engine) ClearAll(ctx context.Context) (int, error) {
	var removed int
	err := e.mutate(ctx, "clearAll", func(snap *models.Snapshot) (*models.Event, bool, error) {
		removed = len(snap.Posts)
		snap.Reset()
		return &models.Event{Name: models.EventClearAllPosts}, true, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeFileRun = regexp.MustCompile(`["\\/:*?<>|\x00-\x1f]+`)
)

// Download returns the code body of a post with a file name derived from its title
// and language.
func (e *Engine) Download(ctx context.Context, id int64) (*models.CodeFile, error) {
	snap, err := e.load(ctx, "download")
	if err != nil {
		return nil, err
	}
	idx := snap.FindPost(id)
	if idx < 0 {
		return nil, notFound(id)
	}
	p := snap.Posts[idx]
	return &models.CodeFile{
		Filename: fileBase(p.Title) + "." + models.ExtensionFor(p.Language),
		Body:     p.Code,
	}, nil
}

func fileBase(title string) string {
	base := whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_")
	base = unsafeFileRun.ReplaceAllString(base, "_")
	if base == "" {
		return "snippet"
	}
	return base
}

func setIfPresent(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}

// newer orders posts by creation time, newest first, breaking ties by id.
func newer(a, b models.Post) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
