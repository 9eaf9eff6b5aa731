package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/codeshare/metrics"
	"github.com/cppla/codeshare/models"
	"github.com/cppla/codeshare/store"
)

type recorder struct {
	mu     sync.Mutex
	events []models.Event
}

func (r *recorder) Publish(evt models.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

func (r *recorder) last() models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

// tickingClock advances one second per reading so timestamps are distinct.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore, *recorder) {
	t.Helper()
	s := store.NewMemoryStore()
	rec := &recorder{}
	return New(s, rec, WithClock(tickingClock())), s, rec
}

func mustCreate(t *testing.T, e *Engine, title string) *models.Post {
	t.Helper()
	p, err := e.CreatePost(context.Background(), models.PostInput{Title: title, Code: "print(1)", Author: "A"})
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }

func TestCreatePost_Defaults(t *testing.T) {
	e, _, rec := newTestEngine(t)

	p, err := e.CreatePost(context.Background(), models.PostInput{Title: "Hi", Code: "print(1)", Author: "A"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, []string{"code"}, p.Tags)
	assert.Equal(t, "javascript", p.Language)
	assert.Equal(t, models.DefaultDescription, p.Description)
	assert.True(t, p.CreatedAt.Equal(p.UpdatedAt))
	assert.Equal(t, []string{models.EventNewPost}, rec.names())
	assert.Equal(t, *p, rec.last().Payload)
}

func TestCreatePost_TrimsFields(t *testing.T) {
	e, _, _ := newTestEngine(t)

	p, err := e.CreatePost(context.Background(), models.PostInput{
		Title:    "  Sorting  ",
		Code:     "\n  sort(xs)\n",
		Author:   " Ann ",
		Language: " python ",
		Tags:     []string{" algo ", "", "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sorting", p.Title)
	assert.Equal(t, "sort(xs)", p.Code)
	assert.Equal(t, "Ann", p.Author)
	assert.Equal(t, "python", p.Language)
	assert.Equal(t, []string{"algo"}, p.Tags)
}

func TestCreatePost_KeepsMarkupCharacters(t *testing.T) {
	e, _, rec := newTestEngine(t)
	ctx := context.Background()

	p, err := e.CreatePost(ctx, models.PostInput{
		Title:       " C++ <vector> tips ",
		Description: `say "hi" & wave`,
		Code:        "v.push_back(1);",
		Author:      "Tom & Jerry",
		Tags:        []string{"a < b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "C++ <vector> tips", p.Title)
	assert.Equal(t, `say "hi" & wave`, p.Description)
	assert.Equal(t, "Tom & Jerry", p.Author)
	assert.Equal(t, []string{"a < b"}, p.Tags)

	c, err := e.AddComment(ctx, p.ID, models.CommentInput{Author: "Tom & Jerry", Text: " if a < b && c > d ", VisitorID: "v"})
	require.NoError(t, err)
	assert.Equal(t, "if a < b && c > d", c.Text)
	assert.Equal(t, "Tom & Jerry", c.Author)
	assert.Equal(t, models.CommentEvent{PostID: p.ID, Comment: *c}, rec.last().Payload)
}

func TestCreatePost_Validation(t *testing.T) {
	e, _, rec := newTestEngine(t)

	_, err := e.CreatePost(context.Background(), models.PostInput{Title: " ", Author: "A"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"title", "code"}, verr.Fields)
	assert.Empty(t, rec.names())
}

func TestCreatePost_IDsNeverReused(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	mustCreate(t, e, "one")
	second := mustCreate(t, e, "two")
	require.NoError(t, e.DeletePost(ctx, second.ID))

	third := mustCreate(t, e, "three")
	assert.Equal(t, int64(3), third.ID)
}

func TestGetPost_RecordsViewOnce(t *testing.T) {
	e, _, rec := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")

	d, err := e.GetPost(ctx, p.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Views)

	d, err = e.GetPost(ctx, p.ID, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Views)

	d, err = e.GetPost(ctx, p.ID, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, 2, d.Views)
	assert.False(t, d.UserLiked)
	assert.NotNil(t, d.Comments)

	// views are never broadcast
	assert.Equal(t, []string{models.EventNewPost}, rec.names())
}

func TestGetPost_NotFoundAndMissingVisitor(t *testing.T) {
	e, _, _ := newTestEngine(t)

	_, err := e.GetPost(context.Background(), 42, "10.0.0.1")
	assert.True(t, errors.Is(err, ErrNotFound))

	p := mustCreate(t, e, "Hi")
	_, err = e.GetPost(context.Background(), p.ID, "")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestUpdatePost_PartialFields(t *testing.T) {
	e, _, rec := newTestEngine(t)
	ctx := context.Background()
	orig, err := e.CreatePost(ctx, models.PostInput{
		Title: "Old", Code: "x = 1", Author: "A", Description: "desc", Language: "python", Tags: []string{"a", "b"},
	})
	require.NoError(t, err)

	updated, err := e.UpdatePost(ctx, orig.ID, models.PostPatch{Title: strPtr("New")})
	require.NoError(t, err)

	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, orig.Description, updated.Description)
	assert.Equal(t, orig.Author, updated.Author)
	assert.Equal(t, orig.Language, updated.Language)
	assert.Equal(t, orig.Tags, updated.Tags)
	assert.Equal(t, orig.Code, updated.Code)
	assert.True(t, updated.CreatedAt.Equal(orig.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(orig.UpdatedAt))
	assert.Equal(t, models.EventUpdatePost, rec.last().Name)

	list, err := e.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Title)
}

func TestUpdatePost_BlankFieldsKeepValues(t *testing.T) {
	e, _, _ := newTestEngine(t)
	orig := mustCreate(t, e, "Keep")

	updated, err := e.UpdatePost(context.Background(), orig.ID, models.PostPatch{
		Title: strPtr("   "),
		Tags:  []string{" ", ""},
		Code:  strPtr("print(2)"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Keep", updated.Title)
	assert.Equal(t, orig.Tags, updated.Tags)
	assert.Equal(t, "print(2)", updated.Code)
}

func TestUpdatePost_NotFound(t *testing.T) {
	e, _, rec := newTestEngine(t)
	_, err := e.UpdatePost(context.Background(), 9, models.PostPatch{Title: strPtr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, rec.names())
}

func TestDeletePost_Cascades(t *testing.T) {
	e, s, rec := newTestEngine(t)
	ctx := context.Background()
	keep := mustCreate(t, e, "keep")
	gone := mustCreate(t, e, "gone")

	_, err := e.AddComment(ctx, gone.ID, models.CommentInput{Author: "B", Text: "hi", VisitorID: "v1"})
	require.NoError(t, err)
	_, err = e.ToggleLike(ctx, gone.ID, "v1")
	require.NoError(t, err)
	_, err = e.GetPost(ctx, gone.ID, "v1")
	require.NoError(t, err)
	_, err = e.AddComment(ctx, keep.ID, models.CommentInput{Author: "B", Text: "stay", VisitorID: "v1"})
	require.NoError(t, err)

	require.NoError(t, e.DeletePost(ctx, gone.ID))
	evt := rec.last()
	assert.Equal(t, models.EventDeletePost, evt.Name)
	assert.Equal(t, gone.ID, evt.Payload)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotContains(t, snap.Comments, gone.ID)
	assert.NotContains(t, snap.Likes, gone.ID)
	assert.NotContains(t, snap.Views, gone.ID)
	assert.Len(t, snap.Comments[keep.ID], 1)

	_, err = e.GetPost(ctx, gone.ID, "v1")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(e.DeletePost(ctx, gone.ID), ErrNotFound))
}

func TestToggleLike_Scenario(t *testing.T) {
	e, _, rec := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")

	r, err := e.ToggleLike(ctx, p.ID, "visitor-a")
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: true, Likes: 1}, *r)

	r, err = e.ToggleLike(ctx, p.ID, "visitor-b")
	require.NoError(t, err)
	assert.Equal(t, 2, r.Likes)

	r, err = e.ToggleLike(ctx, p.ID, "visitor-a")
	require.NoError(t, err)
	assert.False(t, r.Liked)
	assert.Equal(t, 1, r.Likes)

	evt := rec.last()
	assert.Equal(t, models.EventUpdateLikes, evt.Name)
	assert.Zero(t, evt.Room)
	assert.Equal(t, models.LikesEvent{PostID: p.ID, Likes: 1, Liked: false}, evt.Payload)

	d, err := e.GetPost(ctx, p.ID, "visitor-b")
	require.NoError(t, err)
	assert.True(t, d.UserLiked)
	d, err = e.GetPost(ctx, p.ID, "visitor-a")
	require.NoError(t, err)
	assert.False(t, d.UserLiked)
}

func TestToggleLike_TwiceRestoresState(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")
	_, err := e.ToggleLike(ctx, p.ID, "other")
	require.NoError(t, err)

	_, err = e.ToggleLike(ctx, p.ID, "me")
	require.NoError(t, err)
	r, err := e.ToggleLike(ctx, p.ID, "me")
	require.NoError(t, err)
	assert.Equal(t, models.LikeResult{Liked: false, Likes: 1}, *r)

	_, err = e.ToggleLike(ctx, 99, "me")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAddComment(t *testing.T) {
	e, _, rec := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")

	c1, err := e.AddComment(ctx, p.ID, models.CommentInput{Author: " B ", Text: " first ", VisitorID: "v1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c1.ID)
	assert.Equal(t, "B", c1.Author)
	assert.Equal(t, "first", c1.Text)
	assert.Equal(t, "v1", c1.VisitorID)

	evt := rec.last()
	assert.Equal(t, models.EventNewComment, evt.Name)
	assert.Equal(t, p.ID, evt.Room)
	assert.Equal(t, models.CommentEvent{PostID: p.ID, Comment: *c1}, evt.Payload)

	c2, err := e.AddComment(ctx, p.ID, models.CommentInput{Author: "C", Text: "second"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), c2.ID)

	comments, err := e.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Text)
	assert.Equal(t, "first", comments[1].Text)

	_, err = e.AddComment(ctx, p.ID, models.CommentInput{Author: "C", Text: "  "})
	assert.True(t, errors.Is(err, ErrValidation))
	_, err = e.AddComment(ctx, 77, models.CommentInput{Author: "C", Text: "x"})
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = e.ListComments(ctx, 77)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestComments_NewestFirstRegardlessOfInsertion(t *testing.T) {
	e, s, _ := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	snap, err := s.Load(ctx)
	require.NoError(t, err)
	snap.Comments[p.ID] = []models.Comment{
		{ID: 1, PostID: p.ID, Text: "middle", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 2, PostID: p.ID, Text: "oldest", CreatedAt: base},
		{ID: 3, PostID: p.ID, Text: "newest", CreatedAt: base.Add(5 * time.Minute)},
	}
	require.NoError(t, s.Save(ctx, snap))

	comments, err := e.ListComments(ctx, p.ID)
	require.NoError(t, err)
	texts := []string{comments[0].Text, comments[1].Text, comments[2].Text}
	assert.Equal(t, []string{"newest", "middle", "oldest"}, texts)

	d, err := e.GetPost(ctx, p.ID, "v")
	require.NoError(t, err)
	assert.Equal(t, "newest", d.Comments[0].Text)
}

func TestListPosts_NewestFirstWithCounts(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	first := mustCreate(t, e, "first")
	second := mustCreate(t, e, "second")

	_, err := e.AddComment(ctx, first.ID, models.CommentInput{Author: "x", Text: "y"})
	require.NoError(t, err)
	_, err = e.ToggleLike(ctx, first.ID, "v1")
	require.NoError(t, err)
	_, err = e.GetPost(ctx, first.ID, "v1")
	require.NoError(t, err)
	_, err = e.GetPost(ctx, first.ID, "v2")
	require.NoError(t, err)

	list, err := e.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 2, list[1].Views)
	assert.Equal(t, 1, list[1].Likes)
	assert.Equal(t, 1, list[1].CommentsCount)
}

func TestClearAll_Scenario(t *testing.T) {
	e, s, rec := newTestEngine(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		p := mustCreate(t, e, fmt.Sprintf("post %d", i))
		_, err := e.AddComment(ctx, p.ID, models.CommentInput{Author: "a", Text: "b"})
		require.NoError(t, err)
		_, err = e.ToggleLike(ctx, p.ID, "v")
		require.NoError(t, err)
	}
	before := len(rec.names())

	removed, err := e.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Posts)
	assert.Empty(t, snap.Comments)
	assert.Empty(t, snap.Likes)
	assert.Empty(t, snap.Views)
	assert.Zero(t, snap.LastPostID)
	assert.Zero(t, snap.LastCommentID)

	after := rec.names()[before:]
	assert.Equal(t, []string{models.EventClearAllPosts}, after)

	p := mustCreate(t, e, "fresh")
	assert.Equal(t, int64(1), p.ID)
}

func TestGetStats(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	langs := []string{"go", "go", "python", "", "go", "rust"}
	var last *models.Post
	for i, l := range langs {
		p, err := e.CreatePost(ctx, models.PostInput{Title: fmt.Sprintf("p%d", i), Code: "c", Author: "a", Language: l})
		require.NoError(t, err)
		last = p
	}
	_, err := e.ToggleLike(ctx, last.ID, "v")
	require.NoError(t, err)
	_, err = e.AddComment(ctx, last.ID, models.CommentInput{Author: "a", Text: "b"})
	require.NoError(t, err)
	_, err = e.GetPost(ctx, last.ID, "v")
	require.NoError(t, err)

	stats, err := e.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Posts)
	assert.Equal(t, 1, stats.Comments)
	assert.Equal(t, 1, stats.Likes)
	assert.Equal(t, 1, stats.Views)
	assert.Equal(t, map[string]int{"go": 3, "python": 1, "javascript": 1, "rust": 1}, stats.Languages)
	require.Len(t, stats.RecentPosts, 5)
	assert.Equal(t, last.ID, stats.RecentPosts[0].ID)
	assert.Equal(t, int64(2), stats.RecentPosts[4].ID)
}

func TestExport(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")
	_, err := e.AddComment(ctx, p.ID, models.CommentInput{Author: "a", Text: "b"})
	require.NoError(t, err)
	_, err = e.GetPost(ctx, p.ID, "v")
	require.NoError(t, err)

	bundle, err := e.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, bundle.Posts, 1)
	assert.Equal(t, 1, bundle.Totals.Posts)
	assert.Equal(t, 1, bundle.Totals.Comments)
	assert.Equal(t, 1, bundle.Totals.Views)
	assert.Equal(t, 0, bundle.Totals.Likes)
	assert.Equal(t, int64(1), bundle.LastCommentID)
	assert.False(t, bundle.ExportedAt.IsZero())
}

func TestDownload(t *testing.T) {
	e, _, _ := newTestEngine(t)
	ctx := context.Background()

	py, err := e.CreatePost(ctx, models.PostInput{Title: "Hello   big world", Code: "print(1)", Author: "a", Language: "python"})
	require.NoError(t, err)
	file, err := e.Download(ctx, py.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello_big_world.py", file.Filename)
	assert.Equal(t, "print(1)", file.Body)

	other, err := e.CreatePost(ctx, models.PostInput{Title: `a "b"/c`, Code: "x", Author: "a", Language: "brainfuck"})
	require.NoError(t, err)
	file, err = e.Download(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "a__b_c.txt", file.Filename)

	amp, err := e.CreatePost(ctx, models.PostInput{Title: "Tom & Jerry", Code: "if (a < b && c) {}", Author: "a"})
	require.NoError(t, err)
	file, err = e.Download(ctx, amp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tom_&_Jerry.js", file.Filename)
	assert.Equal(t, "if (a < b && c) {}", file.Body)

	_, err = e.Download(ctx, 404)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFailedSave_NoEventNoEffect(t *testing.T) {
	e, s, rec := newTestEngine(t)
	ctx := context.Background()
	p := mustCreate(t, e, "Hi")
	events := len(rec.names())

	s.FailSaves(errors.New("disk full"))

	_, err := e.CreatePost(ctx, models.PostInput{Title: "x", Code: "y", Author: "z"})
	assert.True(t, errors.Is(err, ErrPersistence))
	_, err = e.ToggleLike(ctx, p.ID, "v")
	assert.True(t, errors.Is(err, ErrPersistence))
	_, err = e.ClearAll(ctx)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.Len(t, rec.names(), events)

	s.FailSaves(nil)
	list, err := e.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Zero(t, list[0].Likes)
}

// interleavingStore lets another writer save right before the first Save goes through.
type interleavingStore struct {
	store.Store
	once       sync.Once
	beforeSave func()
}

func (s *interleavingStore) Save(ctx context.Context, snap *models.Snapshot) error {
	s.once.Do(s.beforeSave)
	return s.Store.Save(ctx, snap)
}

func TestUpdatePost_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	inner := store.NewMemoryStore()
	other := New(inner, nil, WithClock(tickingClock()))
	p, err := other.CreatePost(ctx, models.PostInput{Title: "t", Code: "c", Author: "a"})
	require.NoError(t, err)

	rec := &recorder{}
	wrapped := &interleavingStore{Store: inner, beforeSave: func() {
		_, err := other.UpdatePost(ctx, p.ID, models.PostPatch{Description: strPtr("from other")})
		require.NoError(t, err)
	}}
	e := New(wrapped, rec, WithClock(tickingClock()))

	updated, err := e.UpdatePost(ctx, p.ID, models.PostPatch{Title: strPtr("from me")})
	require.NoError(t, err)
	assert.Equal(t, "from me", updated.Title)
	assert.Equal(t, "from other", updated.Description)
	assert.Len(t, rec.names(), 1, "the retried mutation publishes once")
}

type conflictingStore struct{ store.Store }

func (conflictingStore) Save(context.Context, *models.Snapshot) error { return store.ErrConflict }

func TestMutate_ConflictRetriesExhausted(t *testing.T) {
	rec := &recorder{}
	e := New(conflictingStore{store.NewMemoryStore()}, rec, WithMaxAttempts(3))

	_, err := e.CreatePost(context.Background(), models.PostInput{Title: "t", Code: "c", Author: "a"})
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, store.ErrConflict))
	assert.Empty(t, rec.names())
}

type brokenStore struct{ store.Store }

func (brokenStore) Load(context.Context) (*models.Snapshot, error) {
	return nil, errors.New("read failed")
}

func TestLoadFailure(t *testing.T) {
	e := New(brokenStore{store.NewMemoryStore()}, nil)
	_, err := e.ListPosts(context.Background())
	assert.True(t, errors.Is(err, ErrPersistence))
	_, err = e.GetPost(context.Background(), 1, "v")
	assert.True(t, errors.Is(err, ErrPersistence))
}

func TestLoadFailure_ReadsAreNotCountedAsMutations(t *testing.T) {
	e := New(brokenStore{store.NewMemoryStore()}, nil)
	mutationsBefore := testutil.ToFloat64(metrics.Mutations.WithLabelValues("getStats", metrics.OutcomeFailed))
	readsBefore := testutil.ToFloat64(metrics.StoreReadFailures.WithLabelValues("getStats"))

	_, err := e.GetStats(context.Background())
	require.True(t, errors.Is(err, ErrPersistence))

	assert.Equal(t, mutationsBefore, testutil.ToFloat64(metrics.Mutations.WithLabelValues("getStats", metrics.OutcomeFailed)))
	assert.Equal(t, readsBefore+1, testutil.ToFloat64(metrics.StoreReadFailures.WithLabelValues("getStats")))
}

func TestToggleLike_ConcurrentVisitors(t *testing.T) {
	s := store.NewMemoryStore()
	e := New(s, nil, WithMaxAttempts(1000))
	ctx := context.Background()
	p, err := e.CreatePost(ctx, models.PostInput{Title: "t", Code: "c", Author: "a"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := e.ToggleLike(ctx, p.ID, fmt.Sprintf("visitor-%d", i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	d, err := e.GetPost(ctx, p.ID, "reader")
	require.NoError(t, err)
	assert.Equal(t, 20, d.Likes)
}
