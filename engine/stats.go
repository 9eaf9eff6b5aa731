package engine

import (
	"context"
	"sort"

	"github.com/cppla/codeshare/models"
)

const recentPostsLimit = 5

// GetStats returns aggregate totals, a language histogram and the most recent posts.
func (e *Engine) GetStats(ctx context.Context) (*models.Stats, error) {
	snap, err := e.load(ctx, "getStats")
	if err != nil {
		return nil, err
	}
	languages := make(map[string]int)
	for _, p := range snap.Posts {
		languages[p.Language]++
	}
	recent := append(make([]models.Post, 0, len(snap.Posts)), snap.Posts...)
	sort.SliceStable(recent, func(i, j int) bool { return newer(recent[i], recent[j]) })
	if len(recent) > recentPostsLimit {
		recent = recent[:recentPostsLimit]
	}
	return &models.Stats{
		Totals:      snap.Totals(),
		Languages:   languages,
		RecentPosts: recent,
	}, nil
}

// Export returns the full snapshot with computed totals.
func (e *Engine) Export(ctx context.Context) (*models.ExportBundle, error) {
	snap, err := e.load(ctx, "exportAll")
	if err != nil {
		return nil, err
	}
	return &models.ExportBundle{
		Posts:         snap.Posts,
		Comments:      snap.Comments,
		Likes:         snap.Likes,
		Views:         snap.Views,
		LastPostID:    snap.LastPostID,
		LastCommentID: snap.LastCommentID,
		ExportedAt:    e.now(),
		Totals:        snap.Totals(),
	}, nil
}
