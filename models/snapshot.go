package models

import "time"

// Snapshot is the entire persisted state of the board. It is loaded, mutated and saved as one unit.
type Snapshot struct {
	Posts         []Post              `json:"posts"`
	Comments      map[int64][]Comment `json:"comments"`
	Likes         map[int64][]string  `json:"likes"`
	Views         map[int64][]string  `json:"views"`
	LastPostID    int64               `json:"lastPostId"`
	LastCommentID int64               `json:"lastCommentId"`
	// Version is the optimistic concurrency token; stores bump it on every save.
	Version int64 `json:"version"`
}

// NewSnapshot returns an empty snapshot with counters at zero.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.ensureMaps()
	s.Posts = []Post{}
	return s
}

// Normalize replaces nil collections left by decoding with empty ones.
func (s *Snapshot) Normalize() {
	if s.Posts == nil {
		s.Posts = []Post{}
	}
	s.ensureMaps()
}

func (s *Snapshot) ensureMaps() {
	if s.Comments == nil {
		s.Comments = map[int64][]Comment{}
	}
	if s.Likes == nil {
		s.Likes = map[int64][]string{}
	}
	if s.Views == nil {
		s.Views = map[int64][]string{}
	}
}

// Reset empties the snapshot and rewinds both counters. The version is kept.
func (s *Snapshot) Reset() {
	version := s.Version
	*s = *NewSnapshot()
	s.Version = version
}

// FindPost returns the index of the post with the given id, or -1.
func (s *Snapshot) FindPost(id int64) int {
	for i := range s.Posts {
		if s.Posts[i].ID == id {
			return i
		}
	}
	return -1
}

// RemovePost deletes a post together with its comments, likes and views.
func (s *Snapshot) RemovePost(id int64) bool {
	idx := s.FindPost(id)
	if idx < 0 {
		return false
	}
	s.Posts = append(s.Posts[:idx], s.Posts[idx+1:]...)
	delete(s.Comments, id)
	delete(s.Likes, id)
	delete(s.Views, id)
	return true
}

// Totals sums comments, likes and views across all posts.
func (s *Snapshot) Totals() Totals {
	t := Totals{Posts: len(s.Posts)}
	for _, c := range s.Comments {
		t.Comments += len(c)
	}
	for _, l := range s.Likes {
		t.Likes += len(l)
	}
	for _, v := range s.Views {
		t.Views += len(v)
	}
	return t
}

// Clone returns a deep copy so a failed save never leaks a half-applied mutation.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Posts:         make([]Post, len(s.Posts)),
		Comments:      make(map[int64][]Comment, len(s.Comments)),
		Likes:         make(map[int64][]string, len(s.Likes)),
		Views:         make(map[int64][]string, len(s.Views)),
		LastPostID:    s.LastPostID,
		LastCommentID: s.LastCommentID,
		Version:       s.Version,
	}
	for i, p := range s.Posts {
		p.Tags = append([]string(nil), p.Tags...)
		out.Posts[i] = p
	}
	for id, c := range s.Comments {
		out.Comments[id] = append([]Comment(nil), c...)
	}
	for id, l := range s.Likes {
		out.Likes[id] = append([]string(nil), l...)
	}
	for id, v := range s.Views {
		out.Views[id] = append([]string(nil), v...)
	}
	return out
}

// Totals are the aggregate engagement counts of a snapshot.
type Totals struct {
	Posts    int `json:"totalPosts"`
	Comments int `json:"totalComments"`
	Likes    int `json:"totalLikes"`
	Views    int `json:"totalViews"`
}

// Stats is the public board overview.
type Stats struct {
	Totals
	Languages   map[string]int `json:"mostPopularLanguage"`
	RecentPosts []Post         `json:"recentPosts"`
}

// ExportBundle is the full snapshot plus computed totals, offered as a download.
type ExportBundle struct {
	Posts         []Post              `json:"posts"`
	Comments      map[int64][]Comment `json:"comments"`
	Likes         map[int64][]string  `json:"likes"`
	Views         map[int64][]string  `json:"views"`
	LastPostID    int64               `json:"lastPostId"`
	LastCommentID int64               `json:"lastCommentId"`
	ExportedAt    time.Time           `json:"exportedAt"`
	Totals
}
