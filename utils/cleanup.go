package utils

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// StartUploadCleaner launches a background goroutine that periodically deletes uploaded
// files older than ttl. It is best-effort, logs failures and stops when ctx is done.
func StartUploadCleaner(ctx context.Context, dir string, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := RemoveExpiredUploads(dir, time.Now().Add(-ttl)); n > 0 {
					Sugar.Infof("upload cleaner removed %d expired files", n)
				}
			}
		}
	}()
}

// RemoveExpiredUploads deletes regular files under dir last modified before cutoff
// and returns how many were removed.
func RemoveExpiredUploads(dir string, cutoff time.Time) int {
	removed := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			Sugar.Warnf("upload cleaner remove %s failed: %v", path, err)
			return nil
		}
		removed++
		return nil
	})
	return removed
}
