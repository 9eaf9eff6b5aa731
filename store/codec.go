package store

import (
	"github.com/goccy/go-json"

	"github.com/cppla/codeshare/models"
)

// encode renders a snapshot as the persisted JSON document, stamped with version.
func encode(snap *models.Snapshot, version int64) ([]byte, error) {
	doc := *snap
	doc.Version = version
	return json.MarshalIndent(&doc, "", "  ")
}

func decode(b []byte) (*models.Snapshot, error) {
	snap := &models.Snapshot{}
	if err := json.Unmarshal(b, snap); err != nil {
		return nil, err
	}
	snap.Normalize()
	return snap, nil
}

// decodeVersion reads only the version of a persisted document.
func decodeVersion(b []byte) (int64, error) {
	var head struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return 0, err
	}
	return head.Version, nil
}
