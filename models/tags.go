package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// TagList accepts tags either as a JSON array or as one comma-separated string,
// the shape sent by the admin form.
type TagList []string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TagList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = list
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*t = strings.Split(raw, ",")
	return nil
}
