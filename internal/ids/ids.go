package ids

import "github.com/segmentio/ksuid"

// New returns a k-sortable unique ID. Used for gateway session IDs so that
// session keys in redis sort by creation time.
func New() string {
	return ksuid.New().String()
}
