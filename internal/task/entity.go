package task

import (
	"slices"
	"strings"
	"time"
)

type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	IsCompleted bool      `json:"isCompleted" yaml:"is_completed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	IsCompleted *bool
}

// timestampPrecision matches what every store and the JSON encoding keep.
const timestampPrecision = time.Millisecond

// Now is the store clock: UTC, truncated to timestampPrecision.
func Now() time.Time {
	return time.Now().UTC().Truncate(timestampPrecision)
}

// NextUpdatedAt returns now, or the smallest representable instant after prev
// when the clock has not moved past it. updatedAt is strictly increasing across
// mutations of one task.
func NextUpdatedAt(prev, now time.Time) time.Time {
	if now.After(prev) {
		return now
	}
	return prev.Add(timestampPrecision)
}

// SortNewestFirst orders by CreatedAt descending, then ID descending. ULIDs
// generated in one process sort in creation order, so ties keep that order.
func SortNewestFirst(tasks []*Task) {
	slices.SortStableFunc(tasks, func(a, b *Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
}
