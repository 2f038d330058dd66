package dupescan

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// groupList wraps the generic zero-copy skiplist to keep duplicate groups
// in deterministic key order, with a per-group context separating reported
// groups from containment-suppressed ones.
type groupList struct {
	skiplist *zcsl.ZeroCopySkiplist[DuplicateGroup, string, string]
}

// newGroupList creates a group list keyed by each group's smallest member path
func newGroupList(maxLevels int) *groupList {
	if maxLevels < 8 {
		maxLevels = 16 // reasonable default for report-sized collections
	}

	getKeyFromItem := func(group *DuplicateGroup) string {
		return group.sortKey()
	}

	// Approximate rendered size, used only as a serialization hint
	getItemSize := func(group *DuplicateGroup) int {
		size := len(group.Fullsum)
		for _, member := range group.Members {
			size += len(member.Path)
		}
		return size
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	skiplist := zcsl.MakeZeroCopySkiplist[DuplicateGroup, string, string](
		maxLevels,
		getKeyFromItem,
		getItemSize,
		cmpKey,
	)

	return &groupList{skiplist: skiplist}
}

// Insert adds a group under the given context
func (gl *groupList) Insert(group *DuplicateGroup, context string) bool {
	return gl.skiplist.Insert(group, context)
}

// Find returns the group stored under the given key and its context
func (gl *groupList) Find(key string) (*DuplicateGroup, string) {
	itemPtr, context := gl.skiplist.Find(key)
	if itemPtr != nil {
		return itemPtr.Item(), context
	}
	return nil, ""
}

// ForEach walks all groups in key order; the callback returns false to stop
func (gl *groupList) ForEach(callback func(*DuplicateGroup, string) bool) {
	for current := gl.skiplist.First(); current != nil; current = current.Next() {
		if !callback(current.Item(), current.Context()) {
			break
		}
	}
}

// ForEachContext walks only the groups carrying the given context
func (gl *groupList) ForEachContext(context string, callback func(*DuplicateGroup) bool) {
	gl.ForEach(func(group *DuplicateGroup, groupContext string) bool {
		if groupContext == context {
			return callback(group)
		}
		return true
	})
}

// Length returns the number of stored groups
func (gl *groupList) Length() int {
	return gl.skiplist.Length()
}

// IsEmpty returns true if no groups are stored
func (gl *groupList) IsEmpty() bool {
	return gl.skiplist.IsEmpty()
}
