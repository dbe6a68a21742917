package ranking

import "slices"

// bucket holds the users sharing one score, kept sorted by user id so that
// every read enumerates ties in ascending lexicographic order.
type bucket struct {
	users []string
}

func (b *bucket) add(userID string) {
	i, found := slices.BinarySearch(b.users, userID)
	if found {
		return
	}
	b.users = slices.Insert(b.users, i, userID)
}

func (b *bucket) remove(userID string) bool {
	i, found := slices.BinarySearch(b.users, userID)
	if !found {
		return false
	}
	b.users = slices.Delete(b.users, i, i+1)
	return true
}

func (b *bucket) empty() bool { return len(b.users) == 0 }

func (b *bucket) snapshot() []string { return slices.Clone(b.users) }
