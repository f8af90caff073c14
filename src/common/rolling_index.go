package common

import "strconv"

// RollingIndex holds the most recent items of a gapless sequence indexed from
// 1. It keeps up to 2*size items; when full it drops the oldest size items at
// once. A size of zero or less keeps everything.
type RollingIndex[T any] struct {
	name      string
	size      int
	lastIndex uint64 // 0 while empty
	items     []T
}

// NewRollingIndex ...
func NewRollingIndex[T any](name string, size int) *RollingIndex[T] {
	capacity := 0
	if size > 0 {
		capacity = 2 * size
	}
	return &RollingIndex[T]{
		name:  name,
		size:  size,
		items: make([]T, 0, capacity),
	}
}

// LastIndex returns the index of the newest item, 0 if nothing was ever added.
func (r *RollingIndex[T]) LastIndex() uint64 {
	return r.lastIndex
}

// oldest is the index of the oldest cached item; lastIndex+1 when empty.
func (r *RollingIndex[T]) oldest() uint64 {
	return r.lastIndex + 1 - uint64(len(r.items))
}

// Get returns the items following skipIndex, oldest first.
func (r *RollingIndex[T]) Get(skipIndex uint64) ([]T, error) {
	if skipIndex >= r.lastIndex {
		return []T{}, nil
	}

	oldest := r.oldest()
	if skipIndex+1 < oldest {
		return []T{}, NewStoreErr(r.name, TooLate, strconv.FormatUint(skipIndex, 10))
	}

	start := skipIndex + 1 - oldest
	res := make([]T, len(r.items)-int(start))
	copy(res, r.items[start:])

	return res, nil
}

// GetItem ...
func (r *RollingIndex[T]) GetItem(index uint64) (T, error) {
	var zero T

	if index == 0 || index > r.lastIndex {
		return zero, NewStoreErr(r.name, KeyNotFound, strconv.FormatUint(index, 10))
	}

	oldest := r.oldest()
	if index < oldest {
		return zero, NewStoreErr(r.name, TooLate, strconv.FormatUint(index, 10))
	}

	return r.items[index-oldest], nil
}

// Set adds the item following the last one, or replaces a cached item.
func (r *RollingIndex[T]) Set(item T, index uint64) error {
	//only allow setting items with index <= lastIndex + 1 so we may assume
	//there are no gaps between items
	if index > r.lastIndex+1 {
		return NewStoreErr(r.name, SkippedIndex, strconv.FormatUint(index, 10))
	}

	if index == r.lastIndex+1 {
		if r.size > 0 && len(r.items) >= 2*r.size {
			r.Roll()
		}
		r.items = append(r.items, item)
		r.lastIndex = index
		return nil
	}

	oldest := r.oldest()
	if index < oldest || index == 0 {
		return NewStoreErr(r.name, TooLate, strconv.FormatUint(index, 10))
	}

	r.items[index-oldest] = item

	return nil
}

// Append adds item after the last one and returns its index.
func (r *RollingIndex[T]) Append(item T) uint64 {
	index := r.lastIndex + 1
	// cannot fail: index is exactly lastIndex+1
	_ = r.Set(item, index)
	return index
}

// Roll drops the oldest size items.
func (r *RollingIndex[T]) Roll() {
	if r.size <= 0 || len(r.items) < r.size {
		return
	}
	newList := make([]T, 0, 2*r.size)
	newList = append(newList, r.items[r.size:]...)
	r.items = newList
}
