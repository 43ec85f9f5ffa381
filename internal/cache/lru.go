package cache

// node is an entry in a shard's recency list. The list is circular with a
// sentinel root, so insertion and removal never branch on empty/edge cases.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// recency orders a shard's entries from most (front) to least (back)
// recently used. It is not safe for concurrent use.
type recency[K comparable, V any] struct {
	root node[K, V]
	len  int
}

func (r *recency[K, V]) init() {
	r.root.next = &r.root
	r.root.prev = &r.root
	r.len = 0
}

func (r *recency[K, V]) pushFront(n *node[K, V]) {
	n.prev = &r.root
	n.next = r.root.next
	r.root.next.prev = n
	r.root.next = n
	r.len++
}

func (r *recency[K, V]) remove(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev, n.next = nil, nil
	r.len--
}

func (r *recency[K, V]) touch(n *node[K, V]) {
	if r.root.next == n {
		return
	}
	r.remove(n)
	r.pushFront(n)
}

// back returns the least recently used node, or nil.
func (r *recency[K, V]) back() *node[K, V] {
	if r.len == 0 {
		return nil
	}
	return r.root.prev
}
