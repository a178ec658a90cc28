package nft

import "sort"

// index is an ordered set of token ids sorted by an order key, ties broken
// by id. It never owns token state, it only mirrors it.
type index struct {
	ids  []uint64
	keys map[uint64]uint64
}

func newIndex() *index {
	return &index{keys: make(map[uint64]uint64)}
}

func (ix *index) search(key, id uint64) int {
	return sort.Search(len(ix.ids), func(i int) bool {
		k := ix.keys[ix.ids[i]]
		return k > key || (k == key && ix.ids[i] >= id)
	})
}

func (ix *index) insert(id, key uint64) {
	if _, ok := ix.keys[id]; ok {
		panic(id)
	}
	ix.keys[id] = key
	i := ix.search(key, id)
	ix.ids = append(ix.ids, 0)
	copy(ix.ids[i+1:], ix.ids[i:])
	ix.ids[i] = id
}

func (ix *index) remove(id uint64) {
	key, ok := ix.keys[id]
	if !ok {
		panic(id)
	}
	i := ix.search(key, id)
	if i >= len(ix.ids) || ix.ids[i] != id {
		panic(id)
	}
	ix.ids = append(ix.ids[:i], ix.ids[i+1:]...)
	delete(ix.keys, id)
}

func (ix *index) len() int {
	return len(ix.ids)
}

func (ix *index) at(i int) uint64 {
	return ix.ids[i]
}

func (ix *index) list() []uint64 {
	ids := make([]uint64, len(ix.ids))
	copy(ids, ix.ids)
	return ids
}
