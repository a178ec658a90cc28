package nft

import (
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

// TotalSupply counts the live tokens, it equals the mint count until a burn.
func (s *State) TotalSupply() uint64 {
	return uint64(s.live.len())
}

func (s *State) TokenByIndex(i uint64) (uint64, error) {
	if i >= uint64(s.live.len()) {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "index %d of %d", i, s.live.len())
	}
	return s.live.at(int(i)), nil
}

func (s *State) TokenOfOwnerByIndex(owner uuid.UUID, i uint64) (uint64, error) {
	ix := s.owned[owner]
	if ix == nil || i >= uint64(ix.len()) {
		return 0, errors.Wrapf(ErrIndexOutOfRange, "index %d of %s", i, owner)
	}
	return ix.at(int(i)), nil
}

func (s *State) BalanceOf(owner uuid.UUID) uint64 {
	ix := s.owned[owner]
	if ix == nil {
		return 0
	}
	return uint64(ix.len())
}

func (s *State) ListedItemsCount() uint64 {
	return uint64(s.listed.len())
}

// AllNftsOnSale returns a snapshot of the listed tokens, most recently listed
// first.
func (s *State) AllNftsOnSale() []*Token {
	ids := s.listed.list()
	items := make([]*Token, len(ids))
	for i, id := range ids {
		items[len(ids)-1-i] = s.tokens[id-1].Copy()
	}
	return items
}

// OwnedNfts returns a snapshot of the tokens of owner in acquisition order.
func (s *State) OwnedNfts(owner uuid.UUID) []*Token {
	ix := s.owned[owner]
	if ix == nil {
		return []*Token{}
	}
	items := make([]*Token, ix.len())
	for i, id := range ix.list() {
		items[i] = s.tokens[id-1].Copy()
	}
	return items
}
