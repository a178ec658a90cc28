package nft

import "github.com/gofrs/uuid"

// Token is the authoritative record of one minted item. Burned tokens stay in
// the arena so their id and uri remain reserved.
type Token struct {
	Id       uint64
	URI      string
	Creator  uuid.UUID
	Owner    uuid.UUID
	Price    uint64
	IsListed bool
	Burned   bool

	// sequence numbers of the actions that last listed and last moved the
	// token, used to order the listing and ownership indices
	ListedAt   uint64
	AcquiredAt uint64
}

func (t *Token) Copy() *Token {
	c := *t
	return &c
}

// Properties are the ledger wide values persisted next to the tokens.
type Properties struct {
	Admin      uuid.UUID
	ListingFee uint64
	Minted     uint64
	Live       uint64
	Sequence   uint64
}
