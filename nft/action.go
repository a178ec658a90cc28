package nft

import (
	"time"

	"github.com/gofrs/uuid"
)

const (
	ActionGenesis       = "genesis"
	ActionMint          = "mint"
	ActionSetListingFee = "fee"
	ActionPlaceOnSale   = "list"
	ActionDelist        = "delist"
	ActionBuy           = "buy"
	ActionTransfer      = "transfer"
	ActionBurn          = "burn"
	ActionWithdraw      = "withdraw"
)

// Action is one operation invoked by a caller with an attached payment. The
// history of applied actions replays to the current state.
type Action struct {
	Sequence uint64
	Kind     string
	Caller   uuid.UUID
	Payment  uint64
	Trace    string

	TokenId uint64
	URI     string
	Price   uint64
	Fee     uint64
	From    uuid.UUID
	To      uuid.UUID

	// Paid is the amount a withdraw releases, recorded when planned so the
	// payout can be settled again from the history.
	Paid uint64

	CreatedAt time.Time
}

// Changeset is the complete effect of one action. Tokens holds the new
// versions and Previous the versions they replace, nil for a fresh mint.
type Changeset struct {
	Action     *Action
	Tokens     []*Token
	Previous   []*Token
	Balances   map[uuid.UUID]uint64
	Properties Properties
	Paid       uint64
}

func (cs *Changeset) put(prev, next *Token) {
	cs.Previous = append(cs.Previous, prev)
	cs.Tokens = append(cs.Tokens, next)
}
