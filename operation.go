package main

import (
	"encoding/base64"

	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfm/nft"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

// Operation is the memo attached to an output sent to the group, encoded
// as base64(msgpack(op)). The sender of the output is the caller and the
// output amount the attached payment.
type Operation struct {
	A string
	T uint64    `msgpack:",omitempty"`
	U string    `msgpack:",omitempty"`
	P uint64    `msgpack:",omitempty"`
	F uuid.UUID `msgpack:",omitempty"`
	R uuid.UUID `msgpack:",omitempty"`
}

func EncodeOperation(op *Operation) string {
	b := common.MsgpackMarshalPanic(op)
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeOperation(memo string) (*Operation, error) {
	b, err := base64.RawURLEncoding.DecodeString(memo)
	if err != nil {
		return nil, err
	}
	var op Operation
	err = common.MsgpackUnmarshal(b, &op)
	if err != nil {
		return nil, err
	}
	switch op.A {
	case nft.ActionMint, nft.ActionSetListingFee, nft.ActionPlaceOnSale,
		nft.ActionDelist, nft.ActionBuy, nft.ActionTransfer, nft.ActionBurn,
		nft.ActionWithdraw:
	default:
		return nil, errors.Errorf("invalid operation %s", op.A)
	}
	return &op, nil
}

// paying reports whether the operation consumes the attached payment, the
// payment of any other operation is returned to the caller.
func (op *Operation) paying() bool {
	switch op.A {
	case nft.ActionMint, nft.ActionPlaceOnSale, nft.ActionBuy:
		return true
	}
	return false
}

func (op *Operation) Action(caller uuid.UUID, payment uint64, trace string) *nft.Action {
	act := &nft.Action{
		Kind:    op.A,
		Caller:  caller,
		Trace:   trace,
		TokenId: op.T,
		URI:     op.U,
		To:      op.R,
	}
	if op.paying() {
		act.Payment = payment
	}
	switch op.A {
	case nft.ActionSetListingFee:
		act.Fee = op.P
	case nft.ActionTransfer:
		act.From = op.F
		if act.From == uuid.Nil {
			act.From = caller
		}
	default:
		act.Price = op.P
	}
	return act
}
