package main

import (
	"context"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfm/market"
	"github.com/MixinNetwork/nfm/mtg"
	"github.com/MixinNetwork/nfm/nft"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

type Ledger interface {
	Execute(ctx context.Context, act *nft.Action) (*nft.Changeset, error)
	Applied(trace string) (*nft.Action, error)
}

type TransactionBuilder interface {
	BuildTransaction(ctx context.Context, assetId string, receivers []string, threshold int, amount, memo string, traceId string) error
}

// MarketWorker turns every output of the market asset into one ledger call.
// A rejected call refunds the whole output, an operation that takes no
// payment refunds the output as change, and a withdrawal pays the released
// proceeds to the caller.
type MarketWorker struct {
	ledger  Ledger
	builder TransactionBuilder
	assetId string
}

func NewMarketWorker(ledger Ledger, builder TransactionBuilder, assetId string) *MarketWorker {
	return &MarketWorker{
		ledger:  ledger,
		builder: builder,
		assetId: assetId,
	}
}

func (mw *MarketWorker) ProcessOutput(ctx context.Context, out *mtg.Output) {
	if out.Sender == "" || out.AssetID != mw.assetId {
		return
	}
	logger.Verbosef("MarketWorker.ProcessOutput(%s, %s, %s)\n", out.UTXOID, out.Sender, out.Amount)

	caller, err := uuid.FromString(out.Sender)
	if err != nil {
		logger.Printf("MarketWorker.ProcessOutput(%s) invalid sender %s\n", out.UTXOID, out.Sender)
		return
	}
	units, err := out.Units()
	if err != nil {
		logger.Printf("MarketWorker.ProcessOutput(%s) => %v\n", out.UTXOID, err)
		return
	}
	op, err := DecodeOperation(out.Memo)
	if err != nil {
		logger.Verbosef("MarketWorker.DecodeOperation(%s) => %v\n", out.Memo, err)
		mw.refund(ctx, out, "refund")
		return
	}

	cs, err := mw.ledger.Execute(ctx, op.Action(caller, units, out.UTXOID))
	if errors.Is(err, market.ErrDuplicateTrace) {
		// applied before the settlement was queued, queue it again
		act, err := mw.ledger.Applied(out.UTXOID)
		if err != nil {
			panic(err)
		}
		if act == nil {
			panic(out.UTXOID)
		}
		mw.settle(ctx, out, op, act.Paid)
		return
	} else if nft.IsValidation(err) {
		logger.Verbosef("MarketWorker.Execute(%s, %s) => %v\n", out.UTXOID, op.A, err)
		mw.refund(ctx, out, "refund")
		return
	} else if err != nil {
		panic(err)
	}

	mw.settle(ctx, out, op, cs.Paid)
}

// settle queues the change and the payout of an applied operation. Both use
// trace ids derived from the output, so settling twice queues them once.
func (mw *MarketWorker) settle(ctx context.Context, out *mtg.Output, op *Operation, paid uint64) {
	if !op.paying() {
		mw.refund(ctx, out, "change")
	}
	if paid == 0 {
		return
	}
	traceId := mixin.UniqueConversationID(out.UTXOID, "withdraw")
	err := mw.builder.BuildTransaction(ctx, mw.assetId, []string{out.Sender}, 1, nft.FormatUnits(paid), "withdraw", traceId)
	if err != nil {
		panic(err)
	}
}

func (mw *MarketWorker) refund(ctx context.Context, out *mtg.Output, memo string) {
	receivers := []string{out.Sender}
	traceId := mixin.UniqueConversationID(out.UTXOID, "refund")
	err := mw.builder.BuildTransaction(ctx, out.AssetID, receivers, 1, out.Amount.String(), memo, traceId)
	if err != nil {
		panic(err)
	}
}
