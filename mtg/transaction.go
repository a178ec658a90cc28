package mtg

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/MixinNetwork/mixin/common"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	TransactionStateInitial  = 10
	TransactionStateSigning  = 11
	TransactionStateSigned   = 12
	TransactionStateSnapshot = 13
)

// Transaction is an outgoing payment queued for the group signer.
type Transaction struct {
	TraceId   string
	State     int
	AssetId   string
	Receivers []string
	Threshold int
	Amount    string
	Memo      string
	Extra     string
	UpdatedAt time.Time
}

// the app should decide a unique trace id so that the MTG will not double spend
func (grp *Group) BuildTransaction(ctx context.Context, assetId string, receivers []string, threshold int, amount, memo string, traceId string) error {
	if threshold <= 0 || threshold > len(receivers) {
		return errors.Errorf("invalid receivers threshold %d/%d", threshold, len(receivers))
	}
	amt, err := decimal.NewFromString(amount)
	min, _ := decimal.NewFromString("0.00000001")
	if err != nil || amt.Cmp(min) < 0 {
		return errors.Errorf("invalid amount %s", amount)
	}

	extra, err := encodeMixinExtra(traceId, memo)
	if err != nil {
		return err
	}

	for _, r := range receivers {
		id, _ := uuid.FromString(r)
		if id.String() == uuid.Nil.String() {
			return errors.Errorf("invalid receiver %s", r)
		}
	}
	old, err := grp.store.ReadTransaction(traceId)
	if err != nil || old != nil {
		return err
	}
	tx := &Transaction{
		TraceId:   traceId,
		State:     TransactionStateInitial,
		AssetId:   assetId,
		Receivers: receivers,
		Threshold: threshold,
		Amount:    amount,
		Memo:      memo,
		Extra:     extra,
		UpdatedAt: time.Now(),
	}
	return grp.store.WriteTransaction(tx)
}

// all the transactions sent by the MTG is encoded by base64(msgpack(mep))
type mixinExtraPack struct {
	T uuid.UUID
	M string `msgpack:",omitempty"`
}

func encodeMixinExtra(traceId, memo string) (string, error) {
	id, err := uuid.FromString(traceId)
	if err != nil {
		return "", err
	}
	p := &mixinExtraPack{T: id, M: memo}
	b := common.MsgpackMarshalPanic(p)
	s := base64.RawURLEncoding.EncodeToString(b)
	if len(s) >= common.ExtraSizeLimit {
		return "", errors.Errorf("memo too long %d", len(s))
	}
	return s, nil
}

func decodeMixinExtra(s string) (*mixinExtraPack, error) {
	extra, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	var p mixinExtraPack
	err = common.MsgpackUnmarshal(extra, &p)
	if err != nil {
		return nil, err
	}
	if p.T == uuid.Nil {
		return nil, errors.Errorf("invalid extra trace %s", s)
	}
	return &p, nil
}
