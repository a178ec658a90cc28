package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfm/nft"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixHistoryPayload = "MARKET:HISTORY:PAYLOAD:"
	prefixHistoryTrace   = "MARKET:HISTORY:TRACE:"
)

// ListHistory returns the applied actions with a sequence after offset, in
// order. A limit of 0 lists everything.
func (bs *BadgerStore) ListHistory(offset uint64, limit int) ([]*nft.Action, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixHistoryPayload)
	it := txn.NewIterator(opts)
	defer it.Close()

	var acts []*nft.Action
	start := append([]byte(prefixHistoryPayload), uint64ToBytes(offset+1)...)
	for it.Seek(start); it.Valid(); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var act nft.Action
		err = common.MsgpackUnmarshal(val, &act)
		if err != nil {
			return nil, err
		}
		acts = append(acts, &act)
		if len(acts) == limit {
			break
		}
	}
	return acts, nil
}

func (bs *BadgerStore) ReadHistoryByTrace(trace string) (*nft.Action, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get([]byte(prefixHistoryTrace + trace))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	seq, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return bs.readHistory(txn, bytesToUint64(seq))
}

func (bs *BadgerStore) writeHistory(txn *badger.Txn, act *nft.Action) error {
	key := append([]byte(prefixHistoryPayload), uint64ToBytes(act.Sequence)...)
	_, err := txn.Get(key)
	if err == nil {
		panic(act.Sequence)
	} else if err != badger.ErrKeyNotFound {
		return err
	}
	err = txn.Set(key, common.MsgpackMarshalPanic(act))
	if err != nil || act.Trace == "" {
		return err
	}
	return txn.Set([]byte(prefixHistoryTrace+act.Trace), uint64ToBytes(act.Sequence))
}

func (bs *BadgerStore) readHistory(txn *badger.Txn, seq uint64) (*nft.Action, error) {
	key := append([]byte(prefixHistoryPayload), uint64ToBytes(seq)...)
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var act nft.Action
	err = common.MsgpackUnmarshal(val, &act)
	return &act, err
}
