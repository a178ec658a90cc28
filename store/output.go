package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfm/mtg"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixOutputPayload = "OUTPUT:PAYLOAD:"
	prefixOutputState   = "OUTPUT:STATE:"
)

func (bs *BadgerStore) WriteOutput(utxo *mtg.Output) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readOutput(txn, utxo.UTXOID)
		if err != nil {
			return err
		}
		if old != nil && old.State == utxo.State {
			return nil
		}
		if old != nil {
			err = txn.Delete(buildOutputTimedKey(old))
			if err != nil {
				return err
			}
		}

		key := []byte(prefixOutputPayload + utxo.UTXOID)
		err = txn.Set(key, common.MsgpackMarshalPanic(utxo))
		if err != nil {
			return err
		}
		err = txn.Set(buildOutputTimedKey(utxo), []byte{1})
		if err != nil {
			return err
		}

		if old != nil || utxo.State != mtg.OutputStateUnspent {
			return nil
		}
		act, err := bs.readAction(txn, utxo.UTXOID)
		if err != nil || act != nil {
			return err
		}
		return bs.writeAction(txn, &mtg.Action{
			UTXOID:    utxo.UTXOID,
			CreatedAt: utxo.CreatedAt,
			State:     mtg.ActionStateInitial,
		})
	})
}

func (bs *BadgerStore) ReadOutput(utxoID string) (*mtg.Output, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readOutput(txn, utxoID)
}

func (bs *BadgerStore) ListOutputs(state string, limit int) ([]*mtg.Output, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixOutputState + state)
	it := txn.NewIterator(opts)
	defer it.Close()

	var outputs []*mtg.Output
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := string(key[len(opts.Prefix)+8:])
		out, err := bs.readOutput(txn, id)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
		if len(outputs) == limit {
			break
		}
	}
	return outputs, nil
}

func (bs *BadgerStore) readOutput(txn *badger.Txn, id string) (*mtg.Output, error) {
	key := []byte(prefixOutputPayload + id)
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
	var utxo mtg.Output
	err = common.MsgpackUnmarshal(val, &utxo)
	return &utxo, err
}

func buildOutputTimedKey(out *mtg.Output) []byte {
	prefix := prefixOutputState + out.StateName()
	return concat([]byte(prefix), tsToBytes(out.UpdatedAt), []byte(out.UTXOID))
}
