package store

import (
	"github.com/MixinNetwork/mixin/common"
	"github.com/MixinNetwork/nfm/nft"
	"github.com/dgraph-io/badger/v4"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

const (
	prefixTokenPayload = "MARKET:TOKEN:PAYLOAD:"
	prefixTokenURI     = "MARKET:TOKEN:URI:"
	prefixTokenOwner   = "MARKET:TOKEN:OWNER:"
	prefixTokenListing = "MARKET:TOKEN:LISTING:"
	prefixBalance      = "MARKET:BALANCE:"

	keyMarketProperties = "MARKET:PROPERTIES"
)

// WriteChangeset persists the whole effect of one action in a single
// transaction: token versions, their index keys, balances, properties and
// the history entry.
func (bs *BadgerStore) WriteChangeset(cs *nft.Changeset) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		old, err := bs.readProperties(txn)
		if err != nil {
			return err
		}
		var seq uint64
		if old != nil {
			seq = old.Sequence
		}
		if cs.Properties.Sequence != seq+1 {
			return errors.Errorf("changeset %d after %d", cs.Properties.Sequence, seq)
		}

		for i, t := range cs.Tokens {
			err = bs.writeToken(txn, cs.Previous[i], t)
			if err != nil {
				return err
			}
		}

		for who, bal := range cs.Balances {
			key := append([]byte(prefixBalance), who.Bytes()...)
			if bal == 0 {
				err = txn.Delete(key)
			} else {
				err = txn.Set(key, uint64ToBytes(bal))
			}
			if err != nil {
				return err
			}
		}

		val := common.MsgpackMarshalPanic(cs.Properties)
		err = txn.Set([]byte(keyMarketProperties), val)
		if err != nil {
			return err
		}
		return bs.writeHistory(txn, cs.Action)
	})
}

func (bs *BadgerStore) ReadProperties() (*nft.Properties, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readProperties(txn)
}

func (bs *BadgerStore) ReadToken(id uint64) (*nft.Token, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readToken(txn, id)
}

// ListTokens returns every token ever minted in id order, burned included.
func (bs *BadgerStore) ListTokens() ([]*nft.Token, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixTokenPayload)
	it := txn.NewIterator(opts)
	defer it.Close()

	var tokens []*nft.Token
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var t nft.Token
		err = common.MsgpackUnmarshal(val, &t)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, &t)
	}
	return tokens, nil
}

// ListOwnedTokens reads the owner index, tokens come in acquisition order.
func (bs *BadgerStore) ListOwnedTokens(owner uuid.UUID) ([]*nft.Token, error) {
	prefix := append([]byte(prefixTokenOwner), owner.Bytes()...)
	return bs.listIndexedTokens(prefix, false)
}

// ListListedTokens reads the listing index, most recently listed first.
func (bs *BadgerStore) ListListedTokens() ([]*nft.Token, error) {
	return bs.listIndexedTokens([]byte(prefixTokenListing), true)
}

func (bs *BadgerStore) ListBalances() (map[uuid.UUID]uint64, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixBalance)
	it := txn.NewIterator(opts)
	defer it.Close()

	balances := make(map[uuid.UUID]uint64)
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		item := it.Item()
		who, err := uuid.FromBytes(item.KeyCopy(nil)[len(opts.Prefix):])
		if err != nil {
			return nil, err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		balances[who] = bytesToUint64(val)
	}
	return balances, nil
}

func (bs *BadgerStore) listIndexedTokens(prefix []byte, reverse bool) ([]*nft.Token, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := prefix
	if reverse {
		seek = concat(prefix, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	}

	var tokens []*nft.Token
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		id := bytesToUint64(key[len(prefix)+8:])
		t, err := bs.readToken(txn, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			panic(id)
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func (bs *BadgerStore) writeToken(txn *badger.Txn, prev, t *nft.Token) error {
	if prev == nil {
		key := []byte(prefixTokenURI + t.URI)
		_, err := txn.Get(key)
		if err == nil {
			return errors.Errorf("uri %s already stored", t.URI)
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		err = txn.Set(key, uint64ToBytes(t.Id))
		if err != nil {
			return err
		}
	} else {
		err := bs.deleteTokenIndices(txn, prev)
		if err != nil {
			return err
		}
	}

	key := append([]byte(prefixTokenPayload), uint64ToBytes(t.Id)...)
	err := txn.Set(key, common.MsgpackMarshalPanic(t))
	if err != nil {
		return err
	}
	return bs.writeTokenIndices(txn, t)
}

func (bs *BadgerStore) writeTokenIndices(txn *badger.Txn, t *nft.Token) error {
	if t.Burned {
		return nil
	}
	err := txn.Set(buildTokenOwnerKey(t), []byte{1})
	if err != nil || !t.IsListed {
		return err
	}
	return txn.Set(buildTokenListingKey(t), []byte{1})
}

func (bs *BadgerStore) deleteTokenIndices(txn *badger.Txn, t *nft.Token) error {
	if t.Burned {
		return nil
	}
	err := txn.Delete(buildTokenOwnerKey(t))
	if err != nil || !t.IsListed {
		return err
	}
	return txn.Delete(buildTokenListingKey(t))
}

func (bs *BadgerStore) readToken(txn *badger.Txn, id uint64) (*nft.Token, error) {
	key := append([]byte(prefixTokenPayload), uint64ToBytes(id)...)
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
	var t nft.Token
	err = common.MsgpackUnmarshal(val, &t)
	return &t, err
}

func (bs *BadgerStore) readProperties(txn *badger.Txn) (*nft.Properties, error) {
	item, err := txn.Get([]byte(keyMarketProperties))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var p nft.Properties
	err = common.MsgpackUnmarshal(val, &p)
	return &p, err
}

func buildTokenOwnerKey(t *nft.Token) []byte {
	return concat([]byte(prefixTokenOwner), t.Owner.Bytes(), uint64ToBytes(t.AcquiredAt), uint64ToBytes(t.Id))
}

func buildTokenListingKey(t *nft.Token) []byte {
	return concat([]byte(prefixTokenListing), uint64ToBytes(t.ListedAt), uint64ToBytes(t.Id))
}
