package market

import (
	"context"
	"sync"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/MixinNetwork/nfm/nft"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

var ErrDuplicateTrace = errors.New("duplicate trace")

type Store interface {
	nft.Store

	WriteProperty(key, val []byte) error
	ReadProperty(key []byte) ([]byte, error)
}

// Market serializes every state changing call. An action is planned against
// the ledger, persisted in a single store transaction and only then committed
// to memory, so a failed write leaves both sides untouched.
type Market struct {
	sync.RWMutex
	store Store
	clock *Clock
	state *nft.State
}

func Open(ctx context.Context, store Store, conf *Configuration) (*Market, error) {
	admin, fee, err := conf.Validate()
	if err != nil {
		return nil, err
	}
	clock, err := NewClock(store)
	if err != nil {
		return nil, err
	}
	m := &Market{store: store, clock: clock}

	props, err := store.ReadProperties()
	if err != nil {
		return nil, errors.Wrap(err, "read properties")
	}
	if props == nil {
		m.state = nft.NewState()
		_, err = m.execute(ctx, &nft.Action{
			Kind:   nft.ActionGenesis,
			Caller: admin,
			Fee:    fee,
		})
		if err != nil {
			return nil, err
		}
		logger.Printf("Market.Open() genesis admin %s fee %s\n", admin, nft.FormatUnits(fee))
		return m, nil
	}

	tokens, err := store.ListTokens()
	if err != nil {
		return nil, errors.Wrap(err, "list tokens")
	}
	balances, err := store.ListBalances()
	if err != nil {
		return nil, errors.Wrap(err, "list balances")
	}
	m.state, err = nft.LoadState(props, tokens, balances)
	if err != nil {
		return nil, err
	}
	if m.state.Admin() != admin {
		logger.Printf("Market.Open() admin %s differs from configured %s\n", m.state.Admin(), admin)
	}
	logger.Printf("Market.Open() sequence %d supply %d\n", m.state.Sequence(), m.state.TotalSupply())
	return m, nil
}

// Execute applies one action. Sequence and CreatedAt are assigned here, an
// action carrying a trace already in the history is rejected.
func (m *Market) Execute(ctx context.Context, act *nft.Action) (*nft.Changeset, error) {
	m.Lock()
	defer m.Unlock()

	return m.execute(ctx, act)
}

func (m *Market) execute(ctx context.Context, act *nft.Action) (*nft.Changeset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if act.Trace != "" {
		old, err := m.store.ReadHistoryByTrace(act.Trace)
		if err != nil {
			return nil, errors.Wrap(err, "read history")
		}
		if old != nil {
			return nil, errors.Wrapf(ErrDuplicateTrace, "%s applied at %d", act.Trace, old.Sequence)
		}
	}

	now, err := m.clock.Now()
	if err != nil {
		return nil, errors.Wrap(err, "clock")
	}
	act.Sequence = m.state.Sequence() + 1
	act.CreatedAt = now

	cs, err := m.state.Plan(act)
	if err != nil {
		logger.Verbosef("Market.Plan(%s, %s) => %v\n", act.Kind, act.Caller, err)
		return nil, err
	}
	err = m.store.WriteChangeset(cs)
	if err != nil {
		return nil, errors.Wrap(err, "write changeset")
	}
	m.state.Commit(cs)
	logger.Verbosef("Market.Execute(%d, %s, %s, %d)\n", act.Sequence, act.Kind, act.Caller, act.Payment)
	return cs, nil
}

func (m *Market) Mint(ctx context.Context, caller uuid.UUID, fee uint64, uri string, price uint64) (uint64, error) {
	cs, err := m.Execute(ctx, &nft.Action{
		Kind:    nft.ActionMint,
		Caller:  caller,
		Payment: fee,
		URI:     uri,
		Price:   price,
	})
	if err != nil {
		return 0, err
	}
	return cs.Tokens[0].Id, nil
}

func (m *Market) SetListingFee(ctx context.Context, caller uuid.UUID, fee uint64) error {
	_, err := m.Execute(ctx, &nft.Action{
		Kind:   nft.ActionSetListingFee,
		Caller: caller,
		Fee:    fee,
	})
	return err
}

func (m *Market) PlaceOnSale(ctx context.Context, caller uuid.UUID, fee uint64, id, price uint64) error {
	_, err := m.Execute(ctx, &nft.Action{
		Kind:    nft.ActionPlaceOnSale,
		Caller:  caller,
		Payment: fee,
		TokenId: id,
		Price:   price,
	})
	return err
}

func (m *Market) Delist(ctx context.Context, caller uuid.UUID, id uint64) error {
	_, err := m.Execute(ctx, &nft.Action{
		Kind:    nft.ActionDelist,
		Caller:  caller,
		TokenId: id,
	})
	return err
}

func (m *Market) Buy(ctx context.Context, caller uuid.UUID, payment uint64, id uint64) error {
	_, err := m.Execute(ctx, &nft.Action{
		Kind:    nft.ActionBuy,
		Caller:  caller,
		Payment: payment,
		TokenId: id,
	})
	return err
}

func (m *Market) TransferFrom(ctx context.Context, caller, from, to uuid.UUID, id uint64) error {
	_, err := m.Execute(ctx, &nft.Action{
		Kind:    nft.ActionTransfer,
		Caller:  caller,
		TokenId: id,
		From:    from,
		To:      to,
	})
	return err
}

func (m *Market) Burn(ctx context.Context, caller uuid.UUID, id uint64) error {
	_, err := m.Execute(ctx, &nft.Action{
		Kind:    nft.ActionBurn,
		Caller:  caller,
		TokenId: id,
	})
	return err
}

// Withdraw zeroes the recorded proceeds of caller and returns the amount the
// caller should be paid.
func (m *Market) Withdraw(ctx context.Context, caller uuid.UUID) (uint64, error) {
	cs, err := m.Execute(ctx, &nft.Action{
		Kind:   nft.ActionWithdraw,
		Caller: caller,
	})
	if err != nil {
		return 0, err
	}
	return cs.Paid, nil
}

func (m *Market) OwnerOf(id uint64) (uuid.UUID, error) {
	m.RLock()
	defer m.RUnlock()
	return m.state.OwnerOf(id)
}

func (m *Market) TokenURI(id uint64) (string, error) {
	m.RLock()
	defer m.RUnlock()
	return m.state.TokenURI(id)
}

func (m *Market) NftItem(id uint64) (*nft.Token, error) {
	m.RLock()
	defer m.RUnlock()
	return m.state.NftItem(id)
}

func (m *Market) ListingFee() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.state.ListingFee()
}

func (m *Market) Admin() uuid.UUID {
	m.RLock()
	defer m.RUnlock()
	return m.state.Admin()
}

func (m *Market) Sequence() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.state.Sequence()
}

func (m *Market) TotalSupply() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.state.TotalSupply()
}

func (m *Market) TokenByIndex(i uint64) (uint64, error) {
	m.RLock()
	defer m.RUnlock()
	return m.state.TokenByIndex(i)
}

func (m *Market) TokenOfOwnerByIndex(owner uuid.UUID, i uint64) (uint64, error) {
	m.RLock()
	defer m.RUnlock()
	return m.state.TokenOfOwnerByIndex(owner, i)
}

func (m *Market) BalanceOf(owner uuid.UUID) uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.state.BalanceOf(owner)
}

func (m *Market) ListedItemsCount() uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.state.ListedItemsCount()
}

func (m *Market) AllNftsOnSale() []*nft.Token {
	m.RLock()
	defer m.RUnlock()
	return m.state.AllNftsOnSale()
}

func (m *Market) OwnedNfts(owner uuid.UUID) []*nft.Token {
	m.RLock()
	defer m.RUnlock()
	return m.state.OwnedNfts(owner)
}

func (m *Market) ProceedsOf(owner uuid.UUID) uint64 {
	m.RLock()
	defer m.RUnlock()
	return m.state.ProceedsOf(owner)
}

// Applied returns the action recorded under trace, nil if none was applied.
func (m *Market) Applied(trace string) (*nft.Action, error) {
	act, err := m.store.ReadHistoryByTrace(trace)
	if err != nil {
		return nil, errors.Wrap(err, "read history")
	}
	return act, nil
}

func (m *Market) History(offset uint64, limit int) ([]*nft.Action, error) {
	return m.store.ListHistory(offset, limit)
}

// Verify replays the stored history from genesis and checks that it yields
// both the materialized records in the store and the ledger in memory.
func (m *Market) Verify(ctx context.Context) error {
	m.RLock()
	defer m.RUnlock()

	replay := nft.NewState()
	var offset uint64
	for ctx.Err() == nil {
		acts, err := m.store.ListHistory(offset, 100)
		if err != nil {
			return errors.Wrap(err, "list history")
		}
		for _, act := range acts {
			_, err = replay.Apply(act)
			if err != nil {
				return errors.Errorf("replay %d %s => %v", act.Sequence, act.Kind, err)
			}
			offset = act.Sequence
		}
		if len(acts) < 100 {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	props, err := m.store.ReadProperties()
	if err != nil || props == nil {
		return errors.Errorf("read properties %v %v", props, err)
	}
	tokens, err := m.store.ListTokens()
	if err != nil {
		return errors.Wrap(err, "list tokens")
	}
	balances, err := m.store.ListBalances()
	if err != nil {
		return errors.Wrap(err, "list balances")
	}
	stored, err := nft.LoadState(props, tokens, balances)
	if err != nil {
		return err
	}

	if err := replay.Diff(stored); err != nil {
		return errors.Wrap(err, "history against store")
	}
	if err := replay.Diff(m.state); err != nil {
		return errors.Wrap(err, "history against memory")
	}
	return nil
}
