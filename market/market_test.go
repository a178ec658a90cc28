package market

import (
	"context"
	"testing"

	"github.com/MixinNetwork/nfm/nft"
	"github.com/MixinNetwork/nfm/store"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var (
	admin = uuid.Must(uuid.FromString("a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0001"))
	alice = uuid.Must(uuid.FromString("a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0002"))
	bob   = uuid.Must(uuid.FromString("a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0003"))
)

const (
	testFee   = 2500000
	testPrice = 300000000
)

type failingStore struct {
	*store.BadgerStore
	fail bool
}

func (fs *failingStore) WriteChangeset(cs *nft.Changeset) error {
	if fs.fail {
		return errors.New("disk full")
	}
	return fs.BadgerStore.WriteChangeset(cs)
}

func testConfiguration() *Configuration {
	return &Configuration{Admin: admin.String(), ListingFee: "0.025"}
}

func testMarket(t *testing.T) (*Market, *store.BadgerStore) {
	require := require.New(t)
	bs, err := store.OpenMemory()
	require.Nil(err)
	t.Cleanup(func() { bs.Close() })
	m, err := Open(context.Background(), bs, testConfiguration())
	require.Nil(err)
	return m, bs
}

func tokenIds(tokens []*nft.Token) []uint64 {
	ids := make([]uint64, len(tokens))
	for i, t := range tokens {
		ids[i] = t.Id
	}
	return ids
}

func TestMarketLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m, bs := testMarket(t)

	require.Equal(admin, m.Admin())
	require.Equal(uint64(testFee), m.ListingFee())
	require.Equal(uint64(1), m.Sequence())

	id, err := m.Mint(ctx, alice, testFee, "ipfs://one", testPrice)
	require.Nil(err)
	require.Equal(uint64(1), id)
	id, err = m.Mint(ctx, alice, testFee, "ipfs://two", testPrice)
	require.Nil(err)
	require.Equal(uint64(2), id)
	require.Equal(uint64(2*testFee), m.ProceedsOf(admin))

	err = m.Buy(ctx, bob, testPrice, 1)
	require.Nil(err)
	owner, err := m.OwnerOf(1)
	require.Nil(err)
	require.Equal(bob, owner)
	require.Equal(uint64(testPrice), m.ProceedsOf(alice))
	require.Equal(uint64(1), m.ListedItemsCount())

	paid, err := m.Withdraw(ctx, alice)
	require.Nil(err)
	require.Equal(uint64(testPrice), paid)
	require.Equal(uint64(0), m.ProceedsOf(alice))
	_, err = m.Withdraw(ctx, alice)
	require.True(errors.Is(err, nft.ErrInsufficientBalance))

	err = m.TransferFrom(ctx, bob, bob, alice, 1)
	require.Nil(err)
	err = m.Burn(ctx, alice, 2)
	require.Nil(err)
	require.Equal(uint64(1), m.TotalSupply())
	_, err = m.TokenURI(2)
	require.True(errors.Is(err, nft.ErrUnknownToken))

	require.Nil(m.Verify(ctx))

	acts, err := m.History(0, 0)
	require.Nil(err)
	require.Len(acts, int(m.Sequence()))
	require.Equal(nft.ActionGenesis, acts[0].Kind)
	for i, act := range acts {
		require.Equal(uint64(i+1), act.Sequence)
		if i > 0 {
			require.True(act.CreatedAt.After(acts[i-1].CreatedAt))
		}
	}

	reopened, err := Open(ctx, bs, testConfiguration())
	require.Nil(err)
	require.Nil(reopened.state.Diff(m.state))
	require.Nil(reopened.Verify(ctx))
}

func TestExecuteFailedWrite(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	bs, err := store.OpenMemory()
	require.Nil(err)
	defer bs.Close()
	fs := &failingStore{BadgerStore: bs}
	m, err := Open(ctx, fs, testConfiguration())
	require.Nil(err)

	id, err := m.Mint(ctx, alice, testFee, "ipfs://one", testPrice)
	require.Nil(err)

	fs.fail = true
	err = m.Buy(ctx, bob, testPrice, id)
	require.NotNil(err)
	require.False(nft.IsValidation(err))
	require.Equal(uint64(2), m.Sequence())
	owner, err := m.OwnerOf(id)
	require.Nil(err)
	require.Equal(alice, owner)
	require.Equal(uint64(0), m.ProceedsOf(alice))
	require.Equal(uint64(1), m.ListedItemsCount())
	props, err := bs.ReadProperties()
	require.Nil(err)
	require.Equal(uint64(2), props.Sequence)

	fs.fail = false
	err = m.Buy(ctx, bob, testPrice, id)
	require.Nil(err)
	require.Equal(uint64(3), m.Sequence())
	require.Nil(m.Verify(ctx))
}

func TestExecuteRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m, _ := testMarket(t)

	_, err := m.Mint(ctx, alice, testFee-1, "ipfs://one", testPrice)
	require.True(errors.Is(err, nft.ErrInsufficientFee))
	require.Equal(uint64(1), m.Sequence())

	err = m.SetListingFee(ctx, alice, 1)
	require.True(errors.Is(err, nft.ErrUnauthorized))
	err = m.SetListingFee(ctx, admin, 1)
	require.Nil(err)
	require.Equal(uint64(1), m.ListingFee())

	acts, err := m.History(0, 0)
	require.Nil(err)
	require.Len(acts, 2)
}

func TestExecuteDuplicateTrace(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m, _ := testMarket(t)

	act := &nft.Action{
		Kind:    nft.ActionMint,
		Caller:  alice,
		Payment: testFee,
		Trace:   "7b0a2c6e-1f3d-4c55-8e6b-0c8f4f6f2a11",
		URI:     "ipfs://one",
		Price:   testPrice,
	}
	_, err := m.Execute(ctx, act)
	require.Nil(err)

	again := *act
	again.URI = "ipfs://two"
	_, err = m.Execute(ctx, &again)
	require.True(errors.Is(err, ErrDuplicateTrace))
	require.Equal(uint64(1), m.TotalSupply())
}

func TestStoreIndices(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	m, bs := testMarket(t)

	for _, uri := range []string{"ipfs://a", "ipfs://b", "ipfs://c", "ipfs://d"} {
		_, err := m.Mint(ctx, alice, testFee, uri, testPrice)
		require.Nil(err)
	}
	require.Nil(m.Buy(ctx, bob, testPrice, 2))
	require.Nil(m.PlaceOnSale(ctx, bob, testFee, 2, testPrice*2))
	require.Nil(m.PlaceOnSale(ctx, alice, testFee, 1, testPrice))
	require.Nil(m.Delist(ctx, alice, 3))
	require.Nil(m.TransferFrom(ctx, alice, alice, bob, 4))
	require.Nil(m.Burn(ctx, alice, 3))

	listed, err := bs.ListListedTokens()
	require.Nil(err)
	require.Equal([]uint64{1, 2, 4}, tokenIds(listed))
	require.Equal(tokenIds(m.AllNftsOnSale()), tokenIds(listed))

	for _, owner := range []uuid.UUID{alice, bob, admin} {
		owned, err := bs.ListOwnedTokens(owner)
		require.Nil(err)
		require.Equal(tokenIds(m.OwnedNfts(owner)), tokenIds(owned))
	}
	require.Equal([]uint64{2, 4}, tokenIds(m.OwnedNfts(bob)))
	id, err := m.TokenOfOwnerByIndex(bob, 1)
	require.Nil(err)
	require.Equal(uint64(4), id)
	require.Equal(uint64(2), m.BalanceOf(bob))
	id, err = m.TokenByIndex(2)
	require.Nil(err)
	require.Equal(uint64(4), id)
}

func TestOpenPersistent(t *testing.T) {
	require := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	dir := t.TempDir()

	bs, err := store.OpenBadger(ctx, dir)
	require.Nil(err)
	m, err := Open(ctx, bs, testConfiguration())
	require.Nil(err)
	_, err = m.Mint(ctx, alice, testFee, "ipfs://one", testPrice)
	require.Nil(err)
	item, err := m.NftItem(1)
	require.Nil(err)
	require.Nil(bs.Close())

	bs, err = store.OpenBadger(ctx, dir)
	require.Nil(err)
	defer bs.Close()
	m, err = Open(ctx, bs, testConfiguration())
	require.Nil(err)
	require.Equal(uint64(2), m.Sequence())
	reloaded, err := m.NftItem(1)
	require.Nil(err)
	require.Equal(item, reloaded)
	require.Nil(m.Verify(ctx))
}

func TestConfigurationValidate(t *testing.T) {
	require := require.New(t)

	who, fee, err := testConfiguration().Validate()
	require.Nil(err)
	require.Equal(admin, who)
	require.Equal(uint64(testFee), fee)

	_, _, err = (&Configuration{Admin: "", ListingFee: "1"}).Validate()
	require.NotNil(err)
	_, _, err = (&Configuration{Admin: uuid.Nil.String(), ListingFee: "1"}).Validate()
	require.NotNil(err)
	_, _, err = (&Configuration{Admin: admin.String(), ListingFee: "-1"}).Validate()
	require.NotNil(err)
	_, _, err = (&Configuration{Admin: admin.String(), ListingFee: "0.000000001"}).Validate()
	require.NotNil(err)
	_, fee, err = (&Configuration{Admin: admin.String(), ListingFee: "0"}).Validate()
	require.Nil(err)
	require.Equal(uint64(0), fee)
}
