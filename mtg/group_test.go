package mtg

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	props   map[string][]byte
	outputs map[string]*Output
	actions map[string]*Action
	txs     map[string]*Transaction
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		props:   make(map[string][]byte),
		outputs: make(map[string]*Output),
		actions: make(map[string]*Action),
		txs:     make(map[string]*Transaction),
	}
}

func (ms *memoryStore) WriteProperty(key, val []byte) error {
	ms.props[string(key)] = val
	return nil
}

func (ms *memoryStore) ReadProperty(key []byte) ([]byte, error) {
	return ms.props[string(key)], nil
}

func (ms *memoryStore) WriteOutput(utxo *Output) error {
	_, seen := ms.outputs[utxo.UTXOID]
	ms.outputs[utxo.UTXOID] = utxo
	if !seen && utxo.State == OutputStateUnspent {
		ms.actions[utxo.UTXOID] = &Action{UTXOID: utxo.UTXOID, CreatedAt: utxo.CreatedAt, State: ActionStateInitial}
	}
	return nil
}

func (ms *memoryStore) ReadOutput(utxoID string) (*Output, error) {
	return ms.outputs[utxoID], nil
}

func (ms *memoryStore) WriteAction(act *Action) error {
	ms.actions[act.UTXOID] = act
	return nil
}

func (ms *memoryStore) ListActions(limit int) ([]*Output, error) {
	var outs []*Output
	for id, act := range ms.actions {
		if act.State == ActionStateInitial {
			outs = append(outs, ms.outputs[id])
		}
	}
	sort.Slice(outs, func(i, j int) bool {
		return outs[i].CreatedAt.Before(outs[j].CreatedAt)
	})
	if len(outs) > limit {
		outs = outs[:limit]
	}
	return outs, nil
}

func (ms *memoryStore) WriteTransaction(tx *Transaction) error {
	ms.txs[tx.TraceId] = tx
	return nil
}

func (ms *memoryStore) ReadTransaction(traceId string) (*Transaction, error) {
	return ms.txs[traceId], nil
}

func (ms *memoryStore) ListTransactions(state int, limit int) ([]*Transaction, error) {
	var txs []*Transaction
	for _, tx := range ms.txs {
		if tx.State == state {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

type recordingWorker struct {
	seen []string
}

func (rw *recordingWorker) ProcessOutput(ctx context.Context, out *Output) {
	rw.seen = append(rw.seen, out.UTXOID)
}

func testGroup() (*Group, *memoryStore) {
	ms := newMemoryStore()
	return &Group{
		store:     ms,
		members:   []string{"a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0001"},
		threshold: 1,
	}, ms
}

func TestHandleUnspentOutputs(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	grp, ms := testGroup()
	wkr := &recordingWorker{}
	grp.AddWorker(wkr)

	now := time.Now()
	ids := []string{"out-0", "out-1", "out-2", "out-3", "out-4"}
	for i, id := range ids {
		err := ms.WriteOutput(&Output{
			UTXOID:    id,
			State:     OutputStateUnspent,
			Amount:    decimal.NewFromInt(1),
			CreatedAt: now.Add(time.Duration(i) * time.Second),
		})
		require.Nil(err)
	}
	require.Nil(ms.WriteOutput(&Output{UTXOID: "spent", State: OutputStateSpent, CreatedAt: now}))

	require.Nil(grp.handleUnspentOutputs(ctx, 2))
	require.Equal(ids, wkr.seen)
	for _, id := range ids {
		require.Equal(ActionStateDone, ms.actions[id].State)
	}

	require.Nil(grp.handleUnspentOutputs(ctx, 2))
	require.Len(wkr.seen, len(ids))
}

func TestBuildTransaction(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	grp, ms := testGroup()

	receivers := []string{"a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0002"}
	asset := "965e5c6e-434c-3fa9-b780-c50f43cd955c"
	trace := "5e0db2c4-7a55-4f6e-8f3d-2b1c0a9e8d01"

	err := grp.BuildTransaction(ctx, asset, receivers, 2, "1", "refund", trace)
	require.NotNil(err)
	err = grp.BuildTransaction(ctx, asset, receivers, 1, "0.000000001", "refund", trace)
	require.NotNil(err)
	err = grp.BuildTransaction(ctx, asset, []string{"not-a-uuid"}, 1, "1", "refund", trace)
	require.NotNil(err)
	err = grp.BuildTransaction(ctx, asset, receivers, 1, "1", "refund", "not-a-uuid")
	require.NotNil(err)
	require.Len(ms.txs, 0)

	err = grp.BuildTransaction(ctx, asset, receivers, 1, "1.5", "refund", trace)
	require.Nil(err)
	tx := ms.txs[trace]
	require.NotNil(tx)
	require.Equal(TransactionStateInitial, tx.State)
	require.Equal("1.5", tx.Amount)

	extra, err := decodeMixinExtra(tx.Extra)
	require.Nil(err)
	require.Equal(trace, extra.T.String())
	require.Equal("refund", extra.M)

	err = grp.BuildTransaction(ctx, asset, receivers, 1, "2", "again", trace)
	require.Nil(err)
	require.Equal("1.5", ms.txs[trace].Amount)
}

func TestOutputsDrainingCheckpoint(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	grp, _ := testGroup()

	ckpt, err := grp.readOutputsDrainingCheckpoint(ctx)
	require.Nil(err)
	require.True(ckpt.IsZero())

	now := time.Now()
	require.Nil(grp.writeOutputsDrainingCheckpoint(ctx, now))
	ckpt, err = grp.readOutputsDrainingCheckpoint(ctx)
	require.Nil(err)
	require.True(ckpt.Equal(now))
}

func TestOutputUnits(t *testing.T) {
	require := require.New(t)

	out := &Output{Amount: decimal.RequireFromString("0.025")}
	units, err := out.Units()
	require.Nil(err)
	require.Equal(uint64(2500000), units)

	out.Amount = decimal.RequireFromString("0.000000001")
	_, err = out.Units()
	require.NotNil(err)
}
