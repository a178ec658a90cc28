package mtg

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/MixinNetwork/mixin/logger"
)

const outputsDrainingKey = "outputs-draining-checkpoint"

func (grp *Group) drainOutputs(ctx context.Context, batch int) {
	for ctx.Err() == nil {
		checkpoint, err := grp.readOutputsDrainingCheckpoint(ctx)
		if err != nil {
			time.Sleep(3 * time.Second)
			continue
		}
		outputs, err := grp.mixin.ReadMultisigOutputs(ctx, grp.members, uint8(grp.threshold), checkpoint, batch)
		if err != nil {
			logger.Printf("ReadMultisigOutputs(%v) => %v\n", checkpoint, err)
			time.Sleep(3 * time.Second)
			continue
		}

		for _, utxo := range outputs {
			err = grp.store.WriteOutput(NewOutputFromMultisig(utxo))
			if err != nil {
				break
			}
			checkpoint = utxo.UpdatedAt
		}

		if checkpoint.IsZero() {
			break
		}
		err = grp.writeOutputsDrainingCheckpoint(ctx, checkpoint)
		if err != nil {
			logger.Printf("writeOutputsDrainingCheckpoint(%v) => %v\n", checkpoint, err)
		}
		if len(outputs) < batch/2 {
			break
		}
	}
}

func (grp *Group) readOutputsDrainingCheckpoint(ctx context.Context) (time.Time, error) {
	key := []byte(outputsDrainingKey)
	val, err := grp.store.ReadProperty(key)
	if err != nil || len(val) == 0 {
		return time.Time{}, err
	}
	ts := int64(binary.BigEndian.Uint64(val))
	return time.Unix(0, ts), nil
}

func (grp *Group) writeOutputsDrainingCheckpoint(ctx context.Context, ckpt time.Time) error {
	val := make([]byte, 8)
	key := []byte(outputsDrainingKey)
	ts := uint64(ckpt.UnixNano())
	binary.BigEndian.PutUint64(val, ts)
	return grp.store.WriteProperty(key, val)
}
