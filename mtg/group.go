package mtg

import (
	"context"
	"strings"
	"time"

	"github.com/MixinNetwork/mixin/logger"
	"github.com/fox-one/mixin-sdk-go"
	"github.com/pkg/errors"
)

type Group struct {
	mixin   *mixin.Client
	store   Store
	workers []Worker

	members   []string
	threshold int
}

func BuildGroup(ctx context.Context, store Store, conf *Configuration) (*Group, error) {
	if cg := conf.Genesis; len(cg.Members) < cg.Threshold || cg.Threshold < 1 {
		return nil, errors.Errorf("invalid group threshold %d %d", len(cg.Members), cg.Threshold)
	}
	if !strings.Contains(strings.Join(conf.Genesis.Members, ","), conf.App.ClientId) {
		return nil, errors.Errorf("app %s not belongs to the group", conf.App.ClientId)
	}

	s := &mixin.Keystore{
		ClientID:   conf.App.ClientId,
		SessionID:  conf.App.SessionId,
		PrivateKey: conf.App.PrivateKey,
		PinToken:   conf.App.PinToken,
	}
	client, err := mixin.NewFromKeystore(s)
	if err != nil {
		return nil, err
	}
	err = client.VerifyPin(ctx, conf.App.PIN)
	if err != nil {
		return nil, err
	}

	return &Group{
		mixin:     client,
		store:     store,
		members:   conf.Genesis.Members,
		threshold: conf.Genesis.Threshold,
	}, nil
}

func (grp *Group) AddWorker(wkr Worker) {
	grp.workers = append(grp.workers, wkr)
}

func (grp *Group) GetMembers() []string {
	return grp.members
}

func (grp *Group) GetThreshold() int {
	return grp.threshold
}

func (grp *Group) Run(ctx context.Context) {
	for ctx.Err() == nil {
		grp.drainOutputs(ctx, 100)
		err := grp.handleUnspentOutputs(ctx, 16)
		if err != nil {
			logger.Printf("Group.handleUnspentOutputs() => %v\n", err)
		}
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
		}
	}
}

// handleUnspentOutputs hands every pending output to all workers, one at a
// time in arrival order, and marks it done afterwards.
func (grp *Group) handleUnspentOutputs(ctx context.Context, batch int) error {
	for {
		outputs, err := grp.store.ListActions(batch)
		if err != nil {
			return err
		}
		for _, out := range outputs {
			for _, wkr := range grp.workers {
				wkr.ProcessOutput(ctx, out)
			}
			err = grp.writeAction(out, ActionStateDone)
			if err != nil {
				return err
			}
		}
		if len(outputs) < batch {
			return nil
		}
	}
}
