package nft

import (
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

// planBuy moves a listed token to the caller and credits the exact payment
// to the previous owner. A seller can not buy its own listing.
func (s *State) planBuy(act *Action) (*Changeset, error) {
	t, err := s.token(act.TokenId)
	if err != nil {
		return nil, err
	}
	if !t.IsListed {
		return nil, errors.Wrapf(ErrNotListed, "token %d", t.Id)
	}
	if t.Owner == act.Caller {
		return nil, errors.Wrapf(ErrUnauthorized, "%s buying own token %d", act.Caller, t.Id)
	}
	if act.Payment != t.Price {
		return nil, errors.Wrapf(ErrUnderPayment, "paid %d for price %d", act.Payment, t.Price)
	}

	cs := s.newChangeset(act)
	err = s.credit(cs, t.Owner, act.Payment)
	if err != nil {
		return nil, err
	}
	next := t.Copy()
	next.Owner = act.Caller
	next.IsListed = false
	next.AcquiredAt = act.Sequence
	cs.put(t, next)
	return cs, nil
}

// planTransfer moves ownership without touching the sale state, a listed
// token stays listed for its new owner.
func (s *State) planTransfer(act *Action) (*Changeset, error) {
	t, err := s.token(act.TokenId)
	if err != nil {
		return nil, err
	}
	if act.Caller != act.From || t.Owner != act.From {
		return nil, errors.Wrapf(ErrUnauthorized, "transfer token %d from %s by %s", t.Id, act.From, act.Caller)
	}
	if act.To == uuid.Nil {
		return nil, errors.Wrapf(ErrInvalidRecipient, "transfer token %d", t.Id)
	}
	if err := s.requireNoPayment(act); err != nil {
		return nil, err
	}

	cs := s.newChangeset(act)
	next := t.Copy()
	next.Owner = act.To
	next.AcquiredAt = act.Sequence
	cs.put(t, next)
	return cs, nil
}

func (s *State) planWithdraw(act *Action) (*Changeset, error) {
	if err := s.requireNoPayment(act); err != nil {
		return nil, err
	}
	bal := s.balances[act.Caller]
	if bal == 0 {
		return nil, errors.Wrapf(ErrInsufficientBalance, "%s has nothing to withdraw", act.Caller)
	}
	cs := s.newChangeset(act)
	cs.Balances[act.Caller] = 0
	cs.Paid = bal
	act.Paid = bal
	return cs, nil
}

func (s *State) ProceedsOf(who uuid.UUID) uint64 {
	return s.balances[who]
}
