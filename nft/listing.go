package nft

import "github.com/pkg/errors"

// planPlaceOnSale lists an owned token. Listing an already listed token
// replaces its price and moves it to the newest position.
func (s *State) planPlaceOnSale(act *Action) (*Changeset, error) {
	t, err := s.token(act.TokenId)
	if err != nil {
		return nil, err
	}
	if t.Owner != act.Caller {
		return nil, errors.Wrapf(ErrUnauthorized, "list token %d owned by %s", t.Id, t.Owner)
	}
	if act.Price < 1 {
		return nil, errors.Wrapf(ErrInvalidPrice, "list price %d", act.Price)
	}
	if act.Payment != s.props.ListingFee {
		return nil, errors.Wrapf(ErrInsufficientFee, "paid %d for fee %d", act.Payment, s.props.ListingFee)
	}

	cs := s.newChangeset(act)
	err = s.credit(cs, s.props.Admin, act.Payment)
	if err != nil {
		return nil, err
	}
	next := t.Copy()
	next.Price = act.Price
	next.IsListed = true
	next.ListedAt = act.Sequence
	cs.put(t, next)
	return cs, nil
}

func (s *State) planDelist(act *Action) (*Changeset, error) {
	t, err := s.token(act.TokenId)
	if err != nil {
		return nil, err
	}
	if t.Owner != act.Caller {
		return nil, errors.Wrapf(ErrUnauthorized, "delist token %d owned by %s", t.Id, t.Owner)
	}
	if !t.IsListed {
		return nil, errors.Wrapf(ErrNotListed, "token %d", t.Id)
	}
	if err := s.requireNoPayment(act); err != nil {
		return nil, err
	}

	cs := s.newChangeset(act)
	next := t.Copy()
	next.IsListed = false
	cs.put(t, next)
	return cs, nil
}
