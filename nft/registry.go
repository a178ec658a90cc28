package nft

import (
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

func (s *State) planGenesis(act *Action) (*Changeset, error) {
	if s.props.Sequence != 0 {
		return nil, errors.Wrap(ErrUnauthorized, "genesis already applied")
	}
	if err := s.requireNoPayment(act); err != nil {
		return nil, err
	}
	cs := s.newChangeset(act)
	cs.Properties.Admin = act.Caller
	cs.Properties.ListingFee = act.Fee
	return cs, nil
}

func (s *State) planMint(act *Action) (*Changeset, error) {
	if id, ok := s.uris[act.URI]; ok {
		return nil, errors.Wrapf(ErrDuplicateURI, "%s reserved by token %d", act.URI, id)
	}
	if act.Price < 1 {
		return nil, errors.Wrapf(ErrInvalidPrice, "mint price %d", act.Price)
	}
	if act.Payment != s.props.ListingFee {
		return nil, errors.Wrapf(ErrInsufficientFee, "paid %d for fee %d", act.Payment, s.props.ListingFee)
	}

	cs := s.newChangeset(act)
	err := s.credit(cs, s.props.Admin, act.Payment)
	if err != nil {
		return nil, err
	}
	cs.Properties.Minted += 1
	cs.Properties.Live += 1
	cs.put(nil, &Token{
		Id:         cs.Properties.Minted,
		URI:        act.URI,
		Creator:    act.Caller,
		Owner:      act.Caller,
		Price:      act.Price,
		IsListed:   true,
		ListedAt:   act.Sequence,
		AcquiredAt: act.Sequence,
	})
	return cs, nil
}

func (s *State) planSetListingFee(act *Action) (*Changeset, error) {
	if act.Caller != s.props.Admin {
		return nil, errors.Wrapf(ErrUnauthorized, "%s is not the admin", act.Caller)
	}
	if err := s.requireNoPayment(act); err != nil {
		return nil, err
	}
	cs := s.newChangeset(act)
	cs.Properties.ListingFee = act.Fee
	return cs, nil
}

func (s *State) planBurn(act *Action) (*Changeset, error) {
	t, err := s.token(act.TokenId)
	if err != nil {
		return nil, err
	}
	if t.Owner != act.Caller {
		return nil, errors.Wrapf(ErrUnauthorized, "burn token %d owned by %s", t.Id, t.Owner)
	}
	if err := s.requireNoPayment(act); err != nil {
		return nil, err
	}

	cs := s.newChangeset(act)
	next := t.Copy()
	next.Burned = true
	next.IsListed = false
	next.Owner = uuid.Nil
	cs.Properties.Live -= 1
	cs.put(t, next)
	return cs, nil
}

func (s *State) OwnerOf(id uint64) (uuid.UUID, error) {
	t, err := s.token(id)
	if err != nil {
		return uuid.Nil, err
	}
	return t.Owner, nil
}

func (s *State) TokenURI(id uint64) (string, error) {
	t, err := s.token(id)
	if err != nil {
		return "", err
	}
	return t.URI, nil
}

// NftItem returns a copy of the live token record.
func (s *State) NftItem(id uint64) (*Token, error) {
	t, err := s.token(id)
	if err != nil {
		return nil, err
	}
	return t.Copy(), nil
}

func (s *State) ListingFee() uint64 {
	return s.props.ListingFee
}

func (s *State) Admin() uuid.UUID {
	return s.props.Admin
}

func (s *State) Sequence() uint64 {
	return s.props.Sequence
}
