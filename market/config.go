package market

import (
	"github.com/MixinNetwork/nfm/nft"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Configuration struct {
	Admin      string `toml:"admin"`
	ListingFee string `toml:"listing-fee"`
}

// Validate returns the genesis admin and listing fee in base units.
func (conf *Configuration) Validate() (uuid.UUID, uint64, error) {
	admin, err := uuid.FromString(conf.Admin)
	if err != nil || admin == uuid.Nil {
		return uuid.Nil, 0, errors.Errorf("invalid market admin %s", conf.Admin)
	}
	amount, err := decimal.NewFromString(conf.ListingFee)
	if err != nil {
		return uuid.Nil, 0, errors.Errorf("invalid listing fee %s", conf.ListingFee)
	}
	fee, err := nft.ParseUnits(amount)
	if err != nil {
		return uuid.Nil, 0, err
	}
	return admin, fee, nil
}
