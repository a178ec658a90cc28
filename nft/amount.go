package nft

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// UnitPrecision is the number of decimal places of one base unit, amounts in
// the ledger are integer base units of the configured asset.
const UnitPrecision = 8

func ParseUnits(amount decimal.Decimal) (uint64, error) {
	u := amount.Shift(UnitPrecision)
	if u.Sign() < 0 || !u.IsInteger() {
		return 0, errors.Errorf("invalid amount %s", amount)
	}
	b := u.BigInt()
	if !b.IsUint64() {
		return 0, errors.Wrapf(ErrAmountOverflow, "amount %s", amount)
	}
	return b.Uint64(), nil
}

func FormatUnits(units uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -UnitPrecision).String()
}
