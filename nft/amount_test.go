package nft

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestUnits(t *testing.T) {
	require := require.New(t)

	for amount, units := range map[string]uint64{
		"0":          0,
		"0.00000001": 1,
		"0.025":      2500000,
		"3":          300000000,
	} {
		u, err := ParseUnits(decimal.RequireFromString(amount))
		require.Nil(err)
		require.Equal(units, u)
		require.Equal(amount, FormatUnits(u))
	}

	_, err := ParseUnits(decimal.RequireFromString("0.000000001"))
	require.NotNil(err)
	_, err = ParseUnits(decimal.RequireFromString("-1"))
	require.NotNil(err)
	_, err = ParseUnits(decimal.RequireFromString("184467440737.09551616"))
	require.True(errors.Is(err, ErrAmountOverflow))
	u, err := ParseUnits(decimal.RequireFromString("184467440737.09551615"))
	require.Nil(err)
	require.Equal(uint64(18446744073709551615), u)
}
