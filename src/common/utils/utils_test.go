package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type priceReq struct {
	Amount decimal.Decimal `validate:"required,dprice"`
}

func TestVerifyDecimalPrice(t *testing.T) {
	require.NoError(t, Verify(&priceReq{Amount: decimal.NewFromInt(10000)}))
	require.Error(t, Verify(&priceReq{Amount: decimal.NewFromInt(0)}))
	require.Error(t, Verify(&priceReq{Amount: decimal.NewFromInt(-1)}))
}
