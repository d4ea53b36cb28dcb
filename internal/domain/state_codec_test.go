package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeState_RoundTrip(t *testing.T) {
	l := newTestLedger(t, "10000")
	_, err := l.Buy("BTC", d("0.125"), d("64000.55"))
	require.NoError(t, err)
	_, err = l.Buy("ETH", d("3"), d("3100"))
	require.NoError(t, err)
	_, err = l.Sell("ETH", d("1.5"), d("3200.10"))
	require.NoError(t, err)

	balance, transactions, err := EncodeState(l.State())
	require.NoError(t, err)

	state, err := DecodeState(balance, transactions)
	require.NoError(t, err)

	assert.False(t, state.Legacy)
	assert.True(t, state.CashBalance.Equal(l.CashBalance()))
	original := l.Transactions()
	require.Len(t, state.Transactions, len(original))
	for i := range original {
		assert.Equal(t, original[i].ID, state.Transactions[i].ID)
		assert.Equal(t, original[i].Type, state.Transactions[i].Type)
		assert.Equal(t, original[i].Coin, state.Transactions[i].Coin)
		assert.True(t, original[i].Quantity.Equal(state.Transactions[i].Quantity))
		assert.True(t, original[i].Price.Equal(state.Transactions[i].Price))
		assert.True(t, original[i].Timestamp.Equal(state.Transactions[i].Timestamp))
	}

	restored, err := RestoreLedger(d("10000"), state)
	require.NoError(t, err)
	assert.True(t, restored.CashBalance().Equal(l.CashBalance()))
}

func TestDecodeState_LegacyFormat(t *testing.T) {
	id := uuid.New()
	legacy := `[{"id":"` + id.String() + `","type":"buy","coin":"Bitcoin","quantity":2,"price":100.5,"date":"2024-03-04 10:11:12"}]`

	state, err := DecodeState("9799", legacy)

	require.NoError(t, err)
	require.Len(t, state.Transactions, 1)
	tx := state.Transactions[0]
	assert.Equal(t, id, tx.ID)
	assert.Equal(t, TransactionTypeBuy, tx.Type)
	assert.Equal(t, "Bitcoin", tx.Coin)
	assert.True(t, tx.Quantity.Equal(d("2")))
	assert.True(t, tx.Price.Equal(d("100.5")))
	assert.True(t, tx.Timestamp.Equal(time.Date(2024, 3, 4, 10, 11, 12, 0, time.Local)))
	assert.True(t, state.CashBalance.Equal(d("9799")))
	assert.True(t, state.Legacy)
}

func TestDecodeState_EmptyLog(t *testing.T) {
	state, err := DecodeState("10000", "[]")

	require.NoError(t, err)
	assert.Empty(t, state.Transactions)
}

func TestDecodeState_Corrupt(t *testing.T) {
	tests := []struct {
		name         string
		balance      string
		transactions string
	}{
		{"Balance not a number", "lots", "[]"},
		{"Empty transactions", "10", ""},
		{"Null transactions", "10", "null"},
		{"Transactions not JSON", "10", "{oops"},
		{"Transactions not an array", "10", `{"id":"x"}`},
		{"Bad id", "10", `[{"id":"nope","type":"buy","coin":"BTC","quantity":1,"price":1,"date":"2024-03-04 10:11:12"}]`},
		{"Bad type", "10", `[{"id":"` + uuid.NewString() + `","type":"hold","coin":"BTC","quantity":1,"price":1,"date":"2024-03-04 10:11:12"}]`},
		{"Bad date", "10", `[{"id":"` + uuid.NewString() + `","type":"buy","coin":"BTC","quantity":1,"price":1,"date":"yesterday"}]`},
		{"Bad quantity", "10", `[{"id":"` + uuid.NewString() + `","type":"buy","coin":"BTC","quantity":"many","price":1,"date":"2024-03-04 10:11:12"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState(tt.balance, tt.transactions)
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestDecodeInitialBalance(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"Integer", "10000", "10000", false},
		{"Padded decimal", " 2500.50 ", "2500.5", false},
		{"Zero", "0", "0", false},
		{"Not a number", "plenty", "", true},
		{"Negative", "-1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInitialBalance(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrCorruptState)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s", got)
		})
	}
}
