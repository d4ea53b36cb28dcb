package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/paperwallet-backend/internal/adapter/identity"
)

const testCoins = `{"status":"success","data":{"coins":[
  {"uuid":"Qwsogvtv82FCd","symbol":"BTC","name":"Bitcoin","price":"100","rank":1,"change":"2.5","marketCap":"1300000000000"},
  {"uuid":"razxDUgYGNAdQ","symbol":"ETH","name":"Ethereum","price":"50","rank":2,"change":"-1","marketCap":"400000000000"}
]}}`

func setupCLI(t *testing.T) {
	t.Helper()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testCoins))
	}))
	t.Cleanup(api.Close)

	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("COINRANKING_BASE_URL", api.URL)
	t.Setenv("COINRANKING_API_KEY", "")
	t.Setenv("INITIAL_BALANCE", "10000")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("JWT_SECRET", "")

	dbPath = filepath.Join(t.TempDir(), "wallet.db")
	cfgFile, storeFlag, logLevel = "", "", ""
	historyLimit, historyOffset, coinsLimit = 20, 0, 20
	resetConfirm = false
	profileUsername, profileEmail, profilePicture = "", "", ""
	tokenUser, tokenName, tokenTTL = identity.LocalUserID, "", 24*time.Hour
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestCLI_TradingSession(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "balance")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance: $10,000.00")

	out, err = run(t, "buy", "btc", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Bought 2 BTC @ $100.00 ($200.00)")
	assert.Contains(t, out, "Balance: $9,800.00")

	out, err = run(t, "holdings")
	require.NoError(t, err)
	assert.Contains(t, out, "BTC")
	assert.Contains(t, out, "$100.00")

	_, err = run(t, "sell", "BTC", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient coin quantity to sell")

	out, err = run(t, "sell", "Bitcoin", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Sold 0.5 BTC")
	assert.Contains(t, out, "Balance: $9,850.00")

	out, err = run(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "sell")
	assert.Contains(t, out, "buy")
	assert.Contains(t, out, "2 of 2 trades")

	out, err = run(t, "value")
	require.NoError(t, err)
	assert.Contains(t, out, "Total:    $10,000.00")
	assert.Contains(t, out, "Profit:   $0.00")
}

func TestCLI_InvalidInput(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "buy", "BTC", "many")
	assert.ErrorContains(t, err, "invalid quantity")

	_, err = run(t, "buy", "DOGE", "1")
	assert.ErrorContains(t, err, "coin not found")

	_, err = run(t, "buy", "BTC", "1000")
	assert.ErrorContains(t, err, "insufficient balance")
}

func TestCLI_Coins(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "coins", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Bitcoin")
	assert.Contains(t, out, "1.3 T")
	assert.NotContains(t, out, "Ethereum")
}

func TestCLI_Profile(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "profile")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: Username")

	out, err = run(t, "profile", "--username", "satoshi", "--email", "satoshi@example.org")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: satoshi")
	assert.Contains(t, out, "Email:    satoshi@example.org")

	profileUsername, profileEmail = "", ""
	_, err = run(t, "profile", "--email", "broken")
	assert.ErrorContains(t, err, "invalid input")
}

func TestCLI_Reset(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "buy", "ETH", "10")
	require.NoError(t, err)

	_, err = run(t, "reset")
	assert.ErrorContains(t, err, "--yes")

	out, err := run(t, "reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet reset to $10,000.00")

	out, err = run(t, "holdings")
	require.NoError(t, err)
	assert.Contains(t, out, "No holdings")
}

func TestCLI_HistoryHugeLimit(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "buy", "BTC", "1")
	require.NoError(t, err)
	_, err = run(t, "buy", "ETH", "1")
	require.NoError(t, err)

	out, err := run(t, "history", "--offset", "1", "--limit", "9223372036854775807")
	require.NoError(t, err)
	assert.Contains(t, out, "1 of 2 trades")
}

func TestCLI_Token(t *testing.T) {
	setupCLI(t)

	_, err := run(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is not set")

	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "token", "--user", "alice", "--name", "Alice", "--ttl", "1h")
	require.NoError(t, err)

	user, err := identity.NewJWTProvider("cli-secret").Authenticate(context.Background(), strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "alice", user.ID)
	assert.Equal(t, "Alice", user.Name)
}
