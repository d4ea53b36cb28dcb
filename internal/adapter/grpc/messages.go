package grpc

// Wire messages of paperwallet.v1.WalletService.
// Decimal values travel as strings, timestamps as RFC 3339.

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Balance string `json:"balance"`
}

// TradeRequest is shared by Buy and Sell.
// Coin may be a symbol, a coin name or a catalog id.
type TradeRequest struct {
	Coin     string `json:"coin"`
	Quantity string `json:"quantity"`
}

type TradeResponse struct {
	Transaction *Transaction `json:"transaction"`
	Balance     string       `json:"balance"`
}

type Transaction struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Coin     string `json:"coin"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

type ListHoldingsRequest struct{}

type ListHoldingsResponse struct {
	Holdings []*Holding `json:"holdings"`
}

type Holding struct {
	Coin           string `json:"coin"`
	Quantity       string `json:"quantity"`
	ReferencePrice string `json:"reference_price"`
}

type ListTransactionsRequest struct {
	Limit       int32 `json:"limit"`
	Offset      int32 `json:"offset"`
	NewestFirst bool  `json:"newest_first"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
	TotalCount   int32          `json:"total_count"`
}

type GetPortfolioValueRequest struct{}

type GetPortfolioValueResponse struct {
	CashBalance   string          `json:"cash_balance"`
	HoldingsValue string          `json:"holdings_value"`
	Total         string          `json:"total"`
	Profit        string          `json:"profit"`
	Holdings      []*HoldingValue `json:"holdings"`
}

type HoldingValue struct {
	Coin        string `json:"coin"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	MarketValue string `json:"market_value"`
	Stale       bool   `json:"stale"`
}

type ListCoinsRequest struct{}

type ListCoinsResponse struct {
	Coins []*Coin `json:"coins"`
}

type Coin struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	IconURL   string `json:"icon_url"`
	Rank      int32  `json:"rank"`
	Change    string `json:"change"`
	MarketCap string `json:"market_cap"`
}

type GetProfileRequest struct{}

type UpdateProfileRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	PictureURL string `json:"picture_url"`
}

type ProfileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	PictureURL string `json:"picture_url"`
}

type ResetWalletRequest struct{}

type ResetWalletResponse struct {
	Balance string `json:"balance"`
}
