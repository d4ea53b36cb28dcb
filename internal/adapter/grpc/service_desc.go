package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "paperwallet.v1.WalletService"

// WalletServiceServer is the server API for paperwallet.v1.WalletService
type WalletServiceServer interface {
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	Buy(context.Context, *TradeRequest) (*TradeResponse, error)
	Sell(context.Context, *TradeRequest) (*TradeResponse, error)
	ListHoldings(context.Context, *ListHoldingsRequest) (*ListHoldingsResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	GetPortfolioValue(context.Context, *GetPortfolioValueRequest) (*GetPortfolioValueResponse, error)
	ListCoins(context.Context, *ListCoinsRequest) (*ListCoinsResponse, error)
	GetProfile(context.Context, *GetProfileRequest) (*ProfileResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*ProfileResponse, error)
	ResetWallet(context.Context, *ResetWalletRequest) (*ResetWalletResponse, error)
}

// RegisterWalletServiceServer registers srv on s
func RegisterWalletServiceServer(s grpc.ServiceRegistrar, srv WalletServiceServer) {
	s.RegisterService(&walletServiceDesc, srv)
}

var walletServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WalletServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetBalance", Handler: unaryHandler("GetBalance", WalletServiceServer.GetBalance)},
		{MethodName: "Buy", Handler: unaryHandler("Buy", WalletServiceServer.Buy)},
		{MethodName: "Sell", Handler: unaryHandler("Sell", WalletServiceServer.Sell)},
		{MethodName: "ListHoldings", Handler: unaryHandler("ListHoldings", WalletServiceServer.ListHoldings)},
		{MethodName: "ListTransactions", Handler: unaryHandler("ListTransactions", WalletServiceServer.ListTransactions)},
		{MethodName: "GetPortfolioValue", Handler: unaryHandler("GetPortfolioValue", WalletServiceServer.GetPortfolioValue)},
		{MethodName: "ListCoins", Handler: unaryHandler("ListCoins", WalletServiceServer.ListCoins)},
		{MethodName: "GetProfile", Handler: unaryHandler("GetProfile", WalletServiceServer.GetProfile)},
		{MethodName: "UpdateProfile", Handler: unaryHandler("UpdateProfile", WalletServiceServer.UpdateProfile)},
		{MethodName: "ResetWallet", Handler: unaryHandler("ResetWallet", WalletServiceServer.ResetWallet)},
	},
	Streams: []grpc.StreamDesc{},
}

// unaryHandler adapts a typed server method to grpc.MethodHandler
func unaryHandler[Req, Resp any](method string, call func(WalletServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WalletServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(WalletServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// WalletServiceClient is the client API for paperwallet.v1.WalletService.
// Every call is sent with the JSON content-subtype.
type WalletServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWalletServiceClient creates a client on top of cc
func NewWalletServiceClient(cc grpc.ClientConnInterface) *WalletServiceClient {
	return &WalletServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *WalletServiceClient, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *WalletServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return invoke[GetBalanceResponse](ctx, c, "GetBalance", in, opts)
}

func (c *WalletServiceClient) Buy(ctx context.Context, in *TradeRequest, opts ...grpc.CallOption) (*TradeResponse, error) {
	return invoke[TradeResponse](ctx, c, "Buy", in, opts)
}

func (c *WalletServiceClient) Sell(ctx context.Context, in *TradeRequest, opts ...grpc.CallOption) (*TradeResponse, error) {
	return invoke[TradeResponse](ctx, c, "Sell", in, opts)
}

func (c *WalletServiceClient) ListHoldings(ctx context.Context, in *ListHoldingsRequest, opts ...grpc.CallOption) (*ListHoldingsResponse, error) {
	return invoke[ListHoldingsResponse](ctx, c, "ListHoldings", in, opts)
}

func (c *WalletServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c, "ListTransactions", in, opts)
}

func (c *WalletServiceClient) GetPortfolioValue(ctx context.Context, in *GetPortfolioValueRequest, opts ...grpc.CallOption) (*GetPortfolioValueResponse, error) {
	return invoke[GetPortfolioValueResponse](ctx, c, "GetPortfolioValue", in, opts)
}

func (c *WalletServiceClient) ListCoins(ctx context.Context, in *ListCoinsRequest, opts ...grpc.CallOption) (*ListCoinsResponse, error) {
	return invoke[ListCoinsResponse](ctx, c, "ListCoins", in, opts)
}

func (c *WalletServiceClient) GetProfile(ctx context.Context, in *GetProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "GetProfile", in, opts)
}

func (c *WalletServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c, "UpdateProfile", in, opts)
}

func (c *WalletServiceClient) ResetWallet(ctx context.Context, in *ResetWalletRequest, opts ...grpc.CallOption) (*ResetWalletResponse, error) {
	return invoke[ResetWalletResponse](ctx, c, "ResetWallet", in, opts)
}
