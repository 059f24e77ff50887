package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/models"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "eatnsplit.v1.LedgerService"

// Procedure paths of the ledger service.
const (
	LedgerServiceAddFriendProcedure      = "/eatnsplit.v1.LedgerService/AddFriend"
	LedgerServiceSelectFriendProcedure   = "/eatnsplit.v1.LedgerService/SelectFriend"
	LedgerServiceClearSelectionProcedure = "/eatnsplit.v1.LedgerService/ClearSelection"
	LedgerServiceSubmitSplitProcedure    = "/eatnsplit.v1.LedgerService/SubmitSplit"
	LedgerServiceListFriendsProcedure    = "/eatnsplit.v1.LedgerService/ListFriends"
)

// AddFriendRequest creates a friend.
type AddFriendRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// AddFriendResponse returns the created friend.
type AddFriendResponse struct {
	Friend *models.Friend `json:"friend"`
}

// SelectFriendRequest toggles the selection of one friend.
type SelectFriendRequest struct {
	ID string `json:"id"`
}

// SelectionResponse reports the selection after a change. SelectedID is empty when nobody is selected.
type SelectionResponse struct {
	SelectedID string `json:"selected_id"`
}

// SubmitSplitRequest splits a bill with the selected friend.
// ID is optional; when set it must name the selected friend.
type SubmitSplitRequest struct {
	ID          string   `json:"id,omitempty"`
	BillTotal   *float64 `json:"bill_total"`
	UserExpense *float64 `json:"user_expense"`
	Payer       string   `json:"payer"`
}

// SubmitSplitResponse returns the updated friend and the delta applied.
type SubmitSplitResponse struct {
	Friend *models.Friend `json:"friend"`
	Delta  float64        `json:"delta"`
}

// FriendView is a friend plus the balance line shown under their name.
type FriendView struct {
	models.Friend
	Status string `json:"status"`
}

// ListFriendsResponse is the whole ledger as the presentation layer renders it.
type ListFriendsResponse struct {
	Friends    []FriendView       `json:"friends"`
	SelectedID string             `json:"selected_id"`
	Summary    calculator.Summary `json:"summary"`
}

// LedgerServiceHandler is implemented by LedgerService.
type LedgerServiceHandler interface {
	AddFriend(context.Context, *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error)
	SelectFriend(context.Context, *connect.Request[SelectFriendRequest]) (*connect.Response[SelectionResponse], error)
	ClearSelection(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[SelectionResponse], error)
	SubmitSplit(context.Context, *connect.Request[SubmitSplitRequest]) (*connect.Response[SubmitSplitResponse], error)
	ListFriends(context.Context, *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendsResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for the ledger service.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	addFriend := connect.NewUnaryHandler(LedgerServiceAddFriendProcedure, svc.AddFriend, opts...)
	selectFriend := connect.NewUnaryHandler(LedgerServiceSelectFriendProcedure, svc.SelectFriend, opts...)
	clearSelection := connect.NewUnaryHandler(LedgerServiceClearSelectionProcedure, svc.ClearSelection, opts...)
	submitSplit := connect.NewUnaryHandler(LedgerServiceSubmitSplitProcedure, svc.SubmitSplit, opts...)
	listFriends := connect.NewUnaryHandler(LedgerServiceListFriendsProcedure, svc.ListFriends, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceAddFriendProcedure:
			addFriend.ServeHTTP(w, r)
		case LedgerServiceSelectFriendProcedure:
			selectFriend.ServeHTTP(w, r)
		case LedgerServiceClearSelectionProcedure:
			clearSelection.ServeHTTP(w, r)
		case LedgerServiceSubmitSplitProcedure:
			submitSplit.ServeHTTP(w, r)
		case LedgerServiceListFriendsProcedure:
			listFriends.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient calls a remote ledger service.
type LedgerServiceClient struct {
	addFriend      *connect.Client[AddFriendRequest, AddFriendResponse]
	selectFriend   *connect.Client[SelectFriendRequest, SelectionResponse]
	clearSelection *connect.Client[emptypb.Empty, SelectionResponse]
	submitSplit    *connect.Client[SubmitSplitRequest, SubmitSplitResponse]
	listFriends    *connect.Client[emptypb.Empty, ListFriendsResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)

	return &LedgerServiceClient{
		addFriend:      connect.NewClient[AddFriendRequest, AddFriendResponse](httpClient, baseURL+LedgerServiceAddFriendProcedure, opts...),
		selectFriend:   connect.NewClient[SelectFriendRequest, SelectionResponse](httpClient, baseURL+LedgerServiceSelectFriendProcedure, opts...),
		clearSelection: connect.NewClient[emptypb.Empty, SelectionResponse](httpClient, baseURL+LedgerServiceClearSelectionProcedure, opts...),
		submitSplit:    connect.NewClient[SubmitSplitRequest, SubmitSplitResponse](httpClient, baseURL+LedgerServiceSubmitSplitProcedure, opts...),
		listFriends:    connect.NewClient[emptypb.Empty, ListFriendsResponse](httpClient, baseURL+LedgerServiceListFriendsProcedure, opts...),
	}
}

// AddFriend calls eatnsplit.v1.LedgerService.AddFriend.
func (c *LedgerServiceClient) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error) {
	return c.addFriend.CallUnary(ctx, req)
}

// SelectFriend calls eatnsplit.v1.LedgerService.SelectFriend.
func (c *LedgerServiceClient) SelectFriend(ctx context.Context, req *connect.Request[SelectFriendRequest]) (*connect.Response[SelectionResponse], error) {
	return c.selectFriend.CallUnary(ctx, req)
}

// ClearSelection calls eatnsplit.v1.LedgerService.ClearSelection.
func (c *LedgerServiceClient) ClearSelection(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[SelectionResponse], error) {
	return c.clearSelection.CallUnary(ctx, req)
}

// SubmitSplit calls eatnsplit.v1.LedgerService.SubmitSplit.
func (c *LedgerServiceClient) SubmitSplit(ctx context.Context, req *connect.Request[SubmitSplitRequest]) (*connect.Response[SubmitSplitResponse], error) {
	return c.submitSplit.CallUnary(ctx, req)
}

// ListFriends calls eatnsplit.v1.LedgerService.ListFriends.
func (c *LedgerServiceClient) ListFriends(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendsResponse], error) {
	return c.listFriends.CallUnary(ctx, req)
}
