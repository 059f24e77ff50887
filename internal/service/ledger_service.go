package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/events"
	"github.com/mmynk/eatnsplit/internal/ledger"
	"github.com/mmynk/eatnsplit/internal/metrics"
	"github.com/mmynk/eatnsplit/internal/models"
	"github.com/mmynk/eatnsplit/internal/storage"
)

// Ensure LedgerService implements LedgerServiceHandler
var _ LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService exposes the ledger coordinator over Connect and REST.
// Events and metrics are recorded after the coordinator has committed.
type LedgerService struct {
	ledger    *ledger.Coordinator
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithPublisher sends ledger events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithMetrics records ledger activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// NewLedgerService creates a LedgerService over the given coordinator.
func NewLedgerService(l *ledger.Coordinator, opts ...Option) *LedgerService {
	s := &LedgerService{
		ledger:    l,
		publisher: events.Nop{},
		metrics:   metrics.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddFriend creates a new friend with a zero balance.
func (s *LedgerService) AddFriend(ctx context.Context, req *connect.Request[AddFriendRequest]) (*connect.Response[AddFriendResponse], error) {
	friend, err := s.addFriend(ctx, req.Msg.Name, req.Msg.Image)
	if err != nil {
		return nil, connect.NewError(codeFor(err), err)
	}
	return connect.NewResponse(&AddFriendResponse{Friend: friend}), nil
}

// SelectFriend toggles the selection of a friend.
func (s *LedgerService) SelectFriend(ctx context.Context, req *connect.Request[SelectFriendRequest]) (*connect.Response[SelectionResponse], error) {
	state, err := s.selectFriend(ctx, req.Msg.ID)
	if err != nil {
		return nil, connect.NewError(codeFor(err), err)
	}
	return connect.NewResponse(&SelectionResponse{SelectedID: state}), nil
}

// ClearSelection deselects whoever is selected.
func (s *LedgerService) ClearSelection(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[SelectionResponse], error) {
	slog.Info("ClearSelection request received")
	s.ledger.ClearSelection()
	return connect.NewResponse(&SelectionResponse{}), nil
}

// SubmitSplit applies a bill split to the selected friend.
func (s *LedgerService) SubmitSplit(ctx context.Context, req *connect.Request[SubmitSplitRequest]) (*connect.Response[SubmitSplitResponse], error) {
	resp, err := s.submitSplit(ctx, req.Msg)
	if err != nil {
		return nil, connect.NewError(codeForSplit(err), err)
	}
	return connect.NewResponse(resp), nil
}

// ListFriends returns every friend, the selection and the totals.
func (s *LedgerService) ListFriends(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[ListFriendsResponse], error) {
	resp, err := s.listFriends(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(resp), nil
}

func (s *LedgerService) addFriend(ctx context.Context, name, image string) (*models.Friend, error) {
	slog.Info("AddFriend request received", "name", name)

	friend, err := s.ledger.AddFriend(ctx, name, image)
	if err != nil {
		slog.Error("AddFriend failed", "error", err)
		return nil, err
	}

	slog.Info("Friend created", "friend_id", friend.ID)
	s.metrics.FriendsAdded.Inc()
	s.publish(ctx, events.NewFriendAdded(friend))
	s.refreshGauges(ctx)
	return friend, nil
}

func (s *LedgerService) selectFriend(ctx context.Context, friendID string) (string, error) {
	slog.Info("SelectFriend request received", "friend_id", friendID)

	state, err := s.ledger.SelectFriend(ctx, friendID)
	if err != nil {
		slog.Error("SelectFriend failed", "friend_id", friendID, "error", err)
		return "", err
	}

	slog.Info("Selection changed", "selected_id", state.FriendID)
	return state.FriendID, nil
}

func (s *LedgerService) submitSplit(ctx context.Context, req *SubmitSplitRequest) (*SubmitSplitResponse, error) {
	slog.Info("SubmitSplit request received",
		"friend_id", req.ID,
		"payer", req.Payer,
	)

	// An unknown payer is passed through so the ledger rejects it in its usual order.
	payer, err := models.ParsePayer(req.Payer)
	if err != nil {
		payer = models.Payer(req.Payer)
	}

	in := models.SplitInput{BillTotal: req.BillTotal, UserExpense: req.UserExpense, Payer: payer}
	friend, delta, err := s.ledger.SubmitSplitFor(ctx, req.ID, in)
	if err != nil {
		s.metrics.ObserveRejection(rejectionReason(err))
		slog.Error("SubmitSplit failed", "friend_id", req.ID, "error", err)
		return nil, err
	}

	slog.Info("Split applied",
		"friend_id", friend.ID,
		"delta", delta,
		"balance", friend.Balance,
	)
	s.metrics.ObserveSplit(payer)
	s.publish(ctx, events.NewSplitApplied(friend, delta, payer))
	s.refreshGauges(ctx)
	return &SubmitSplitResponse{Friend: friend, Delta: delta}, nil
}

func (s *LedgerService) listFriends(ctx context.Context) (*ListFriendsResponse, error) {
	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		slog.Error("ListFriends failed", "error", err)
		return nil, err
	}

	views := make([]FriendView, len(snap.Friends))
	for i, f := range snap.Friends {
		_, status := calculator.Status(*f)
		views[i] = FriendView{Friend: *f, Status: status}
	}

	slog.Debug("ListFriends successful", "count", len(views))
	return &ListFriendsResponse{
		Friends:    views,
		SelectedID: snap.Selection.FriendID,
		Summary:    snap.Summary,
	}, nil
}

func (s *LedgerService) publish(ctx context.Context, e events.Event) {
	err := s.publisher.Publish(ctx, e)
	s.metrics.ObserveEvent(e.RoutingKey(), err)
	if err != nil {
		slog.Warn("Failed to publish ledger event", "routing_key", e.RoutingKey(), "error", err)
	}
}

func (s *LedgerService) refreshGauges(ctx context.Context) {
	snap, err := s.ledger.Snapshot(ctx)
	if err != nil {
		slog.Warn("Failed to refresh ledger gauges", "error", err)
		return
	}
	s.metrics.SetLedger(len(snap.Friends), snap.Summary)
}

// codeFor maps ledger errors to Connect codes.
func codeFor(err error) connect.Code {
	switch {
	case errors.Is(err, ledger.ErrFriendIncomplete),
		errors.Is(err, calculator.ErrValidationIncomplete),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrExpenseExceedsBill),
		errors.Is(err, calculator.ErrInvalidPayer):
		return connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrNoSelection),
		errors.Is(err, ledger.ErrSelectionMismatch):
		return connect.CodeFailedPrecondition
	case errors.Is(err, storage.ErrNotFound):
		return connect.CodeNotFound
	default:
		return connect.CodeInternal
	}
}

// codeForSplit is codeFor except that a missing friend during a split is an
// internal fault: the selected friend should always exist.
func codeForSplit(err error) connect.Code {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.CodeInternal
	}
	return codeFor(err)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ledger.ErrNoSelection):
		return "no_selection"
	case errors.Is(err, ledger.ErrSelectionMismatch):
		return "not_selected"
	case errors.Is(err, calculator.ErrValidationIncomplete):
		return "incomplete"
	case errors.Is(err, calculator.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, calculator.ErrExpenseExceedsBill):
		return "exceeds_bill"
	case errors.Is(err, calculator.ErrInvalidPayer):
		return "invalid_payer"
	default:
		return "internal"
	}
}
