package tui

import (
	"context"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/ledger"
	"github.com/mmynk/eatnsplit/internal/models"
	"github.com/mmynk/eatnsplit/internal/service"
)

// Snapshot is what the TUI renders.
type Snapshot struct {
	Friends    []*models.Friend
	SelectedID string
	Summary    calculator.Summary
}

// Ledger is the set of operations the TUI drives. It is satisfied by an
// in-process coordinator (Local) or a running server (Remote).
type Ledger interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	AddFriend(ctx context.Context, name, image string) (*models.Friend, error)
	SelectFriend(ctx context.Context, id string) (string, error)
	ClearSelection(ctx context.Context) error
	SubmitSplit(ctx context.Context, id string, in models.SplitInput) (*models.Friend, float64, error)
}

// Local drives a coordinator in the same process.
type Local struct {
	c *ledger.Coordinator
}

// NewLocal wraps c.
func NewLocal(c *ledger.Coordinator) *Local {
	return &Local{c: c}
}

func (l *Local) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := l.c.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Friends:    snap.Friends,
		SelectedID: snap.Selection.FriendID,
		Summary:    snap.Summary,
	}, nil
}

func (l *Local) AddFriend(ctx context.Context, name, image string) (*models.Friend, error) {
	return l.c.AddFriend(ctx, name, image)
}

func (l *Local) SelectFriend(ctx context.Context, id string) (string, error) {
	state, err := l.c.SelectFriend(ctx, id)
	return state.FriendID, err
}

func (l *Local) ClearSelection(context.Context) error {
	l.c.ClearSelection()
	return nil
}

func (l *Local) SubmitSplit(ctx context.Context, id string, in models.SplitInput) (*models.Friend, float64, error) {
	return l.c.SubmitSplitFor(ctx, id, in)
}

// Remote drives an eatnsplit server over Connect.
type Remote struct {
	client *service.LedgerServiceClient
}

// NewRemote wraps client.
func NewRemote(client *service.LedgerServiceClient) *Remote {
	return &Remote{client: client}
}

func (r *Remote) Snapshot(ctx context.Context) (Snapshot, error) {
	resp, err := r.client.ListFriends(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return Snapshot{}, err
	}
	friends := make([]*models.Friend, len(resp.Msg.Friends))
	for i := range resp.Msg.Friends {
		f := resp.Msg.Friends[i].Friend
		friends[i] = &f
	}
	return Snapshot{
		Friends:    friends,
		SelectedID: resp.Msg.SelectedID,
		Summary:    resp.Msg.Summary,
	}, nil
}

func (r *Remote) AddFriend(ctx context.Context, name, image string) (*models.Friend, error) {
	resp, err := r.client.AddFriend(ctx, connect.NewRequest(&service.AddFriendRequest{Name: name, Image: image}))
	if err != nil {
		return nil, err
	}
	return resp.Msg.Friend, nil
}

func (r *Remote) SelectFriend(ctx context.Context, id string) (string, error) {
	resp, err := r.client.SelectFriend(ctx, connect.NewRequest(&service.SelectFriendRequest{ID: id}))
	if err != nil {
		return "", err
	}
	return resp.Msg.SelectedID, nil
}

func (r *Remote) ClearSelection(ctx context.Context) error {
	_, err := r.client.ClearSelection(ctx, connect.NewRequest(&emptypb.Empty{}))
	return err
}

func (r *Remote) SubmitSplit(ctx context.Context, id string, in models.SplitInput) (*models.Friend, float64, error) {
	resp, err := r.client.SubmitSplit(ctx, connect.NewRequest(&service.SubmitSplitRequest{
		ID:          id,
		BillTotal:   in.BillTotal,
		UserExpense: in.UserExpense,
		Payer:       string(in.Payer),
	}))
	if err != nil {
		return nil, 0, err
	}
	return resp.Msg.Friend, resp.Msg.Delta, nil
}
