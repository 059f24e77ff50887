package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/eatnsplit/internal/events"
	"github.com/mmynk/eatnsplit/internal/ledger"
	"github.com/mmynk/eatnsplit/internal/metrics"
	"github.com/mmynk/eatnsplit/internal/storage"
	"github.com/mmynk/eatnsplit/internal/storage/memory"
)

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, len(p.events))
	for i, e := range p.events {
		keys[i] = e.RoutingKey()
	}
	return keys
}

type testEnv struct {
	client    *LedgerServiceClient
	ledger    *ledger.Coordinator
	publisher *recordingPublisher
	metrics   *metrics.Metrics
	server    *httptest.Server
}

// setupTestServer serves the Connect handler and the REST routes from one mux.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	n := 0
	ids := ledger.IDGeneratorFunc(func() string {
		n++
		return fmt.Sprintf("friend-%d", n)
	})
	coord := ledger.New(memory.New(), ids)
	pub := &recordingPublisher{}
	m := metrics.New()
	svc := NewLedgerService(coord, WithPublisher(pub), WithMetrics(m))

	mux := http.NewServeMux()
	path, handler := NewLedgerServiceHandler(svc)
	mux.Handle(path, handler)
	svc.RegisterREST(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		client:    NewLedgerServiceClient(http.DefaultClient, server.URL),
		ledger:    coord,
		publisher: pub,
		metrics:   m,
		server:    server,
	}
}

func ptr(v float64) *float64 { return &v }

func (e *testEnv) addFriend(t *testing.T, name string) string {
	t.Helper()
	resp, err := e.client.AddFriend(context.Background(), connect.NewRequest(&AddFriendRequest{
		Name:  name,
		Image: ledger.DefaultImage,
	}))
	if err != nil {
		t.Fatalf("AddFriend(%s) failed: %v", name, err)
	}
	return resp.Msg.Friend.ID
}

func (e *testEnv) selectFriend(t *testing.T, id string) {
	t.Helper()
	resp, err := e.client.SelectFriend(context.Background(), connect.NewRequest(&SelectFriendRequest{ID: id}))
	if err != nil {
		t.Fatalf("SelectFriend(%s) failed: %v", id, err)
	}
	if resp.Msg.SelectedID != id {
		t.Fatalf("SelectedID = %q, want %q", resp.Msg.SelectedID, id)
	}
}

func TestAddFriend(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.client.AddFriend(context.Background(), connect.NewRequest(&AddFriendRequest{
		Name:  "Sarah",
		Image: ledger.DefaultImage,
	}))
	if err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}

	f := resp.Msg.Friend
	if f == nil {
		t.Fatal("expected friend in response")
	}
	if f.ID != "friend-1" || f.Name != "Sarah" || f.Balance != 0 {
		t.Errorf("friend = %+v, want friend-1/Sarah/0", f)
	}
	if got := env.publisher.keys(); len(got) != 1 || got[0] != events.TypeFriendAdded {
		t.Errorf("published = %v, want [%s]", got, events.TypeFriendAdded)
	}
	if got := testutil.ToFloat64(env.metrics.FriendsAdded); got != 1 {
		t.Errorf("friends_added_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(env.metrics.Friends); got != 1 {
		t.Errorf("friends gauge = %v, want 1", got)
	}
}

func TestAddFriend_Incomplete(t *testing.T) {
	env := setupTestServer(t)

	tests := []struct {
		name string
		req  *AddFriendRequest
	}{
		{"missing name", &AddFriendRequest{Image: ledger.DefaultImage}},
		{"blank name", &AddFriendRequest{Name: "   ", Image: ledger.DefaultImage}},
		{"missing image", &AddFriendRequest{Name: "Sarah"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.AddFriend(context.Background(), connect.NewRequest(tt.req))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("code = %v, want InvalidArgument (err: %v)", connect.CodeOf(err), err)
			}
		})
	}

	if got := len(env.publisher.keys()); got != 0 {
		t.Errorf("published %d events for rejected adds, want 0", got)
	}
}

func TestSelectFriend_Toggle(t *testing.T) {
	env := setupTestServer(t)
	id := env.addFriend(t, "Sarah")

	env.selectFriend(t, id)

	resp, err := env.client.SelectFriend(context.Background(), connect.NewRequest(&SelectFriendRequest{ID: id}))
	if err != nil {
		t.Fatalf("SelectFriend failed: %v", err)
	}
	if resp.Msg.SelectedID != "" {
		t.Errorf("SelectedID = %q after second toggle, want empty", resp.Msg.SelectedID)
	}
}

func TestSelectFriend_Unknown(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.client.SelectFriend(context.Background(), connect.NewRequest(&SelectFriendRequest{ID: "nope"}))
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("code = %v, want NotFound", connect.CodeOf(err))
	}
}

func TestClearSelection(t *testing.T) {
	env := setupTestServer(t)
	id := env.addFriend(t, "Sarah")
	env.selectFriend(t, id)

	if _, err := env.client.ClearSelection(context.Background(), connect.NewRequest(&emptypb.Empty{})); err != nil {
		t.Fatalf("ClearSelection failed: %v", err)
	}
	if env.ledger.Current().Selected() {
		t.Error("selection still set after ClearSelection")
	}
}

func TestSubmitSplit(t *testing.T) {
	tests := []struct {
		name        string
		payer       string
		wantDelta   float64
		wantBalance float64
	}{
		{"user paid", "user", 60, 60},
		{"friend paid", "friend", -40, -40},
		{"payer defaults to user", "", 60, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServer(t)
			id := env.addFriend(t, "Sarah")
			env.selectFriend(t, id)

			resp, err := env.client.SubmitSplit(context.Background(), connect.NewRequest(&SubmitSplitRequest{
				BillTotal:   ptr(100),
				UserExpense: ptr(40),
				Payer:       tt.payer,
			}))
			if err != nil {
				t.Fatalf("SubmitSplit failed: %v", err)
			}
			if math.Abs(resp.Msg.Delta-tt.wantDelta) > 0.01 {
				t.Errorf("Delta = %v, want %v", resp.Msg.Delta, tt.wantDelta)
			}
			if math.Abs(resp.Msg.Friend.Balance-tt.wantBalance) > 0.01 {
				t.Errorf("Balance = %v, want %v", resp.Msg.Friend.Balance, tt.wantBalance)
			}
			if env.ledger.Current().Selected() {
				t.Error("selection not cleared after a successful split")
			}

			keys := env.publisher.keys()
			if len(keys) != 2 || keys[1] != events.TypeSplitApplied {
				t.Errorf("published = %v, want split.applied last", keys)
			}
		})
	}
}

func TestSubmitSplit_NoSelection(t *testing.T) {
	env := setupTestServer(t)
	env.addFriend(t, "Sarah")

	_, err := env.client.SubmitSplit(context.Background(), connect.NewRequest(&SubmitSplitRequest{
		BillTotal:   ptr(100),
		UserExpense: ptr(40),
		Payer:       "user",
	}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("code = %v, want FailedPrecondition", connect.CodeOf(err))
	}
	if got := testutil.ToFloat64(env.metrics.SplitsRejected.WithLabelValues("no_selection")); got != 1 {
		t.Errorf("splits_rejected_total{reason=no_selection} = %v, want 1", got)
	}
}

func TestSubmitSplit_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		req    *SubmitSplitRequest
		code   connect.Code
		reason string
	}{
		{
			name:   "missing bill",
			req:    &SubmitSplitRequest{UserExpense: ptr(40)},
			code:   connect.CodeInvalidArgument,
			reason: "incomplete",
		},
		{
			name:   "missing expense",
			req:    &SubmitSplitRequest{BillTotal: ptr(100)},
			code:   connect.CodeInvalidArgument,
			reason: "incomplete",
		},
		{
			name:   "negative bill",
			req:    &SubmitSplitRequest{BillTotal: ptr(-1), UserExpense: ptr(0)},
			code:   connect.CodeInvalidArgument,
			reason: "invalid_amount",
		},
		{
			name:   "expense exceeds bill",
			req:    &SubmitSplitRequest{BillTotal: ptr(100), UserExpense: ptr(150)},
			code:   connect.CodeInvalidArgument,
			reason: "exceeds_bill",
		},
		{
			name:   "unknown payer",
			req:    &SubmitSplitRequest{BillTotal: ptr(100), UserExpense: ptr(40), Payer: "bob"},
			code:   connect.CodeInvalidArgument,
			reason: "invalid_payer",
		},
		{
			name:   "not the selected friend",
			req:    &SubmitSplitRequest{ID: "friend-2", BillTotal: ptr(100), UserExpense: ptr(40)},
			code:   connect.CodeFailedPrecondition,
			reason: "not_selected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServer(t)
			id := env.addFriend(t, "Sarah")
			env.addFriend(t, "Clark")
			env.selectFriend(t, id)

			_, err := env.client.SubmitSplit(context.Background(), connect.NewRequest(tt.req))
			if connect.CodeOf(err) != tt.code {
				t.Fatalf("code = %v, want %v (err: %v)", connect.CodeOf(err), tt.code, err)
			}
			if got := testutil.ToFloat64(env.metrics.SplitsRejected.WithLabelValues(tt.reason)); got != 1 {
				t.Errorf("splits_rejected_total{reason=%s} = %v, want 1", tt.reason, got)
			}

			// A rejected split changes nothing.
			if cur := env.ledger.Current(); cur.FriendID != id {
				t.Errorf("selection = %q, want %q kept", cur.FriendID, id)
			}
			friends, err := env.ledger.ListFriends(context.Background())
			if err != nil {
				t.Fatalf("ListFriends failed: %v", err)
			}
			for _, f := range friends {
				if f.Balance != 0 {
					t.Errorf("%s balance = %v, want 0", f.Name, f.Balance)
				}
			}
		})
	}
}

func TestListFriends(t *testing.T) {
	env := setupTestServer(t)
	if err := env.ledger.Seed(context.Background(), ledger.DemoFriends); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	resp, err := env.client.ListFriends(context.Background(), connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}

	wantStatus := []string{
		"You owe Clark 7",
		"Sarah owes you 20",
		"Anthony and you are even",
	}
	if len(resp.Msg.Friends) != len(wantStatus) {
		t.Fatalf("got %d friends, want %d", len(resp.Msg.Friends), len(wantStatus))
	}
	for i, want := range wantStatus {
		if got := resp.Msg.Friends[i].Status; got != want {
			t.Errorf("friends[%d].Status = %q, want %q", i, got, want)
		}
	}

	s := resp.Msg.Summary
	if s.TotalOwed != 20 || s.TotalOwing != 7 || s.Net != 13 || s.Settled != 1 {
		t.Errorf("summary = %+v, want owed 20, owing 7, net 13, settled 1", s)
	}
	if resp.Msg.SelectedID != "" {
		t.Errorf("SelectedID = %q, want empty", resp.Msg.SelectedID)
	}
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	env := setupTestServer(t)
	env.publisher.err = errors.New("broker down")

	id := env.addFriend(t, "Sarah")
	if id == "" {
		t.Fatal("expected an id")
	}

	got := testutil.ToFloat64(env.metrics.EventsPublished.WithLabelValues(events.TypeFriendAdded, "error"))
	if got != 1 {
		t.Errorf("events_published_total{result=error} = %v, want 1", got)
	}
}

func TestCodeFor(t *testing.T) {
	// The registry losing the selected friend mid-split is a server fault, not a client one.
	err := fmt.Errorf("failed to apply split: %w", storage.ErrNotFound)
	if got := codeForSplit(err); got != connect.CodeInternal {
		t.Errorf("codeForSplit = %v, want Internal", got)
	}
	if got := codeFor(err); got != connect.CodeNotFound {
		t.Errorf("codeFor = %v, want NotFound", got)
	}
}
