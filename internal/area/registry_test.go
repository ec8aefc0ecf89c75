package area

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/TownCommerce_Go/internal/domain"
)

// stubArea is a minimal Area for dispatcher tests.
type stubArea struct {
	*Occupancy
	id     string
	handle func(ctx context.Context, playerID string, cmd Command) (any, error)
	models int
}

func newStubArea(id string, handle func(ctx context.Context, playerID string, cmd Command) (any, error)) *stubArea {
	return &stubArea{Occupancy: NewOccupancy(), id: id, handle: handle}
}

func (s *stubArea) ID() string                 { return s.id }
func (s *stubArea) Type() string               { return "StubArea" }
func (s *stubArea) Bounds() domain.BoundingBox { return domain.BoundingBox{} }

func (s *stubArea) ToModel(context.Context) any {
	s.models++
	return map[string]string{"id": s.id}
}

func (s *stubArea) HandleCommand(ctx context.Context, playerID string, cmd Command) (any, error) {
	return s.handle(ctx, playerID, cmd)
}

// recordingBroadcaster captures broadcast calls.
type recordingBroadcaster struct {
	mu    sync.Mutex
	calls []broadcastCall
}

type broadcastCall struct {
	areaID    string
	occupants []string
	model     any
}

func (b *recordingBroadcaster) Broadcast(areaID string, occupants []string, model any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, broadcastCall{areaID, occupants, model})
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func TestRegistry_DuplicateAreaID(t *testing.T) {
	ok := func(context.Context, string, Command) (any, error) { return nil, nil }
	_, err := NewRegistry(NopBroadcaster{}, nil, newStubArea("a1", ok), newStubArea("a1", ok))
	assert.Error(t, err)
}

func TestRegistry_HandleCommandSuccessBroadcasts(t *testing.T) {
	a := newStubArea("a1", func(context.Context, string, Command) (any, error) {
		return "done", nil
	})
	a.AddOccupant("alice")
	a.AddOccupant("bob")

	bc := &recordingBroadcaster{}
	r, err := NewRegistry(bc, nil, a)
	require.NoError(t, err)

	result := r.HandleCommand(context.Background(), "alice", Command{AreaID: "a1", Kind: KindOpenInventory})
	assert.True(t, result.Success)
	assert.Equal(t, "done", result.Payload)
	assert.Empty(t, result.ErrorKind)

	require.Equal(t, 1, bc.count())
	assert.Equal(t, "a1", bc.calls[0].areaID)
	assert.Equal(t, []string{"alice", "bob"}, bc.calls[0].occupants, "broadcast goes to all occupants")
}

func TestRegistry_HandleCommandDomainErrorNoBroadcast(t *testing.T) {
	a := newStubArea("a1", func(context.Context, string, Command) (any, error) {
		return nil, domain.ErrInsufficientFunds
	})
	bc := &recordingBroadcaster{}
	r, err := NewRegistry(bc, nil, a)
	require.NoError(t, err)

	result := r.HandleCommand(context.Background(), "alice", Command{AreaID: "a1", Kind: KindCheckout})
	assert.False(t, result.Success)
	assert.Equal(t, domain.KindInsufficientFunds, result.ErrorKind)
	assert.Equal(t, 0, bc.count(), "a rejected command must not broadcast")
}

func TestRegistry_HandleCommandUnknownArea(t *testing.T) {
	r, err := NewRegistry(NopBroadcaster{}, nil)
	require.NoError(t, err)

	result := r.HandleCommand(context.Background(), "alice", Command{AreaID: "nowhere", Kind: KindCheckout})
	assert.False(t, result.Success)
	assert.Equal(t, domain.KindInvalidCommand, result.ErrorKind)
}

func TestRegistry_UnknownInternalErrorMapsToInternal(t *testing.T) {
	a := newStubArea("a1", func(context.Context, string, Command) (any, error) {
		return nil, errors.New("boom")
	})
	r, err := NewRegistry(NopBroadcaster{}, nil, a)
	require.NoError(t, err)

	result := r.HandleCommand(context.Background(), "alice", Command{AreaID: "a1", Kind: KindCheckout})
	assert.False(t, result.Success)
	assert.Equal(t, domain.KindInternalError, result.ErrorKind)
}

func TestRegistry_EnterAndLeaveArea(t *testing.T) {
	a := newStubArea("a1", func(context.Context, string, Command) (any, error) { return nil, nil })
	bc := &recordingBroadcaster{}
	r, err := NewRegistry(bc, nil, a)
	require.NoError(t, err)
	ctx := context.Background()

	model, err := r.EnterArea(ctx, "a1", "alice")
	require.NoError(t, err)
	assert.NotNil(t, model, "entry returns the model for initial sync")
	assert.True(t, a.Contains("alice"))
	assert.Equal(t, 1, bc.count())

	require.NoError(t, r.LeaveArea(ctx, "a1", "alice"))
	assert.False(t, a.Contains("alice"))

	_, err = r.EnterArea(ctx, "missing", "alice")
	assert.ErrorIs(t, err, domain.ErrAreaNotFound)
}

func TestRegistry_RemoveEverywhere(t *testing.T) {
	a1 := newStubArea("a1", func(context.Context, string, Command) (any, error) { return nil, nil })
	a2 := newStubArea("a2", func(context.Context, string, Command) (any, error) { return nil, nil })
	r, err := NewRegistry(NopBroadcaster{}, nil, a1, a2)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = r.EnterArea(ctx, "a1", "alice")
	require.NoError(t, err)

	r.RemoveEverywhere(ctx, "alice")
	assert.False(t, a1.Contains("alice"))
	assert.False(t, a2.Contains("alice"))
}

func TestRegistry_CommandsSerializedPerArea(t *testing.T) {
	inFlight := 0
	maxInFlight := 0
	var mu sync.Mutex

	a := newStubArea("a1", func(context.Context, string, Command) (any, error) {
		mu.Lock()
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu.Unlock()

		mu.Lock()
		inFlight--
		mu.Unlock()
		return nil, nil
	})
	r, err := NewRegistry(NopBroadcaster{}, nil, a)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.HandleCommand(context.Background(), "alice", Command{AreaID: "a1", Kind: KindOpenInventory})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight, "one command at a time per area")
}

func TestRegistry_Model(t *testing.T) {
	a := newStubArea("a1", func(context.Context, string, Command) (any, error) { return nil, nil })
	r, err := NewRegistry(NopBroadcaster{}, nil, a)
	require.NoError(t, err)

	model, err := r.Model(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "a1"}, model)

	_, err = r.Model(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrAreaNotFound)
}
