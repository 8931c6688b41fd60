package trackers

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"goicpbridge/types"
)

const testInterval = 5 * time.Millisecond

type fakeLogSource struct {
	mu    sync.Mutex
	calls int
	log   *types.BridgeLog
	err   error
}

func (f *fakeLogSource) MyBridgeLog(types.TransactionHandle) (*types.BridgeLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.log, nil
}

func (f *fakeLogSource) set(log *types.BridgeLog, err error) {
	f.mu.Lock()
	f.log, f.err = log, err
	f.mu.Unlock()
}

func (f *fakeLogSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func pendingLog() *types.BridgeLog {
	return &types.BridgeLog{
		From:   types.ICPTarget(),
		To:     types.EVMTarget("BNB"),
		FromTx: types.NewICPTx(false, 41),
	}
}

func TestStaysPendingWhileLogNeverFinalizes(t *testing.T) {
	source := &fakeLogSource{log: pendingLog()}
	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())
	defer tracker.Stop()

	require.Eventually(t, func() bool { return source.count() >= 10 }, 2*time.Second, time.Millisecond)
	require.Equal(t, types.StatusPending, tracker.Status())
	require.False(t, tracker.IsComplete())
	require.Equal(t, "waiting for confirmation on ICP", tracker.Message())
}

func TestMessageNamesAwaitedChain(t *testing.T) {
	log := pendingLog()
	log.FromTx = types.NewICPTx(true, 41) // origin leg done, destination awaited
	source := &fakeLogSource{log: log}
	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())
	defer tracker.Stop()

	require.Eventually(t, func() bool {
		return tracker.Message() == "waiting for confirmation on BNB"
	}, 2*time.Second, time.Millisecond)
	require.Equal(t, types.StatusPending, tracker.Status())
}

func TestCompletedIsTerminal(t *testing.T) {
	log := pendingLog()
	done := types.NewEVMTx(true, []byte{0xab})
	log.FromTx = types.NewICPTx(true, 41)
	log.ToTx = &done
	source := &fakeLogSource{log: log}

	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())
	defer tracker.Stop()

	require.Eventually(t, func() bool { return tracker.IsComplete() }, 2*time.Second, time.Millisecond)
	require.Equal(t, "", tracker.Message())

	polls := source.count()
	time.Sleep(20 * testInterval)
	require.Equal(t, polls, source.count(), "no polls may follow a terminal state")
}

func TestErrorIsTerminalWithVerbatimMessage(t *testing.T) {
	log := pendingLog()
	log.Error = "insufficient liquidity on BNB"
	source := &fakeLogSource{log: log}

	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())
	defer tracker.Stop()

	require.Eventually(t, func() bool { return tracker.Status() == types.StatusError }, 2*time.Second, time.Millisecond)
	require.Equal(t, "insufficient liquidity on BNB", tracker.Message())

	polls := source.count()
	time.Sleep(20 * testInterval)
	require.Equal(t, polls, source.count(), "no polls may follow a terminal state")
}

func TestFetchFailureKeepsStateAndRetries(t *testing.T) {
	source := &fakeLogSource{log: pendingLog()}
	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())
	defer tracker.Stop()

	require.Eventually(t, func() bool { return tracker.Status() == types.StatusPending }, 2*time.Second, time.Millisecond)

	// the source goes away; the tracker must hold its state and keep polling
	source.set(nil, errors.New("connection refused"))
	before := source.count()
	require.Eventually(t, func() bool { return source.count() > before+3 }, 2*time.Second, time.Millisecond)
	require.Equal(t, types.StatusPending, tracker.Status())

	// and recover once the source is back with a terminal log
	log := pendingLog()
	done := types.NewEVMTx(true, []byte{0xab})
	log.ToTx = &done
	source.set(log, nil)
	require.Eventually(t, func() bool { return tracker.IsComplete() }, 2*time.Second, time.Millisecond)
}

func TestStopSuppressesFurtherPolls(t *testing.T) {
	source := &fakeLogSource{log: pendingLog()}
	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())

	require.Eventually(t, func() bool { return source.count() >= 2 }, 2*time.Second, time.Millisecond)
	tracker.Stop()
	tracker.Stop() // idempotent

	polls := source.count()
	time.Sleep(20 * testInterval)
	require.LessOrEqual(t, source.count(), polls+1, "at most the in-flight poll may land after Stop")
}

func TestOnChangeHook(t *testing.T) {
	source := &fakeLogSource{err: errors.New("not yet")}
	tracker := TrackFinalization(source, types.NewICPTx(false, 41), testInterval, hclog.NewNullLogger())
	defer tracker.Stop()

	changes := make(chan types.BridgingStatus, 8)
	tracker.OnChange(func(s types.BridgingStatus) { changes <- s })

	source.set(pendingLog(), nil)
	select {
	case s := <-changes:
		require.Equal(t, types.StatusPending, s)
	case <-time.After(2 * time.Second):
		t.Fatal("no state change notification")
	}

	log := pendingLog()
	log.Error = "rejected"
	source.set(log, nil)
	select {
	case s := <-changes:
		require.Equal(t, types.StatusError, s)
	case <-time.After(2 * time.Second):
		t.Fatal("no state change notification")
	}
}
