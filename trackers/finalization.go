// Package trackers holds the polling state machines that follow a bridge
// operation or a raw transfer until it reaches a terminal state. Each
// tracker owns one repeating task; polls are strictly sequential and stop
// for good once a terminal state is observed.
package trackers

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"goicpbridge/chains"
	"goicpbridge/types"
)

// DefaultPollInterval is the fixed delay between polls. No backoff: the
// remote log is cheap to read and latency matters more than load here.
const DefaultPollInterval = 2 * time.Second

// LogSource fetches the caller's bridge log for an origin handle.
// *bridge.Client implements it.
type LogSource interface {
	MyBridgeLog(tx types.TransactionHandle) (*types.BridgeLog, error)
}

// FinalizationTracker re-fetches the log of one bridge operation until both
// legs finalize or the service records an error. A fetch failure never
// changes the observed state; it is logged and the next poll is scheduled
// as usual.
type FinalizationTracker struct {
	source   LogSource
	tx       types.TransactionHandle
	interval time.Duration
	logger   hclog.Logger

	mu       sync.Mutex
	log      *types.BridgeLog
	status   types.BridgingStatus
	message  string
	onChange func(types.BridgingStatus)

	done     chan struct{}
	stopOnce sync.Once
}

// TrackFinalization starts polling immediately and returns the tracker.
// interval <= 0 selects DefaultPollInterval.
func TrackFinalization(source LogSource, tx types.TransactionHandle, interval time.Duration, logger hclog.Logger) *FinalizationTracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	t := &FinalizationTracker{
		source:   source,
		tx:       tx,
		interval: interval,
		logger:   logger.Named("finalization").With("tx", tx.Ref()),
		status:   types.StatusAccepted,
		message:  "bridging request accepted",
		done:     make(chan struct{}),
	}
	go t.run()
	return t
}

// OnChange registers the hook invoked after every observed state change.
// Changes observed before registration are not replayed; read Status for
// the current value when subscribing.
func (t *FinalizationTracker) OnChange(hook func(types.BridgingStatus)) {
	t.mu.Lock()
	t.onChange = hook
	t.mu.Unlock()
}

// Stop suppresses any further poll. An in-flight fetch is not aborted; its
// result is still recorded, it just never reschedules.
func (t *FinalizationTracker) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}

func (t *FinalizationTracker) run() {
	for {
		log, err := t.source.MyBridgeLog(t.tx)
		if err != nil {
			// transient fetch failure: keep the last known state and retry
			t.logger.Warn("error refreshing bridge log", "err", err)
		} else {
			t.observe(log)
		}

		if t.Status().Terminal() {
			return
		}

		select {
		case <-t.done:
			return
		case <-time.After(t.interval):
		}
	}
}

func (t *FinalizationTracker) observe(log *types.BridgeLog) {
	status := types.StatusOf(log)
	message := deriveMessage(log)

	t.mu.Lock()
	changed := status != t.status || message != t.message
	t.log = log
	t.status = status
	t.message = message
	hook := t.onChange
	t.mu.Unlock()

	if changed && hook != nil {
		hook(status)
	}
}

func deriveMessage(log *types.BridgeLog) string {
	if log == nil {
		return "bridging request accepted"
	}
	if log.ToTx != nil && log.ToTx.Finalized() {
		return ""
	}
	if log.Error != "" {
		// surfaced verbatim; presentation layers rely on the exact text
		return log.Error
	}
	if log.FromTx.Finalized() {
		return "waiting for confirmation on " + chains.TargetName(log.To)
	}
	return "waiting for confirmation on " + chains.TargetName(log.From)
}

func (t *FinalizationTracker) Status() types.BridgingStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *FinalizationTracker) IsComplete() bool {
	return t.Status() == types.StatusCompleted
}

// Log returns the last fetched log entry, nil before the first successful
// poll. Callers must treat it as read-only.
func (t *FinalizationTracker) Log() *types.BridgeLog {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.log
}

func (t *FinalizationTracker) Message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// Tx is the origin handle this tracker was built around.
func (t *FinalizationTracker) Tx() types.TransactionHandle {
	return t.tx
}
