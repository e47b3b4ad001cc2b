// Package history appends executed trades to a rotating JSONL audit file.
package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/solarb/solarb/internal/eventbus"
)

// Entry is one line of the audit file.
type Entry struct {
	Timestamp       time.Time `json:"timestamp"`
	TradeID         string    `json:"trade_id"`
	Pair            string    `json:"pair"`
	Success         bool      `json:"success"`
	Profit          float64   `json:"profit"`
	ExecutionTimeMs int64     `json:"execution_time_ms"`
}

// Recorder writes entries to a size-rotated file. Safe for concurrent use.
type Recorder struct {
	mu sync.Mutex
	w  *lumberjack.Logger
}

// NewRecorder opens the audit file at path.
func NewRecorder(path string) *Recorder {
	return &Recorder{
		w: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		},
	}
}

// Record appends one entry as a JSON line.
func (r *Recorder) Record(e Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.w.Write(line)
	return err
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.w.Close()
}

// Listen consumes trade events from the bus and records them until the
// context ends or the subscription closes. Write failures are dropped;
// the audit trail is best effort by design of the bus it feeds from.
func (r *Recorder) Listen(ctx context.Context, bus *eventbus.Bus) {
	sub := bus.Subscribe()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if trade, isTrade := ev.(eventbus.TradeExecuted); isTrade {
				_ = r.Record(Entry{
					Timestamp:       time.Now().UTC(),
					TradeID:         trade.ID,
					Pair:            trade.Pair,
					Success:         trade.Success,
					Profit:          trade.Profit,
					ExecutionTimeMs: trade.ExecutionTimeMs,
				})
			}
		}
	}
}
