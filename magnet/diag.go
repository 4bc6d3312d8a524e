// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
)

// DiagBuf is the number of diagnostic lines buffered before new lines are dropped
const DiagBuf = 256

// Diag is the fire-and-forget sink for diagnostic lines and progress
// notifications.  Senders never block: lines that do not fit in the buffer
// are dropped and counted.  A single goroutine writes lines to Log.
// A nil *Diag discards everything.
type Diag struct {
	Log      *log.Logger
	Progress chan int
	lines    chan string
	dropped  atomic.Int64
	done     chan struct{}
	once     sync.Once
}

// NewDiag starts a diagnostic sink writing to lg.  If progress is true, a
// Progress channel is made for percent-complete notifications; consumers that
// fall behind miss notifications.
func NewDiag(lg *log.Logger, progress bool) *Diag {
	dg := &Diag{Log: lg, lines: make(chan string, DiagBuf), done: make(chan struct{})}
	if progress {
		dg.Progress = make(chan int, 4)
	}
	go dg.run()
	return dg
}

func (dg *Diag) run() {
	for ln := range dg.lines {
		if dg.Log != nil {
			dg.Log.Println(ln)
		}
	}
	close(dg.done)
}

// Printf sends a formatted diagnostic line
func (dg *Diag) Printf(format string, args ...any) {
	if dg == nil {
		return
	}
	select {
	case dg.lines <- fmt.Sprintf(format, args...):
	default:
		dg.dropped.Add(1)
	}
}

// Pct sends a percent-complete notification
func (dg *Diag) Pct(pct int) {
	if dg == nil || dg.Progress == nil {
		return
	}
	select {
	case dg.Progress <- pct:
	default:
	}
}

// Dropped returns the number of diagnostic lines dropped so far
func (dg *Diag) Dropped() int64 {
	if dg == nil {
		return 0
	}
	return dg.dropped.Load()
}

// Close flushes pending lines and stops the sink.  No sends may follow Close.
func (dg *Diag) Close() {
	if dg == nil {
		return
	}
	dg.once.Do(func() {
		close(dg.lines)
		<-dg.done
		if dg.Progress != nil {
			close(dg.Progress)
		}
	})
}
