// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"fmt"
	"math"
	"sync"
)

// secFix is the fixed-point scale of the secretion buffer cells.  Integer
// accumulation makes each pooled cell independent of the order in which
// neurons contribute.
const secFix = 1 << 32

// SecBuffer is the shared secretion buffer between the NeuronWorkers and the
// PlasmaWorker.  It holds the population pooled secretion per coarse plasma
// cell, and the number of neurons that have contributed to each buffer window.
// A window closes once every live neuron has contributed to it, and the
// high-water mark (Filled) advances over closed windows in time order.
// One mutex guards all of it; WaitFilled blocks on a condition signaled when
// the mark advances.
type SecBuffer struct {
	mu          sync.Mutex
	cond        *sync.Cond
	cells       []int64
	counts      []int
	next        []int
	retired     []bool
	live        int
	closed      int
	cellsPerWin int
	winSteps    int
	filled      int
}

// NewSecBuffer returns an empty buffer -- call Clear to size it for a run
func NewSecBuffer() *SecBuffer {
	sb := &SecBuffer{}
	sb.cond = sync.NewCond(&sb.mu)
	return sb
}

// Clear sizes the buffer for a run of nwin windows of cellsPerWin cells, each
// window spanning winSteps fine steps, for nneurons contributors.  Only the
// Network calls Clear, and never while workers are running.
func (sb *SecBuffer) Clear(nneurons, nwin, cellsPerWin, winSteps int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	ncells := nwin * cellsPerWin
	if cap(sb.cells) >= ncells {
		sb.cells = sb.cells[:ncells]
		for i := range sb.cells {
			sb.cells[i] = 0
		}
	} else {
		sb.cells = make([]int64, ncells)
	}
	sb.counts = make([]int, nwin)
	sb.next = make([]int, nneurons)
	sb.retired = make([]bool, nneurons)
	sb.live = nneurons
	sb.closed = 0
	sb.cellsPerWin = cellsPerWin
	sb.winSteps = winSteps
	sb.filled = 0
}

// Contribute adds neuron nrn's secretion for window win.  vals has one value
// per cell of the window.  Each neuron must contribute its windows in order.
func (sb *SecBuffer) Contribute(nrn, win int, vals []float64) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if nrn < 0 || nrn >= len(sb.next) {
		return fmt.Errorf("SecBuffer: neuron %d out of range", nrn)
	}
	if sb.retired[nrn] {
		return fmt.Errorf("SecBuffer: neuron %d is retired", nrn)
	}
	if win != sb.next[nrn] || win >= len(sb.counts) {
		return fmt.Errorf("SecBuffer: neuron %d contributed window %d, expected %d", nrn, win, sb.next[nrn])
	}
	if len(vals) != sb.cellsPerWin {
		return fmt.Errorf("SecBuffer: window of %d cells, got %d values", sb.cellsPerWin, len(vals))
	}
	st := win * sb.cellsPerWin
	for i, v := range vals {
		sb.cells[st+i] += int64(math.Round(v * secFix))
	}
	sb.counts[win]++
	sb.next[nrn]++
	sb.advance()
	return nil
}

// Retire removes a neuron that will not contribute any further windows, so
// that windows close on the remaining live neurons
func (sb *SecBuffer) Retire(nrn int) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if nrn < 0 || nrn >= len(sb.retired) || sb.retired[nrn] {
		return
	}
	sb.retired[nrn] = true
	sb.live--
	// windows it already contributed to keep its contribution
	sb.advance()
}

// advance closes windows in order while they have all live contributions,
// and wakes any waiters.  mu must be held.
func (sb *SecBuffer) advance() {
	prev := sb.closed
	for sb.closed < len(sb.counts) && sb.counts[sb.closed] >= sb.live {
		sb.closed++
	}
	if sb.closed != prev {
		sb.filled = sb.closed * sb.winSteps
		sb.cond.Broadcast()
	}
}

// Filled returns the high-water mark: the number of fine steps for which all
// live neurons have contributed
func (sb *SecBuffer) Filled() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.filled
}

// WaitFilled blocks until the high-water mark reaches step, and returns the mark
func (sb *SecBuffer) WaitFilled(step int) int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	for sb.filled < step && sb.closed < len(sb.counts) {
		sb.cond.Wait()
	}
	return sb.filled
}

// Cell returns the pooled secretion of coarse cell i.  Only valid once the
// window containing the cell is closed.
func (sb *SecBuffer) Cell(i int) float64 {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	if i < 0 || i >= len(sb.cells) {
		return 0
	}
	return float64(sb.cells[i]) / secFix
}

// Live returns the number of neurons still contributing
func (sb *SecBuffer) Live() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.live
}

// NCells returns the number of coarse cells
func (sb *SecBuffer) NCells() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return len(sb.cells)
}
