// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestDiag(t *testing.T) {
	var buf bytes.Buffer
	dg := NewDiag(log.New(&buf, "", 0), true)
	dg.Printf("neuron %d: line %d", 3, 1)
	dg.Printf("neuron %d: line %d", 3, 2)
	// nobody reads progress: sends must not block
	for pct := 1; pct <= 100; pct++ {
		dg.Pct(pct)
	}
	dg.Close()
	dg.Close()
	out := buf.String()
	if !strings.Contains(out, "neuron 3: line 1\n") || !strings.Contains(out, "neuron 3: line 2\n") {
		t.Errorf("diag output err: %q\n", out)
	}
	if dg.Dropped() != 0 {
		t.Errorf("dropped err: %v\n", dg.Dropped())
	}
	n := 0
	for range dg.Progress {
		n++
	}
	if n == 0 || n > 4 {
		t.Errorf("progress err: %v buffered notifications\n", n)
	}
}

func TestDiagNil(t *testing.T) {
	var dg *Diag
	dg.Printf("ignored %d", 1)
	dg.Pct(10)
	dg.Close()
	if dg.Dropped() != 0 {
		t.Errorf("nil diag dropped err\n")
	}
}
