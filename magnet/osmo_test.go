// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"math"
	"testing"
	"time"
)

func TestOsmoStore(t *testing.T) {
	ost := NewOsmoStore(100)
	got := make(chan float64)
	go func() {
		got <- ost.Pressure(250)
	}()
	ost.Append(300, 305)
	select {
	case v := <-got:
		t.Fatalf("pressure returned %v before its step was filled\n", v)
	case <-time.After(10 * time.Millisecond):
	}
	ost.Append(310)
	select {
	case v := <-got:
		if v != 310 {
			t.Errorf("pressure err: %v, should be 310\n", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("pressure did not return after fill\n")
	}
	if v := ost.Pressure(1); v != 300 {
		t.Errorf("pressure err: step 1: %v\n", v)
	}
	ost.Close()
	if v := ost.Pressure(10000); v != 310 {
		t.Errorf("closed feed should hold the last value: %v\n", v)
	}
	if ost.Len() != 3 {
		t.Errorf("len err: %v\n", ost.Len())
	}
	empty := NewOsmoStore(1)
	empty.Close()
	if v := empty.Pressure(5); v != OsmoRest {
		t.Errorf("empty feed should be at rest: %v\n", v)
	}
}

func TestOsmoInput(t *testing.T) {
	if v := OsmoInput(OsmoRest); v != 0 {
		t.Errorf("rest input err: %v\n", v)
	}
	if v := OsmoInput(313); math.Abs(v-0.26) > difTol {
		t.Errorf("input err: %v, should be 0.26\n", v)
	}
}
