// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"fmt"

	"github.com/goki/ki/kit"
)

// CellTypes are the magnocellular neuron types
type CellTypes int32

//go:generate stringer -type=CellTypes

var KiT_CellTypes = kit.Enums.AddEnum(CellTypesN, kit.NotBitFlag, nil)

func (ev CellTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *CellTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Oxytocin cells: no calcium-dependent AHP2, dynorphin or K-leak currents
	Oxytocin CellTypes = iota

	// Vasopressin cells: calcium-driven AHP2, dynorphin and K-leak modulation
	// producing phasic firing
	Vasopressin

	CellTypesN
)

// FromString sets the value from its string name
func (ev *CellTypes) FromString(s string) error {
	for i := CellTypes(0); i < CellTypesN; i++ {
		if i.String() == s {
			*ev = i
			return nil
		}
	}
	return fmt.Errorf("CellTypes: %q not a valid value", s)
}

// ProtoTypes are the stimulus protocols that set the input level over time
type ProtoTypes int32

//go:generate stringer -type=ProtoTypes

var KiT_ProtoTypes = kit.Enums.AddEnum(ProtoTypesN, kit.NotBitFlag, nil)

func (ev ProtoTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ProtoTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// NoProto is constant input at the base rate
	NoProto ProtoTypes = iota

	// Ramp is flat before Start, linear between Start and Stop, then flat at After
	Ramp

	// RampCurve saturates exponentially toward Init + Max between Start and Stop
	RampCurve

	// RangeSweep is constant input within a run, with the rate set per run by Network.RunRange
	RangeSweep

	// Pulse is Base outside of [Start, Stop) and PulseLevel inside
	Pulse

	// Gavage drives input from the osmotic pressure feed
	Gavage

	ProtoTypesN
)

// FromString sets the value from its string name
func (ev *ProtoTypes) FromString(s string) error {
	for i := ProtoTypes(0); i < ProtoTypesN; i++ {
		if i.String() == s {
			*ev = i
			return nil
		}
	}
	return fmt.Errorf("ProtoTypes: %q not a valid value", s)
}

// SecExps selects the power of the fast Ca gate in the exocytosis rate
type SecExps int32

//go:generate stringer -type=SecExps

var KiT_SecExps = kit.Enums.AddEnum(SecExpsN, kit.NotBitFlag, nil)

func (ev SecExps) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SecExps) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// SecExp2 is exocytosis proportional to E^2
	SecExp2 SecExps = iota

	// SecExp3 is exocytosis proportional to E^3
	SecExp3

	SecExpsN
)

// FromString sets the value from its string name
func (ev *SecExps) FromString(s string) error {
	for i := SecExps(0); i < SecExpsN; i++ {
		if i.String() == s {
			*ev = i
			return nil
		}
	}
	return fmt.Errorf("SecExps: %q not a valid value", s)
}
