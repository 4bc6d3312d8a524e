// Copyright (c) 2024, The Magnet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package magnet

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// initFmt is the line format of the neuron init file
const initFmt = "neuro %d  mRNAinit %f  store %f  synvar %f"

// InitSeeds returns the persistent initial conditions of all neurons
func (nt *Network) InitSeeds() []InitSeed {
	sds := make([]InitSeed, len(nt.Neurons))
	for i, nrn := range nt.Neurons {
		sds[i] = nrn.Seed()
	}
	return sds
}

// ApplyInitSeeds sets the initial conditions of the neurons named in sds.
// Seeds for neurons beyond the population are ignored, and neurons without a
// seed keep their values.  Returns the number applied.
func (nt *Network) ApplyInitSeeds(sds []InitSeed) int {
	n := 0
	for _, sd := range sds {
		if sd.Neuron < 0 || sd.Neuron >= len(nt.Neurons) {
			continue
		}
		nt.Neurons[sd.Neuron].SetSeed(sd)
		n++
	}
	return n
}

// WriteInitSeeds writes seeds as plain text lines, one per neuron
func WriteInitSeeds(w io.Writer, sds []InitSeed) error {
	bw := bufio.NewWriter(w)
	for _, sd := range sds {
		fmt.Fprintf(bw, "neuro %d  mRNAinit %.4f  store %.4f  synvar %.4f\n", sd.Neuron, sd.MRNA, sd.Store, sd.SynVar)
	}
	return bw.Flush()
}

// ReadInitSeeds reads seeds written by WriteInitSeeds.  Blank lines are skipped.
func ReadInitSeeds(r io.Reader) ([]InitSeed, error) {
	var sds []InitSeed
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		txt := strings.TrimSpace(sc.Text())
		if txt == "" {
			continue
		}
		var sd InitSeed
		_, err := fmt.Sscanf(txt, initFmt, &sd.Neuron, &sd.MRNA, &sd.Store, &sd.SynVar)
		if err != nil {
			return sds, fmt.Errorf("init file line %d: %w", ln, err)
		}
		sds = append(sds, sd)
	}
	return sds, sc.Err()
}

// SaveInit saves the initial conditions of all neurons to given file
func (nt *Network) SaveInit(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	return WriteInitSeeds(fp, nt.InitSeeds())
}

// LoadInit loads the initial conditions of the neurons from given file
func (nt *Network) LoadInit(filename string) error {
	fp, err := os.Open(filename)
	if err != nil {
		log.Println(err)
		return err
	}
	defer fp.Close()
	sds, err := ReadInitSeeds(fp)
	if err != nil {
		log.Println(err)
		return err
	}
	nt.ApplyInitSeeds(sds)
	return nil
}
