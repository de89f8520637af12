// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tetshell

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Options carries the numeric thresholds the oracle and the smoother read.
// One Options value is shared by a whole editing session and passed by the
// driver into every operator call.
type Options struct {
	// TargetEdgeLength is the global edge-length goal of the sizing field.
	TargetEdgeLength float64 `yaml:"target_edge_length" validate:"gt=0"`
	// TargetThickness is the shell thickness the zoom/rotate smoothing
	// modes steer pillars toward.
	TargetThickness float64 `yaml:"target_thickness" validate:"gte=0"`
	// CollapseQuality is the absolute AMIPS budget under which a collapse
	// may regress quality.
	CollapseQuality float64 `yaml:"collapse_quality" validate:"gt=0"`

	// TargetAdjustment is a per-shell-vertex multiplier on the edge-length
	// goal. It grows in lockstep with the shell's vertex array: a boundary
	// split appends the parents' average.
	TargetAdjustment []float64 `yaml:"-"`
}

var validate = validator.New()

// NewOptions returns defaults for a shell with nShell vertices.
func NewOptions(nShell int, targetEdgeLength float64) *Options {
	o := &Options{
		TargetEdgeLength: targetEdgeLength,
		TargetThickness:  targetEdgeLength / 10,
		CollapseQuality:  150,
		TargetAdjustment: make([]float64, nShell),
	}
	for i := range o.TargetAdjustment {
		o.TargetAdjustment[i] = 1
	}
	return o
}

// LoadOptions reads a yaml options file and validates it. TargetAdjustment
// is session state, not configuration, and must be sized afterwards with
// ResizeAdjustment.
func LoadOptions(path string) (*Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tetshell: read options: %w", err)
	}
	o := &Options{CollapseQuality: 150}
	if err := yaml.Unmarshal(raw, o); err != nil {
		return nil, fmt.Errorf("tetshell: parse options: %w", err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate checks the threshold fields.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("tetshell: invalid options: %w", err)
	}
	return nil
}

// ResizeAdjustment grows the per-vertex adjustment array to nShell entries,
// filling new slots with 1.
func (o *Options) ResizeAdjustment(nShell int) {
	for len(o.TargetAdjustment) < nShell {
		o.TargetAdjustment = append(o.TargetAdjustment, 1)
	}
}
