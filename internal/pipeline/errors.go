// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"fmt"
	"strings"
)

// Phase names one step of a build.
type Phase string

const (
	PhaseCompileScripts       Phase = "compileScripts"
	PhaseCollectAssets        Phase = "collectAssets"
	PhaseProcessImagePacks    Phase = "processImagePacks"
	PhaseCollectAdditionFiles Phase = "collectAdditionFiles"
	PhaseSerialize            Phase = "serialize"
	PhaseAssemble             Phase = "assemble"
	PhaseFinalize             Phase = "finalize"
)

// PhaseError reports the phase, manifest category and resource a build
// failed on. Category and Resource are empty when they do not apply.
type PhaseError struct {
	Phase    Phase
	Category string
	Resource string
	Err      error
}

// Error implements the error interface.
func (e *PhaseError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Phase))
	if e.Category != "" {
		fmt.Fprintf(&b, " [%s]", e.Category)
	}
	if e.Resource != "" {
		fmt.Fprintf(&b, " %s", e.Resource)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

// Unwrap returns the underlying error.
func (e *PhaseError) Unwrap() error { return e.Err }

func phaseErr(phase Phase, category, resource string, err error) *PhaseError {
	return &PhaseError{Phase: phase, Category: category, Resource: resource, Err: err}
}
