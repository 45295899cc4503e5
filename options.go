package immersivereader

import (
	"fmt"

	"github.com/allthingssecurity/immersivereader/model"
)

// Options configures one extraction job.
type Options struct {
	// Mode selects the fast or accurate threshold preset. An empty Mode
	// defaults to fast.
	Mode model.Mode

	// EnableOCR allows the recognition fallback for pages whose
	// positional extraction fails. When false (or when the engine has no
	// recognizer), failed pages emit the sentinel paragraph instead.
	EnableOCR bool
}

// normalize applies defaults and validates the options.
func (o Options) normalize() (Options, error) {
	if o.Mode == "" {
		o.Mode = model.ModeFast
	}
	if !o.Mode.Valid() {
		return o, fmt.Errorf("unknown mode %q", o.Mode)
	}
	return o, nil
}

// Outcome is the result of one extraction job. A nil Err means the job
// completed and its block sequence was persisted; a non-nil Err means
// the job failed (or was cancelled/superseded) and no block sequence
// from this job is valid.
type Outcome struct {
	// DocumentID identifies the document the job ran for.
	DocumentID string

	// Pages is the document's page count. Populated only on success.
	Pages int

	// Err is nil on success, or the failure cause.
	Err error
}

// Completed reports whether the job completed and persisted its blocks.
func (o Outcome) Completed() bool {
	return o.Err == nil
}
