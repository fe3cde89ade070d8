// Package provision converges a host to a state where the sandbox container
// can run: engine installed, machine up, image pulled, volume created and
// configuration written.
package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Status is what a step did.
type Status string

const (
	StatusCreated Status = "created"
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusDone    Status = "done"
)

// ErrNotConverged is returned when a step's check still fails after Apply.
var ErrNotConverged = errors.New("step did not take effect")

// Step is one idempotent setup action.
type Step struct {
	Name string

	// Doing is printed before Apply runs, e.g. "Pulling image ...". Optional.
	Doing string

	// Check reports whether the step's postcondition already holds.
	Check func(ctx context.Context) (bool, error)

	// Apply brings the postcondition about and returns the status to report.
	// Verify-only steps have no Apply.
	Apply func(ctx context.Context) (Status, error)

	// Unmet is the error reported when Check fails after Apply, or for a
	// verify-only step, when Check fails at all. Defaults to ErrNotConverged.
	Unmet error
}

// StepError is returned by Run when a step fails. The remaining steps are
// not run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Reporter receives progress from Run.
type Reporter interface {
	// Applying is called before a step's Apply, with Step.Doing.
	Applying(step Step)

	// Finished is called once per completed step.
	Finished(step Step, status Status)
}

// Run executes steps in order. A step whose Check holds is reported as
// skipped without calling Apply, except verify-only steps, which report
// done. Apply is always followed by a second Check.
func Run(ctx context.Context, steps []Step, r Reporter) error {
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := step.Check(ctx)
		if err != nil {
			return &StepError{Step: step.Name, Err: err}
		}

		if step.Apply == nil {
			if !ok {
				return &StepError{Step: step.Name, Err: step.unmet()}
			}
			r.Finished(step, StatusDone)
			continue
		}
		if ok {
			log.Debug().Str("step", step.Name).Msg("already satisfied")
			r.Finished(step, StatusSkipped)
			continue
		}

		r.Applying(step)
		status, err := step.Apply(ctx)
		if err != nil {
			return &StepError{Step: step.Name, Err: err}
		}

		ok, err = step.Check(ctx)
		if err != nil {
			return &StepError{Step: step.Name, Err: err}
		}
		if !ok {
			return &StepError{Step: step.Name, Err: step.unmet()}
		}
		r.Finished(step, status)
	}
	return nil
}

func (s Step) unmet() error {
	if s.Unmet != nil {
		return s.Unmet
	}
	return ErrNotConverged
}
