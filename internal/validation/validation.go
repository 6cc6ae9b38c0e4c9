// Package validation checks a job description before compilation. It
// follows a registry-of-validators layout: each validator owns one
// entity family, and the registry runs them in a fixed order so error
// messages are stable.
package validation

import (
	"errors"

	"github.com/emergent-company/workcell/internal/job"
)

// Common errors callers may branch on.
var (
	ErrUnknownProducer    = errors.New("unknown producer task")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrUnknownPrimitive   = errors.New("unknown primitive")
	ErrUnknownPOI         = errors.New("unknown point of interest")
	ErrInsufficientOutput = errors.New("insufficient declared output")
	ErrNonPositiveCount   = errors.New("non-positive count")
)

// Validator checks one aspect of a job.
type Validator interface {
	Name() string
	Validate(j *job.Job) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc struct {
	name string
	fn   func(j *job.Job) error
}

// NewValidatorFunc wraps fn as a named validator.
func NewValidatorFunc(name string, fn func(j *job.Job) error) Validator {
	return &ValidatorFunc{name: name, fn: fn}
}

func (v *ValidatorFunc) Name() string              { return v.name }
func (v *ValidatorFunc) Validate(j *job.Job) error { return v.fn(j) }

// Registry holds the validators to run, in order.
type Registry struct {
	validators []Validator
}

// NewRegistry creates a registry with the standard validators.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(NewTargetValidator())
	r.Register(NewTaskValidator())
	r.Register(NewPOIValidator())
	return r
}

// Register appends a validator.
func (r *Registry) Register(v Validator) {
	r.validators = append(r.validators, v)
}

// Validate runs every validator, stopping at the first failure.
func (r *Registry) Validate(j *job.Job) error {
	for _, v := range r.validators {
		if err := v.Validate(j); err != nil {
			return err
		}
	}
	return nil
}

// Validate runs the standard registry over the job.
func Validate(j *job.Job) error {
	return NewRegistry().Validate(j)
}
