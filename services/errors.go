package services

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds of the analysis pipeline. Callers match them with errors.Is.
var (
	// ErrMalformedNumeral marks a vote count that is not a well-formed numeral.
	// It is always recovered as zero.
	ErrMalformedNumeral = errors.New("malformed numeral")

	// ErrDivisionByZero indicates a division with rows but zero total votes.
	ErrDivisionByZero = errors.New("division has zero total votes")

	// ErrMissingReferenceData indicates a division absent from the economic reference.
	ErrMissingReferenceData = errors.New("missing economic reference data")

	// ErrMissingUpstreamArtifact indicates an input file of a pipeline stage does not exist.
	ErrMissingUpstreamArtifact = errors.New("missing upstream artifact")

	// ErrNoSeatData indicates a computation was handed no seats at all.
	ErrNoSeatData = errors.New("no seat data")

	// ErrNotEnoughData indicates an optional analysis had nothing to work on.
	ErrNotEnoughData = errors.New("not enough data")
)

// ZeroVoteDivisionError lists the divisions whose vote share is undefined
type ZeroVoteDivisionError struct {
	Divisions []string
}

func (e *ZeroVoteDivisionError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDivisionByZero, strings.Join(e.Divisions, ", "))
}

// Unwrap returns ErrDivisionByZero
func (e *ZeroVoteDivisionError) Unwrap() error { return ErrDivisionByZero }

// MissingReferenceError lists the divisions that could not be joined with the
// economic reference, together with the vote mass they carry.
type MissingReferenceError struct {
	Divisions []string
	Votes     int64
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%v for divisions %s (%d votes)", ErrMissingReferenceData, strings.Join(e.Divisions, ", "), e.Votes)
}

// Unwrap returns ErrMissingReferenceData
func (e *MissingReferenceError) Unwrap() error { return ErrMissingReferenceData }

// ArtifactError names the stage and path of a missing artifact
type ArtifactError struct {
	Stage string
	Path  string
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("%s: %v: %s", e.Stage, ErrMissingUpstreamArtifact, e.Path)
}

// Unwrap returns ErrMissingUpstreamArtifact
func (e *ArtifactError) Unwrap() error { return ErrMissingUpstreamArtifact }
