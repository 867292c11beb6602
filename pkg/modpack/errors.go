// SPDX-License-Identifier: MPL-2.0

package modpack

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInformationLoss is the sentinel error wrapped by InformationLossError.
	ErrInformationLoss = errors.New("information already lost")
	// ErrSchemaMismatch is the sentinel error wrapped by SchemaMismatchError.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrMissingField is the sentinel error wrapped by MissingFieldError.
	ErrMissingField = errors.New("missing field")
	// ErrDuplicateEntry is the sentinel error wrapped by DuplicateEntryError.
	ErrDuplicateEntry = errors.New("duplicate archive entry")
	// ErrManifestFrozen is returned when a frozen manifest is mutated.
	ErrManifestFrozen = errors.New("manifest is frozen")
	// ErrNilPlugin is returned when a nil plugin is added to a manifest.
	ErrNilPlugin = errors.New("nil plugin")
	// ErrNoBeautySelector is returned when selector types are appended to a
	// manifest that declares no BeautySelectorAddon.
	ErrNoBeautySelector = errors.New("no " + BeautySelectorAddonName + " plugin declared")
	// ErrUnknownCategory is returned for a category outside the nine manifest categories.
	ErrUnknownCategory = errors.New("unknown category")
)

type (
	// InvalidPathError is returned when a relative destination is empty, absolute,
	// or would resolve outside the archive root after normalization.
	// It wraps ErrInvalidPath for errors.Is() compatibility.
	InvalidPathError struct {
		Path   string
		Reason string
	}

	// InformationLossError is returned when decoding a value whose serialized form
	// dropped information on purpose (a CopySpec only ships its destination).
	InformationLossError struct {
		Type string
	}

	// SchemaMismatchError is returned when a plugin payload is decoded with the
	// decoder of a different variant.
	SchemaMismatchError struct {
		Variant string
		Field   string
		Got     string
		Want    string
	}

	// MissingFieldError is returned when a required plugin field is absent.
	MissingFieldError struct {
		Variant string
		Field   string
	}

	// DuplicateEntryError is returned when two planned entries claim the same
	// archive path.
	DuplicateEntryError struct {
		ArchivePath string
		First       string
		Second      string
	}
)

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid relative path %q: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// Error implements the error interface.
func (e *InformationLossError) Error() string {
	return fmt.Sprintf("cannot decode %s: the serialized form only keeps the destination, the origin is gone for good", e.Type)
}

// Unwrap returns ErrInformationLoss for errors.Is() compatibility.
func (e *InformationLossError) Unwrap() error { return ErrInformationLoss }

// Error implements the error interface.
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("not a %s plugin: %s is %q, want %q", e.Variant, e.Field, e.Got, e.Want)
}

// Unwrap returns ErrSchemaMismatch for errors.Is() compatibility.
func (e *SchemaMismatchError) Unwrap() error { return ErrSchemaMismatch }

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s plugin: missing required field %q", e.Variant, e.Field)
}

// Unwrap returns ErrMissingField for errors.Is() compatibility.
func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Error implements the error interface.
func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("archive path %q is claimed by both %s and %s", e.ArchivePath, e.First, e.Second)
}

// Unwrap returns ErrDuplicateEntry for errors.Is() compatibility.
func (e *DuplicateEntryError) Unwrap() error { return ErrDuplicateEntry }
