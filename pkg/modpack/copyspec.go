// SPDX-License-Identifier: MPL-2.0

package modpack

type (
	// CopySpec describes one file before and after packaging. The origin is
	// where the file lives on the build host; the destination is where the
	// file is read from when packaging and where it lands in the package.
	// Without relocation both are the same Location.
	//
	// Serialization is one-way: a CopySpec encodes to its destination's
	// relative path only, so build-host paths never reach the shipped
	// manifest. Decoding always fails with an *InformationLossError.
	CopySpec struct {
		origin      Location
		destination Location
	}

	// PackagedEntry is the manifest-time view of a CopySpec: only the path
	// inside the package. Unlike CopySpec it decodes freely.
	PackagedEntry string
)

// NewCopySpec creates a CopySpec whose destination is the origin.
func NewCopySpec(origin Location) CopySpec {
	return CopySpec{origin: origin, destination: origin}
}

// Origin returns the location the spec was created from.
func (c CopySpec) Origin() Location { return c.origin }

// Destination returns the location the file is shipped from and to.
func (c CopySpec) Destination() Location { return c.destination }

// Relocate returns a copy of c with a new destination. The origin is kept.
func (c CopySpec) Relocate(destination Location) CopySpec {
	c.destination = destination
	return c
}

// Packaged projects c onto the manifest-time view.
func (c CopySpec) Packaged() PackagedEntry {
	return PackagedEntry(c.destination.dest)
}

// MarshalJSON encodes the destination's relative path as a JSON string.
func (c CopySpec) MarshalJSON() ([]byte, error) {
	return marshalJSON(string(c.destination.dest))
}

// UnmarshalJSON always fails: the origin was never serialized.
func (c *CopySpec) UnmarshalJSON([]byte) error {
	return &InformationLossError{Type: "CopySpec"}
}

// String returns the entry path.
func (e PackagedEntry) String() string { return string(e) }

// Base returns the file name of the entry.
func (e PackagedEntry) Base() string { return RelativePath(e).Base() }

// Packaged projects every spec onto its manifest-time view, preserving order.
func Packaged(specs []CopySpec) []PackagedEntry {
	out := make([]PackagedEntry, len(specs))
	for i, s := range specs {
		out[i] = s.Packaged()
	}
	return out
}
