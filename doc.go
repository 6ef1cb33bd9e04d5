// Package lbswim provides fixed-shape, multi-dimensional strided arrays whose
// elements are fixed-width field vectors, as used by lattice simulations.
//
// An owning Array allocates one contiguous buffer. Indexing with Sub drops the
// leading dimension and returns a non-owning view; a one-dimensional array is
// indexed with Elem to obtain an ElemVector over the field components of one
// site. Storage is field-major: component d of the site at flat index i lives at
// i + d*FieldStride(), so consecutive sites of one component are contiguous and
// can be processed in vector lanes (see package target).
//
// The per-field region is padded to a multiple of the array's maximum lane
// width, so lane iteration that rounds the domain up never leaves the region.
package lbswim
