// Package operators provides the operator registry consulted by type
// inference and canonicalization.
//
// A Registry is built explicitly by NewRegistry and holds plain ir.Op
// descriptors; nothing registers itself at init time. Hosts that need extra
// operators call Register on their own registry.
//
// Registered operator groups:
//   - Primitives: integer/float elementwise arithmetic, shifts, cast, round, max/sum reductions
//   - QNN: qnn.softmax (non-computational, canonicalized) and qnn.requantize
package operators
