// Package kernel provides the primitives shared by every domain model:
//
//   - Point: an immutable position on the continuous delivery plane with
//     Euclidean distance and the segment geometry used by obstacle routing
//   - UUID: identifiers for journal entries (delivery records, allocation passes)
//
// Both are value objects guarded against zero-value use.
package kernel
