// Package kernel provides the domain primitives shared by every aggregate of the
// order workflow.
//
// The package includes:
//   - UUID: identifier value object with nil rejection
//   - Clock: injected time source so derived status stays reproducible
//   - Effective / EffectiveBy: the two-level "override with fallback" resolution
//     used for workflow settings and approval styles
package kernel
