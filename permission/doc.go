// Package permission implements named permission sets and requirement
// evaluation.
//
// A route declares a requirement as a plain slice of [Permission]; a principal
// carries a granted [Set]. Evaluation is pure set containment: every declared
// permission must be granted (AND semantics), and an empty requirement always
// allows.
//
// # What this package must NOT do
//
//   - Access any I/O or store.
//   - Import goIAM or any other sub-package (leaf package, no cycles).
//   - Encode role semantics; roles are evaluated by the engine.
package permission
