// Package diagnostic provides the error kinds raised while remapping an archive
// and the structured warnings collected alongside a successful run.
//
// Key capabilities:
//   - Typed error kinds (lookup miss, invalid usage, unsupported construct,
//     missing resource) matchable with errors.Is
//   - Duplicate-name and unresolved-class warnings from mapping validation
//   - Suggestions attached to a finding (e.g. close class names)
package diagnostic
