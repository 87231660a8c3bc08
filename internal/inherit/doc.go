// Package inherit builds the inheritance tree of the classes of an archive,
// in the archive's own namespace, and orders the classes a member lookup
// should try for a given owner.
//
// A member referenced through a subclass is usually declared by one of its
// ancestors, so a mapping lookup keyed on the literal owner misses. The
// candidate order is fixed: the owner itself, then each implemented
// interface depth-first, then the superclass chain. Only classes present in
// the archive take part; anything outside it ends a branch.
package inherit
