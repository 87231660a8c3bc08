// Package classfile decodes compiled JVM classes into a mutable tree and
// encodes the tree back into class file bytes.
//
// The tree follows the structure of the class file: a ClassNode with its
// fields, methods and class-level attributes, and for every method body a
// Code holding symbolic instructions. Constant pool indexes never appear in
// the tree; every reference is resolved to names, descriptors or constants
// on read and re-interned on write, so rewriting a name is a plain string
// assignment.
//
// Branch targets, exception ranges, local variable scopes, line numbers and
// stack map frames point at *Label pseudo-instructions placed in the
// instruction list.
//
// The Writer rebuilds the constant pool, lays out the code and, when asked
// to, recomputes StackMapTable frames and the max stack and locals sizes by
// abstract interpretation. Merging two reference types during that analysis
// needs the class hierarchy, which the caller supplies through Hierarchy.
//
// Attributes the package does not model are kept as raw bytes. When a class
// carries such attributes the writer keeps the original constant pool
// entries at their original indexes so the raw bytes stay valid.
// Unmodeled attributes nested inside Code are dropped.
//
// Names, descriptors and string constants are kept as the raw modified UTF-8
// bytes of the class file. For ASCII content this is plain UTF-8.
package classfile
