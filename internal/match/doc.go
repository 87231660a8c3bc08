// Package match ranks names by edit distance. It backs the "did you mean"
// suggestions attached to mapping entries whose classes are missing from an
// archive.
package match
