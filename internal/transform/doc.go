// Package transform rewrites the classes of an archive from one namespace
// of a mapping to the other.
//
// A Pass rewrites one decoded class in place. MappingHierarchy lets the
// class writer recompute stack map frames against the renamed classes, and
// TransformArchive drives both over every class entry of an archive.
package transform
