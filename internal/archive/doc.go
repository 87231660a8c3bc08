// Package archive models a jar as a flat set of named entries.
//
// Memory is the working representation: OpenZip and OpenDir load an archive
// into memory, WriteZip and WriteDir store it back. Delegating composes
// several readers into one, which is how dependency archives are searched.
package archive
