package common

import "strings"

// UnknownStr is the String() value of enum members outside the known set.
const UnknownStr = "unknown"

// ClassSuffix is the archive entry suffix of compiled classes.
const ClassSuffix = ".class"

// PackageOf returns the package part of an internal class name
// ("com/example/Foo" -> "com/example"). Returns empty string for the default package.
func PackageOf(internalName string) string {
	i := strings.LastIndexByte(internalName, '/')
	if i < 0 {
		return ""
	}

	return internalName[:i]
}

// SimpleName returns the last segment of an internal class name
// ("com/example/Foo$Bar" -> "Foo$Bar").
func SimpleName(internalName string) string {
	return internalName[strings.LastIndexByte(internalName, '/')+1:]
}

// InnerSuffix returns the part of a class name after its last nesting separator
// ("a/Outer$Inner" -> "Inner"). A name without '$' yields its simple name.
func InnerSuffix(internalName string) string {
	simple := SimpleName(internalName)
	if i := strings.LastIndexByte(simple, '$'); i >= 0 {
		return simple[i+1:]
	}

	return simple
}

// EntryName returns the archive entry name of an internal class name.
func EntryName(internalName string) string {
	return internalName + ClassSuffix
}

// ClassNameOf returns the internal class name stored under an archive entry name,
// and whether the entry holds a compiled class at all.
func ClassNameOf(entryName string) (string, bool) {
	if !strings.HasSuffix(entryName, ClassSuffix) {
		return "", false
	}

	return strings.TrimSuffix(entryName, ClassSuffix), true
}

// InternalName converts a source-form name to its internal form ("a.b.C" -> "a/b/C").
func InternalName(dottedName string) string {
	return strings.ReplaceAll(dottedName, ".", "/")
}

// VersionsDir is the directory holding the per-release classes of a
// multi-release jar.
const VersionsDir = "META-INF/versions/"

// SplitVersioned splits a multi-release entry name into its
// "META-INF/versions/N/" prefix and the base entry name. Other names are
// returned with an empty prefix.
func SplitVersioned(entryName string) (prefix, name string) {
	if !strings.HasPrefix(entryName, VersionsDir) {
		return "", entryName
	}

	rest := entryName[len(VersionsDir):]

	i := strings.IndexByte(rest, '/')
	if i <= 0 {
		return "", entryName
	}

	return entryName[:len(VersionsDir)+i+1], rest[i+1:]
}
