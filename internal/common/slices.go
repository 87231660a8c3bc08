package common

// Replace applies fn to every element of s in place.
func Replace[S ~[]E, E any](s S, fn func(E) E) {
	for i := range s {
		s[i] = fn(s[i])
	}
}
