package transform

import (
	"archive-mapper/internal/classfile"
)

// platformInterfaces lists well-known JDK interfaces.
var platformInterfaces = map[string]bool{
	"java/io/Closeable":                    true,
	"java/io/Serializable":                 true,
	"java/lang/AutoCloseable":              true,
	"java/lang/CharSequence":               true,
	"java/lang/Cloneable":                  true,
	"java/lang/Comparable":                 true,
	"java/lang/Iterable":                   true,
	"java/lang/Runnable":                   true,
	"java/lang/annotation/Annotation":      true,
	"java/lang/reflect/Type":               true,
	"java/util/Collection":                 true,
	"java/util/Comparator":                 true,
	"java/util/Deque":                      true,
	"java/util/Iterator":                   true,
	"java/util/List":                       true,
	"java/util/Map":                        true,
	"java/util/Map$Entry":                  true,
	"java/util/Queue":                      true,
	"java/util/Set":                        true,
	"java/util/concurrent/Callable":        true,
	"java/util/function/BiConsumer":        true,
	"java/util/function/BiFunction":        true,
	"java/util/function/Consumer":          true,
	"java/util/function/Function":          true,
	"java/util/function/Predicate":         true,
	"java/util/function/Supplier":          true,
	"java/util/stream/Stream":              true,
	"java/util/concurrent/Future":          true,
	"java/util/concurrent/ExecutorService": true,
}

// platformSupers lists well-known JDK classes whose superclass is not
// java/lang/Object.
var platformSupers = map[string]string{
	"java/lang/Exception":                       "java/lang/Throwable",
	"java/lang/Error":                           "java/lang/Throwable",
	"java/lang/RuntimeException":                "java/lang/Exception",
	"java/lang/ReflectiveOperationException":    "java/lang/Exception",
	"java/lang/ClassNotFoundException":          "java/lang/ReflectiveOperationException",
	"java/lang/InterruptedException":            "java/lang/Exception",
	"java/lang/CloneNotSupportedException":      "java/lang/Exception",
	"java/io/IOException":                       "java/lang/Exception",
	"java/io/UncheckedIOException":              "java/lang/RuntimeException",
	"java/io/FileNotFoundException":             "java/io/IOException",
	"java/lang/IllegalArgumentException":        "java/lang/RuntimeException",
	"java/lang/NumberFormatException":           "java/lang/IllegalArgumentException",
	"java/lang/IllegalStateException":           "java/lang/RuntimeException",
	"java/lang/NullPointerException":            "java/lang/RuntimeException",
	"java/lang/ClassCastException":              "java/lang/RuntimeException",
	"java/lang/ArithmeticException":             "java/lang/RuntimeException",
	"java/lang/UnsupportedOperationException":   "java/lang/RuntimeException",
	"java/lang/IndexOutOfBoundsException":       "java/lang/RuntimeException",
	"java/lang/ArrayIndexOutOfBoundsException":  "java/lang/IndexOutOfBoundsException",
	"java/lang/StringIndexOutOfBoundsException": "java/lang/IndexOutOfBoundsException",
	"java/util/NoSuchElementException":          "java/lang/RuntimeException",
	"java/util/ConcurrentModificationException": "java/lang/RuntimeException",
	"java/lang/LinkageError":                    "java/lang/Error",
	"java/lang/NoClassDefFoundError":            "java/lang/LinkageError",
	"java/lang/AssertionError":                  "java/lang/Error",
	"java/lang/Integer":                         "java/lang/Number",
	"java/lang/Long":                            "java/lang/Number",
	"java/lang/Short":                           "java/lang/Number",
	"java/lang/Byte":                            "java/lang/Number",
	"java/lang/Float":                           "java/lang/Number",
	"java/lang/Double":                          "java/lang/Number",
	"java/math/BigInteger":                      "java/lang/Number",
	"java/math/BigDecimal":                      "java/lang/Number",
	"java/util/ArrayList":                       "java/util/AbstractList",
	"java/util/LinkedList":                      "java/util/AbstractSequentialList",
	"java/util/AbstractSequentialList":          "java/util/AbstractList",
	"java/util/AbstractList":                    "java/util/AbstractCollection",
	"java/util/HashSet":                         "java/util/AbstractSet",
	"java/util/TreeSet":                         "java/util/AbstractSet",
	"java/util/AbstractSet":                     "java/util/AbstractCollection",
	"java/util/HashMap":                         "java/util/AbstractMap",
	"java/util/TreeMap":                         "java/util/AbstractMap",
	"java/util/LinkedHashMap":                   "java/util/HashMap",
}

// platformClass answers for a class found in no archive. Unknown names are
// taken to be classes extending java/lang/Object.
func platformClass(name string) *classfile.HierarchyNode {
	if name == classfile.ObjectClass {
		return &classfile.HierarchyNode{Name: name}
	}

	node := &classfile.HierarchyNode{Name: name, Super: classfile.ObjectClass}

	if super, ok := platformSupers[name]; ok {
		node.Super = super
	}

	node.IsInterface = platformInterfaces[name]

	return node
}
