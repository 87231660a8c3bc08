// Package jvmtype models JVM field and method types and converts them to and from
// descriptor syntax ("I", "[Ljava/lang/String;", "(IJ)V").
//
// Key types:
//   - TypeIdentifier: closed variant of Primitive, ClassRef and ArrayOf
//   - MethodType: ordered parameter types plus a return type
package jvmtype
