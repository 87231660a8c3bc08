package classfile

// ClassNode is a decoded class.
type ClassNode struct {
	MinorVersion uint16
	MajorVersion uint16
	Access       uint16
	// Name is the internal name of the class ("com/example/Widget").
	Name      string
	Signature string
	// Super is empty for java/lang/Object and module descriptors.
	Super      string
	Interfaces []string
	SourceFile string

	// OuterClass, OuterMethod and OuterMethodDesc hold the EnclosingMethod
	// attribute. OuterMethod is empty when the class is not enclosed by a
	// method (an anonymous class in a field initializer).
	OuterClass      string
	OuterMethod     string
	OuterMethodDesc string

	NestHost            string
	NestMembers         []string
	PermittedSubclasses []string
	InnerClasses        []InnerClass
	// RecordComponents is nil for classes without a Record attribute.
	RecordComponents []RecordComponent

	Fields  []*Field
	Methods []*Method
	// Attributes holds the class attributes that are not modeled above.
	Attributes []Attribute

	// pool is the constant pool the class was read from.
	pool *constPool
}

// InnerClass is one entry of the InnerClasses attribute. OuterName and
// InnerName are empty for local and anonymous classes.
type InnerClass struct {
	Name      string
	OuterName string
	InnerName string
	Access    uint16
}

// RecordComponent is one component of a record class.
type RecordComponent struct {
	Name       string
	Desc       string
	Signature  string
	Attributes []Attribute
}

// Field is a decoded field.
type Field struct {
	Access    uint16
	Name      string
	Desc      string
	Signature string
	// Value is the ConstantValue attribute, or nil.
	Value      Constant
	Attributes []Attribute
}

// Method is a decoded method.
type Method struct {
	Access     uint16
	Name       string
	Desc       string
	Signature  string
	Exceptions []string
	// Code is nil for abstract and native methods.
	Code       *Code
	Attributes []Attribute
}

// Attribute is an attribute kept as raw bytes.
type Attribute struct {
	Name string
	Data []byte
}

// Code is a decoded method body.
type Code struct {
	MaxStack       int
	MaxLocals      int
	Instructions   []Instruction
	TryCatchBlocks []TryCatchBlock
	LocalVariables []LocalVariable
	LineNumbers    []LineNumber
	// Frames holds the decoded StackMapTable, expanded to full frames.
	Frames []Frame
}

// TryCatchBlock is one exception table entry. Type is the internal name of
// the caught class, or empty for a catch-all (finally) handler.
type TryCatchBlock struct {
	Start   *Label
	End     *Label
	Handler *Label
	Type    string
}

// LocalVariable is one LocalVariableTable entry merged with its
// LocalVariableTypeTable entry, if any.
type LocalVariable struct {
	Name      string
	Desc      string
	Signature string
	Start     *Label
	End       *Label
	Index     int
}

// LineNumber maps the code starting at Start to a source line.
type LineNumber struct {
	Line  int
	Start *Label
}

// Frame is a stack map frame in class file form: long and double values
// take one entry, the implicit top that follows them is not listed.
type Frame struct {
	Label  *Label
	Locals []VType
	Stack  []VType
}

// VKind is a verification type tag.
type VKind uint8

// Verification type tags, numbered as in the class file.
const (
	VTop VKind = iota
	VInteger
	VFloat
	VDouble
	VLong
	VNull
	VUninitializedThis
	VObject
	VUninitialized
)

// VType is a verification type.
type VType struct {
	Kind VKind
	// Class is the internal name (or array descriptor) of a VObject.
	Class string
	// New labels the NEW instruction of a VUninitialized value.
	New *Label
}

// Common verification types.
var (
	Top               = VType{Kind: VTop}
	Integer           = VType{Kind: VInteger}
	Float             = VType{Kind: VFloat}
	Long              = VType{Kind: VLong}
	Double            = VType{Kind: VDouble}
	Null              = VType{Kind: VNull}
	UninitializedThis = VType{Kind: VUninitializedThis}
)

// ObjectType returns the verification type of a reference to class.
func ObjectType(class string) VType {
	return VType{Kind: VObject, Class: class}
}

// Wide reports whether the type takes two slots.
func (v VType) Wide() bool {
	return v.Kind == VLong || v.Kind == VDouble
}

// IsReference reports whether the type is a (possibly null or
// uninitialized) reference.
func (v VType) IsReference() bool {
	switch v.Kind {
	case VNull, VObject, VUninitialized, VUninitializedThis:
		return true
	default:
		return false
	}
}
