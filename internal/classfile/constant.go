package classfile

// Constant is a loadable constant: IntConst, FloatConst, LongConst,
// DoubleConst, StringConst, TypeConst, Handle or ConstantDynamic.
type Constant interface {
	isConstant()
}

// IntConst is a CONSTANT_Integer.
type IntConst int32

// FloatConst is a CONSTANT_Float.
type FloatConst float32

// LongConst is a CONSTANT_Long.
type LongConst int64

// DoubleConst is a CONSTANT_Double.
type DoubleConst float64

// StringConst is a CONSTANT_String.
type StringConst string

// TypeSort tells which kind of type a TypeConst holds.
type TypeSort uint8

const (
	SortObject TypeSort = iota
	SortArray
	SortMethod
)

// TypeConst is a CONSTANT_Class (object or array sort) or a
// CONSTANT_MethodType (method sort). Desc is always in descriptor form:
// "La/B;", "[I" or "(I)V".
type TypeConst struct {
	Desc string
}

// ClassConst returns the TypeConst of an internal name or array descriptor.
func ClassConst(name string) TypeConst {
	if len(name) > 0 && name[0] == '[' {
		return TypeConst{Desc: name}
	}

	return TypeConst{Desc: "L" + name + ";"}
}

// Sort returns the kind of type held.
func (t TypeConst) Sort() TypeSort {
	switch {
	case len(t.Desc) > 0 && t.Desc[0] == '(':
		return SortMethod
	case len(t.Desc) > 0 && t.Desc[0] == '[':
		return SortArray
	default:
		return SortObject
	}
}

// InternalName returns the CONSTANT_Class operand: the internal name of
// an object type, the descriptor of an array type.
func (t TypeConst) InternalName() string {
	if t.Sort() == SortObject && len(t.Desc) >= 2 {
		return t.Desc[1 : len(t.Desc)-1]
	}

	return t.Desc
}

// HandleKind is a method handle reference kind. Values outside 1..9 are
// kept as read so callers can reject them.
type HandleKind uint8

// Method handle reference kinds.
const (
	HGetField         HandleKind = 1
	HGetStatic        HandleKind = 2
	HPutField         HandleKind = 3
	HPutStatic        HandleKind = 4
	HInvokeVirtual    HandleKind = 5
	HInvokeStatic     HandleKind = 6
	HInvokeSpecial    HandleKind = 7
	HNewInvokeSpecial HandleKind = 8
	HInvokeInterface  HandleKind = 9
)

// IsField reports whether the kind references a field.
func (k HandleKind) IsField() bool {
	return k >= HGetField && k <= HPutStatic
}

// IsMethod reports whether the kind references a method.
func (k HandleKind) IsMethod() bool {
	return k >= HInvokeVirtual && k <= HInvokeInterface
}

// Handle is a CONSTANT_MethodHandle.
type Handle struct {
	Kind      HandleKind
	Owner     string
	Name      string
	Desc      string
	Interface bool
}

// ConstantDynamic is a CONSTANT_Dynamic.
type ConstantDynamic struct {
	Name string
	Desc string
	Bsm  Handle
	Args []Constant
}

func (IntConst) isConstant()        {}
func (FloatConst) isConstant()      {}
func (LongConst) isConstant()       {}
func (DoubleConst) isConstant()     {}
func (StringConst) isConstant()     {}
func (TypeConst) isConstant()       {}
func (Handle) isConstant()          {}
func (ConstantDynamic) isConstant() {}
