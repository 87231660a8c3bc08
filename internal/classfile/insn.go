package classfile

// Instruction is one element of a method's instruction list: an *Insn,
// *IntInsn, *VarInsn, *IincInsn, *JumpInsn, *TableSwitchInsn,
// *LookupSwitchInsn, *LdcInsn, *FieldInsn, *MethodInsn, *InvokeDynamicInsn,
// *TypeInsn, *MultiANewArrayInsn or a *Label.
type Instruction interface {
	isInstruction()
}

// Label marks a position in an instruction list.
type Label struct {
	offset int
}

// NewLabel returns a fresh label.
func NewLabel() *Label {
	return &Label{offset: -1}
}

// Offset returns the bytecode offset of the label in the code it was last
// read from or written to, or -1.
func (l *Label) Offset() int {
	return l.offset
}

// Insn is an instruction without operands.
type Insn struct {
	Op Opcode
}

// IntInsn is bipush, sipush or newarray.
type IntInsn struct {
	Op      Opcode
	Operand int
}

// VarInsn loads or stores a local variable, or is ret.
type VarInsn struct {
	Op  Opcode
	Var int
}

// IincInsn is iinc.
type IincInsn struct {
	Var  int
	Incr int
}

// JumpInsn is a conditional or unconditional branch, or jsr.
type JumpInsn struct {
	Op     Opcode
	Target *Label
}

// TableSwitchInsn is tableswitch.
type TableSwitchInsn struct {
	Min     int32
	Max     int32
	Default *Label
	Targets []*Label
}

// LookupSwitchInsn is lookupswitch.
type LookupSwitchInsn struct {
	Default *Label
	Keys    []int32
	Targets []*Label
}

// LdcInsn loads a constant (ldc, ldc_w or ldc2_w).
type LdcInsn struct {
	Value Constant
}

// FieldInsn accesses a field.
type FieldInsn struct {
	Op    Opcode
	Owner string
	Name  string
	Desc  string
}

// MethodInsn invokes a method. Owner is an internal name, or an array
// descriptor for methods invoked on arrays (clone).
type MethodInsn struct {
	Op        Opcode
	Owner     string
	Name      string
	Desc      string
	Interface bool
}

// InvokeDynamicInsn is invokedynamic.
type InvokeDynamicInsn struct {
	Name    string
	Desc    string
	Bsm     Handle
	BsmArgs []Constant
}

// TypeInsn is new, anewarray, checkcast or instanceof. Type is an internal
// name or an array descriptor.
type TypeInsn struct {
	Op   Opcode
	Type string
}

// MultiANewArrayInsn is multianewarray.
type MultiANewArrayInsn struct {
	Desc string
	Dims int
}

func (*Label) isInstruction()              {}
func (*Insn) isInstruction()               {}
func (*IntInsn) isInstruction()            {}
func (*VarInsn) isInstruction()            {}
func (*IincInsn) isInstruction()           {}
func (*JumpInsn) isInstruction()           {}
func (*TableSwitchInsn) isInstruction()    {}
func (*LookupSwitchInsn) isInstruction()   {}
func (*LdcInsn) isInstruction()            {}
func (*FieldInsn) isInstruction()          {}
func (*MethodInsn) isInstruction()         {}
func (*InvokeDynamicInsn) isInstruction()  {}
func (*TypeInsn) isInstruction()           {}
func (*MultiANewArrayInsn) isInstruction() {}
