package classfile

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"archive-mapper/internal/jvmtype"
)

// ErrSubroutine is returned when frames are computed for code using jsr/ret.
var ErrSubroutine = errors.New("jsr/ret subroutines are not supported when computing frames")

const throwableClass = "java/lang/Throwable"

// frameState is an abstract machine state. Unlike Frame it is slot based:
// a long or double takes two entries, the second one Top.
type frameState struct {
	locals []VType
	stack  []VType
}

func (s *frameState) clone() *frameState {
	return &frameState{
		locals: append([]VType(nil), s.locals...),
		stack:  append([]VType(nil), s.stack...),
	}
}

func (s *frameState) push(v VType) {
	s.stack = append(s.stack, v)
	if v.Wide() {
		s.stack = append(s.stack, Top)
	}
}

func (s *frameState) pop(slots int) error {
	if slots > len(s.stack) {
		return fmt.Errorf("%w: stack underflow", ErrMalformed)
	}

	s.stack = s.stack[:len(s.stack)-slots]

	return nil
}

// popValue pops one value, two slots for a long or double.
func (s *frameState) popValue() (VType, error) {
	n := len(s.stack)
	if n == 0 {
		return VType{}, fmt.Errorf("%w: stack underflow", ErrMalformed)
	}

	if n >= 2 && s.stack[n-1].Kind == VTop && s.stack[n-2].Wide() {
		v := s.stack[n-2]
		s.stack = s.stack[:n-2]

		return v, nil
	}

	v := s.stack[n-1]
	s.stack = s.stack[:n-1]

	return v, nil
}

func (s *frameState) local(i int) VType {
	if i < len(s.locals) {
		return s.locals[i]
	}

	return Top
}

func (s *frameState) setLocal(i int, v VType) {
	need := i + 1
	if v.Wide() {
		need++
	}

	for len(s.locals) < need {
		s.locals = append(s.locals, Top)
	}

	if i > 0 && s.locals[i-1].Wide() {
		s.locals[i-1] = Top
	}

	s.locals[i] = v
	if v.Wide() {
		s.locals[i+1] = Top
	}
}

// replace swaps every occurrence of an uninitialized type once its
// constructor has run.
func (s *frameState) replace(from, to VType) {
	for i, v := range s.locals {
		if v == from {
			s.locals[i] = to
		}
	}

	for i, v := range s.stack {
		if v == from {
			s.stack[i] = to
		}
	}
}

func slotsOf(types []VType) []VType {
	out := make([]VType, 0, len(types))
	for _, v := range types {
		out = append(out, v)
		if v.Wide() {
			out = append(out, Top)
		}
	}

	return out
}

// compact converts slot form into class file form.
func compact(slots []VType, trimTop bool) []VType {
	n := len(slots)
	for trimTop && n > 0 && slots[n-1].Kind == VTop {
		n--
	}

	out := make([]VType, 0, n)

	for i := 0; i < n; i++ {
		v := slots[i]
		out = append(out, v)

		if v.Wide() {
			i++
		}
	}

	return out
}

type handlerEdge struct {
	pos   int
	catch VType
}

// frameAnalysis recomputes the frames of one method.
type frameAnalysis struct {
	owner string
	hier  Hierarchy

	insns    []Instruction
	labelPos map[*Label]int
	newTypes map[*Label]string
	// newLabels maps each NEW to the label in front of it.
	newLabels map[*TypeInsn]*Label
	handlers  [][]handlerEdge
	tries     []TryCatchBlock

	in       []*frameState
	maxStack int
}

type codeResult struct {
	insns     []Instruction
	tries     []TryCatchBlock
	frames    []Frame
	maxStack  int
	maxLocals int
}

func computeFrames(owner string, h Hierarchy, m *Method) (*codeResult, error) {
	initial, err := initialLocals(owner, m.Access, m.Name, m.Desc)
	if err != nil {
		return nil, err
	}

	a := &frameAnalysis{owner: owner, hier: h, tries: m.Code.TryCatchBlocks}
	a.prepare(m.Code.Instructions)

	if err := a.indexHandlers(); err != nil {
		return nil, err
	}

	start := &frameState{locals: slotsOf(initial)}
	if err := a.run(start); err != nil {
		return nil, err
	}

	res := a.emit()
	res.maxLocals = maxLocals(start.locals, res.insns)

	return res, nil
}

// prepare copies the instruction list, labeling every NEW and every
// instruction that follows an unconditional transfer.
func (a *frameAnalysis) prepare(src []Instruction) {
	a.newTypes = map[*Label]string{}
	a.newLabels = map[*TypeInsn]*Label{}
	a.insns = make([]Instruction, 0, len(src)+8)

	var prev Instruction

	for _, insn := range src {
		_, prevIsLabel := prev.(*Label)

		if prev != nil && !prevIsLabel && endsBlock(prev) {
			if _, ok := insn.(*Label); !ok {
				a.insns = append(a.insns, NewLabel())
			}
		}

		if t, ok := insn.(*TypeInsn); ok && t.Op == OpNew {
			var l *Label
			if n := len(a.insns); n > 0 {
				l, _ = a.insns[n-1].(*Label)
			}

			if l == nil {
				l = NewLabel()
				a.insns = append(a.insns, l)
			}

			a.newTypes[l] = t.Type
			a.newLabels[t] = l
		}

		a.insns = append(a.insns, insn)
		prev = insn
	}

	a.labelPos = make(map[*Label]int)

	for i, insn := range a.insns {
		if l, ok := insn.(*Label); ok {
			a.labelPos[l] = i
		}
	}
}

func endsBlock(insn Instruction) bool {
	switch i := insn.(type) {
	case *JumpInsn:
		return i.Op == OpGoto
	case *TableSwitchInsn, *LookupSwitchInsn:
		return true
	case *Insn:
		return i.Op >= OpIreturn && i.Op <= OpReturn || i.Op == OpAthrow
	default:
		return false
	}
}

func (a *frameAnalysis) pos(l *Label) (int, error) {
	p, ok := a.labelPos[l]
	if !ok {
		return 0, fmt.Errorf("%w: label is not in the instruction list", ErrMalformed)
	}

	return p, nil
}

func (a *frameAnalysis) indexHandlers() error {
	a.handlers = make([][]handlerEdge, len(a.insns))

	for _, t := range a.tries {
		start, err := a.pos(t.Start)
		if err != nil {
			return err
		}

		end, err := a.pos(t.End)
		if err != nil {
			return err
		}

		handler, err := a.pos(t.Handler)
		if err != nil {
			return err
		}

		catch := ObjectType(throwableClass)
		if t.Type != "" {
			catch = ObjectType(t.Type)
		}

		for p := start; p < end; p++ {
			a.handlers[p] = append(a.handlers[p], handlerEdge{pos: handler, catch: catch})
		}
	}

	return nil
}

func (a *frameAnalysis) run(start *frameState) error {
	a.in = make([]*frameState, len(a.insns))
	if len(a.insns) == 0 {
		return nil
	}

	queued := make([]bool, len(a.insns))
	work := []int{0}
	queued[0] = true
	a.in[0] = start.clone()

	enqueue := func(p int, s *frameState) error {
		changed, err := a.mergeInto(p, s)
		if err != nil {
			return err
		}

		if changed && !queued[p] {
			queued[p] = true
			work = append(work, p)
		}

		return nil
	}

	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]
		queued[p] = false

		in := a.in[p]

		for _, h := range a.handlers[p] {
			hs := &frameState{locals: append([]VType(nil), in.locals...)}
			hs.push(h.catch)
			a.maxStack = max(a.maxStack, 1)

			if err := enqueue(h.pos, hs); err != nil {
				return err
			}
		}

		out := in.clone()

		succ, falls, err := a.execute(a.insns[p], out)
		if err != nil {
			return fmt.Errorf("instruction %d: %w", p, err)
		}

		a.maxStack = max(a.maxStack, len(out.stack))

		for _, l := range succ {
			t, err := a.pos(l)
			if err != nil {
				return err
			}

			if err := enqueue(t, out); err != nil {
				return err
			}
		}

		if falls {
			if p+1 >= len(a.insns) {
				return fmt.Errorf("%w: execution falls off the end of the code", ErrMalformed)
			}

			if err := enqueue(p+1, out); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *frameAnalysis) mergeInto(p int, s *frameState) (bool, error) {
	cur := a.in[p]
	if cur == nil {
		a.in[p] = s.clone()
		return true, nil
	}

	if len(cur.stack) != len(s.stack) {
		return false, fmt.Errorf("%w: stack heights %d and %d meet at instruction %d",
			ErrMalformed, len(cur.stack), len(s.stack), p)
	}

	changed := false

	n := max(len(cur.locals), len(s.locals))
	for i := range n {
		merged, err := a.mergeType(cur.local(i), s.local(i))
		if err != nil {
			return false, err
		}

		if merged != cur.local(i) {
			for len(cur.locals) <= i {
				cur.locals = append(cur.locals, Top)
			}

			cur.locals[i] = merged
			changed = true
		}
	}

	for i := range cur.stack {
		merged, err := a.mergeType(cur.stack[i], s.stack[i])
		if err != nil {
			return false, err
		}

		if merged != cur.stack[i] {
			cur.stack[i] = merged
			changed = true
		}
	}

	return changed, nil
}

func (a *frameAnalysis) mergeType(x, y VType) (VType, error) {
	if x == y {
		return x, nil
	}

	isRef := func(v VType) bool { return v.Kind == VObject || v.Kind == VNull }
	if !isRef(x) || !isRef(y) {
		return Top, nil
	}

	switch {
	case x.Kind == VNull:
		return y, nil
	case y.Kind == VNull:
		return x, nil
	}

	name, err := a.mergeClasses(x.Class, y.Class)
	if err != nil {
		return VType{}, err
	}

	return ObjectType(name), nil
}

func arrayDims(desc string) int {
	n := 0
	for n < len(desc) && desc[n] == '[' {
		n++
	}

	return n
}

func (a *frameAnalysis) mergeClasses(x, y string) (string, error) {
	dx, dy := arrayDims(x), arrayDims(y)

	switch {
	case dx == 0 && dy == 0:
		if a.hier == nil {
			return "", errors.New("a class hierarchy is required to compute frames")
		}

		return CommonSuperClass(a.hier, x, y)
	case dx == 0 || dy == 0:
		return ObjectClass, nil
	}

	ex, ey := x[dx:], y[dy:]

	if dx == dy && ex[0] == 'L' && ey[0] == 'L' {
		common, err := a.mergeClasses(ex[1:len(ex)-1], ey[1:len(ey)-1])
		if err != nil {
			return "", err
		}

		return strings.Repeat("[", dx) + "L" + common + ";", nil
	}

	// At the shallower depth both sides are arrays of objects unless the
	// shallower element is primitive.
	m := min(dx, dy)
	shallow := ex
	if dy < dx {
		shallow = ey
	}

	if dx == dy || shallow[0] != 'L' {
		m--
	}

	if m == 0 {
		return ObjectClass, nil
	}

	return strings.Repeat("[", m) + "L" + ObjectClass + ";", nil
}

// execute applies one instruction to s and returns its branch targets and
// whether control falls through to the next instruction.
func (a *frameAnalysis) execute(insn Instruction, s *frameState) ([]*Label, bool, error) {
	switch i := insn.(type) {
	case *Label:
		return nil, true, nil
	case *Insn:
		return a.executeSimple(i.Op, s)
	case *IntInsn:
		if i.Op == OpNewarray {
			desc, ok := newarrayDescs[i.Operand]
			if !ok {
				return nil, false, fmt.Errorf("%w: newarray type %d", ErrMalformed, i.Operand)
			}

			if err := s.pop(1); err != nil {
				return nil, false, err
			}

			s.push(ObjectType(desc))

			return nil, true, nil
		}

		s.push(Integer)

		return nil, true, nil
	case *VarInsn:
		return nil, true, a.executeVar(i, s)
	case *IincInsn:
		s.setLocal(i.Var, Integer)
		return nil, true, nil
	case *JumpInsn:
		return a.executeJump(i, s)
	case *TableSwitchInsn:
		return append([]*Label{i.Default}, i.Targets...), false, s.pop(1)
	case *LookupSwitchInsn:
		return append([]*Label{i.Default}, i.Targets...), false, s.pop(1)
	case *LdcInsn:
		v, err := ldcType(i.Value)
		if err != nil {
			return nil, false, err
		}

		s.push(v)

		return nil, true, nil
	case *FieldInsn:
		return nil, true, executeField(i, s)
	case *MethodInsn:
		return nil, true, a.executeInvoke(i, s)
	case *InvokeDynamicInsn:
		return nil, true, executeCall(i.Desc, s)
	case *TypeInsn:
		return nil, true, a.executeType(i, s)
	case *MultiANewArrayInsn:
		if err := s.pop(i.Dims); err != nil {
			return nil, false, err
		}

		s.push(ObjectType(i.Desc))

		return nil, true, nil
	default:
		return nil, false, fmt.Errorf("unsupported instruction %T", insn)
	}
}

func (a *frameAnalysis) executeVar(i *VarInsn, s *frameState) error {
	switch i.Op {
	case OpIload:
		s.push(Integer)
	case OpLload:
		s.push(Long)
	case OpFload:
		s.push(Float)
	case OpDload:
		s.push(Double)
	case OpAload:
		s.push(s.local(i.Var))
	case OpIstore, OpLstore, OpFstore, OpDstore, OpAstore:
		v, err := s.popValue()
		if err != nil {
			return err
		}

		s.setLocal(i.Var, v)
	default:
		return ErrSubroutine
	}

	return nil
}

func (a *frameAnalysis) executeJump(i *JumpInsn, s *frameState) ([]*Label, bool, error) {
	var pops int

	switch {
	case i.Op == OpGoto:
		return []*Label{i.Target}, false, nil
	case i.Op == OpJsr:
		return nil, false, ErrSubroutine
	case i.Op >= OpIfeq && i.Op <= OpIfle, i.Op == OpIfnull, i.Op == OpIfnonnull:
		pops = 1
	default:
		pops = 2
	}

	return []*Label{i.Target}, true, s.pop(pops)
}

func (a *frameAnalysis) executeType(i *TypeInsn, s *frameState) error {
	switch i.Op {
	case OpNew:
		l, ok := a.newLabels[i]
		if !ok {
			return fmt.Errorf("%w: unlabeled new", ErrMalformed)
		}

		s.push(VType{Kind: VUninitialized, New: l})
	case OpAnewarray:
		if err := s.pop(1); err != nil {
			return err
		}

		if strings.HasPrefix(i.Type, "[") {
			s.push(ObjectType("[" + i.Type))
		} else {
			s.push(ObjectType("[L" + i.Type + ";"))
		}
	case OpCheckcast:
		if err := s.pop(1); err != nil {
			return err
		}

		s.push(ObjectType(i.Type))
	default:
		if err := s.pop(1); err != nil {
			return err
		}

		s.push(Integer)
	}

	return nil
}

func executeField(i *FieldInsn, s *frameState) error {
	v, err := vtypeOfDesc(i.Desc)
	if err != nil {
		return err
	}

	switch i.Op {
	case OpGetstatic:
		s.push(v)
	case OpPutstatic:
		_, err = s.popValue()
	case OpGetfield:
		err = s.pop(1)
		s.push(v)
	default:
		if _, err = s.popValue(); err == nil {
			err = s.pop(1)
		}
	}

	return err
}

// executeCall pops the arguments of desc and pushes its result.
func executeCall(desc string, s *frameState) error {
	mt, err := jvmtype.ParseMethod(desc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := s.pop(mt.ArgSlots()); err != nil {
		return err
	}

	if mt.Return != jvmtype.Void {
		s.push(vtypeOf(mt.Return))
	}

	return nil
}

func (a *frameAnalysis) executeInvoke(i *MethodInsn, s *frameState) error {
	mt, err := jvmtype.ParseMethod(i.Desc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if err := s.pop(mt.ArgSlots()); err != nil {
		return err
	}

	if i.Op != OpInvokestatic {
		recv, err := s.popValue()
		if err != nil {
			return err
		}

		if i.Op == OpInvokespecial && i.Name == "<init>" {
			switch recv.Kind {
			case VUninitializedThis:
				s.replace(recv, ObjectType(a.owner))
			case VUninitialized:
				s.replace(recv, ObjectType(a.newTypes[recv.New]))
			}
		}
	}

	if mt.Return != jvmtype.Void {
		s.push(vtypeOf(mt.Return))
	}

	return nil
}

func ldcType(c Constant) (VType, error) {
	switch c := c.(type) {
	case IntConst:
		return Integer, nil
	case FloatConst:
		return Float, nil
	case LongConst:
		return Long, nil
	case DoubleConst:
		return Double, nil
	case StringConst:
		return ObjectType("java/lang/String"), nil
	case TypeConst:
		if c.Sort() == SortMethod {
			return ObjectType("java/lang/invoke/MethodType"), nil
		}

		return ObjectType("java/lang/Class"), nil
	case Handle:
		return ObjectType("java/lang/invoke/MethodHandle"), nil
	case ConstantDynamic:
		return vtypeOfDesc(c.Desc)
	default:
		return VType{}, fmt.Errorf("unsupported constant %T", c)
	}
}

// executeSimple handles the operand-free instructions.
func (a *frameAnalysis) executeSimple(op Opcode, s *frameState) ([]*Label, bool, error) {
	// push stays Top for instructions that push nothing.
	var (
		pops int
		push VType
	)

	switch {
	case op == OpNop:
	case op == OpAconstNull:
		push = Null
	case op >= OpIconstM1 && op <= OpIconst5:
		push = Integer
	case op == OpLconst0 || op == OpLconst1:
		push = Long
	case op >= OpFconst0 && op <= OpFconst2:
		push = Float
	case op == OpDconst0 || op == OpDconst1:
		push = Double
	case op == OpAaload:
		if err := s.pop(1); err != nil {
			return nil, false, err
		}

		arr, err := s.popValue()
		if err != nil {
			return nil, false, err
		}

		s.push(elementType(arr))

		return nil, true, nil
	case op >= OpIaload && op <= OpSaload:
		pops, push = 2, [...]VType{Integer, Long, Float, Double, Top, Integer, Integer, Integer}[op-OpIaload]
	case op == OpLastore || op == OpDastore:
		pops = 4
	case op >= OpIastore && op <= OpSastore:
		pops = 3
	case op == OpPop:
		pops = 1
	case op == OpPop2:
		pops = 2
	case op >= OpDup && op <= OpSwap:
		return nil, true, shuffle(op, s)
	case op >= OpIadd && op <= OpDrem:
		// i, l, f, d repeating.
		k := (op - OpIadd) % 4
		pops, push = [...]int{2, 4, 2, 4}[k], [...]VType{Integer, Long, Float, Double}[k]
	case op >= OpIneg && op <= OpDneg:
		k := op - OpIneg
		pops, push = [...]int{1, 2, 1, 2}[k], [...]VType{Integer, Long, Float, Double}[k]
	case op >= OpIshl && op <= OpLushr:
		if (op-OpIshl)%2 == 0 {
			pops, push = 2, Integer
		} else {
			pops, push = 3, Long
		}
	case op >= OpIand && op <= OpLxor:
		if (op-OpIand)%2 == 0 {
			pops, push = 2, Integer
		} else {
			pops, push = 4, Long
		}
	case op >= OpI2l && op <= OpI2s:
		k := op - OpI2l
		pops = [...]int{1, 1, 1, 2, 2, 2, 1, 1, 1, 2, 2, 2, 1, 1, 1}[k]
		push = [...]VType{Long, Float, Double, Integer, Float, Double, Integer, Long, Double, Integer, Long, Float, Integer, Integer, Integer}[k]
	case op == OpLcmp || op == OpDcmpl || op == OpDcmpg:
		pops, push = 4, Integer
	case op == OpFcmpl || op == OpFcmpg:
		pops, push = 2, Integer
	case op == OpIreturn || op == OpFreturn || op == OpAreturn || op == OpAthrow:
		return nil, false, s.pop(1)
	case op == OpLreturn || op == OpDreturn:
		return nil, false, s.pop(2)
	case op == OpReturn:
		return nil, false, nil
	case op == OpArraylength:
		pops, push = 1, Integer
	case op == OpMonitorenter || op == OpMonitorexit:
		pops = 1
	default:
		return nil, false, fmt.Errorf("%w: opcode %d", ErrMalformed, op)
	}

	if err := s.pop(pops); err != nil {
		return nil, false, err
	}

	if push != Top {
		s.push(push)
	}

	return nil, true, nil
}

func elementType(arr VType) VType {
	if arr.Kind != VObject || arrayDims(arr.Class) == 0 {
		return Null
	}

	elem := arr.Class[1:]
	if elem[0] == 'L' {
		return ObjectType(elem[1 : len(elem)-1])
	}

	return ObjectType(elem)
}

func shuffle(op Opcode, s *frameState) error {
	need := map[Opcode]int{OpDup: 1, OpDupX1: 2, OpDupX2: 3, OpDup2: 2, OpDup2X1: 3, OpDup2X2: 4, OpSwap: 2}[op]
	if len(s.stack) < need {
		return fmt.Errorf("%w: stack underflow", ErrMalformed)
	}

	n := len(s.stack)
	top := append([]VType(nil), s.stack[n-need:]...)
	base := s.stack[:n-need]

	var out []VType

	switch op {
	case OpDup:
		out = []VType{top[0], top[0]}
	case OpDupX1:
		out = []VType{top[1], top[0], top[1]}
	case OpDupX2:
		out = []VType{top[2], top[0], top[1], top[2]}
	case OpDup2:
		out = []VType{top[0], top[1], top[0], top[1]}
	case OpDup2X1:
		out = []VType{top[1], top[2], top[0], top[1], top[2]}
	case OpDup2X2:
		out = []VType{top[2], top[3], top[0], top[1], top[2], top[3]}
	default:
		out = []VType{top[1], top[0]}
	}

	s.stack = append(base, out...)

	return nil
}

// maxLocals returns the number of local slots the code uses.
func maxLocals(args []VType, insns []Instruction) int {
	n := len(args)

	for _, insn := range insns {
		switch i := insn.(type) {
		case *VarInsn:
			size := 1
			if i.Op == OpLload || i.Op == OpDload || i.Op == OpLstore || i.Op == OpDstore {
				size = 2
			}

			n = max(n, i.Var+size)
		case *IincInsn:
			n = max(n, i.Var+1)
		}
	}

	return n
}

// emit builds the final instruction list, replacing unreachable code by
// athrow, and collects the frames every branch target needs.
func (a *frameAnalysis) emit() *codeResult {
	res := &codeResult{maxStack: a.maxStack}

	targets := a.frameTargets()

	type deadRun struct {
		start, end *Label
		from       int
	}

	var runs []deadRun

	for p := 0; p < len(a.insns); p++ {
		insn := a.insns[p]

		if l, ok := insn.(*Label); ok {
			res.insns = append(res.insns, l)

			if _, want := targets[l]; want && a.in[p] != nil {
				res.frames = append(res.frames, Frame{
					Label:  l,
					Locals: compact(a.in[p].locals, true),
					Stack:  compact(a.in[p].stack, false),
				})
			}

			continue
		}

		if a.in[p] != nil {
			res.insns = append(res.insns, insn)
			continue
		}

		// An unreachable run: keep its labels, drop its instructions.
		run := deadRun{start: NewLabel(), end: NewLabel(), from: p}
		res.insns = append(res.insns, run.start, &Insn{Op: OpAthrow}, run.end)
		res.frames = append(res.frames, Frame{Label: run.start, Stack: []VType{ObjectType(throwableClass)}})
		res.maxStack = max(res.maxStack, 1)

		for p+1 < len(a.insns) {
			next := a.insns[p+1]
			if l, ok := next.(*Label); ok {
				// A reachable label ends the run.
				if a.in[p+1] != nil {
					break
				}

				res.insns = append(res.insns, l)
			} else if a.in[p+1] != nil {
				break
			}

			p++
		}

		runs = append(runs, run)
	}

	res.tries = a.tries
	pos := maps.Clone(a.labelPos)

	for _, run := range runs {
		res.tries = splitTries(res.tries, pos, run.from, run.start, run.end)
		pos[run.start], pos[run.end] = run.from, run.from
	}

	return res
}

// frameTargets returns the labels that start a basic block.
func (a *frameAnalysis) frameTargets() map[*Label]struct{} {
	targets := map[*Label]struct{}{}

	for i, insn := range a.insns {
		switch v := insn.(type) {
		case *JumpInsn:
			targets[v.Target] = struct{}{}
		case *TableSwitchInsn:
			targets[v.Default] = struct{}{}
			for _, l := range v.Targets {
				targets[l] = struct{}{}
			}
		case *LookupSwitchInsn:
			targets[v.Default] = struct{}{}
			for _, l := range v.Targets {
				targets[l] = struct{}{}
			}
		}

		if endsBlock(insn) && i+1 < len(a.insns) {
			if l, ok := a.insns[i+1].(*Label); ok {
				targets[l] = struct{}{}
			}
		}
	}

	for _, t := range a.tries {
		targets[t.Handler] = struct{}{}
	}

	return targets
}

// splitTries removes the athrow of an unreachable run starting at
// instruction position from from every exception range covering it.
func splitTries(tries []TryCatchBlock, pos map[*Label]int, from int, start, end *Label) []TryCatchBlock {
	out := make([]TryCatchBlock, 0, len(tries))

	for _, t := range tries {
		ts, okS := pos[t.Start]
		te, okE := pos[t.End]

		if !okS || !okE || ts > from || te <= from {
			out = append(out, t)
			continue
		}

		out = append(out,
			TryCatchBlock{Start: t.Start, End: start, Handler: t.Handler, Type: t.Type},
			TryCatchBlock{Start: end, End: t.End, Handler: t.Handler, Type: t.Type},
		)
	}

	return out
}
