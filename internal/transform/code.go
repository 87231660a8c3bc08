package transform

import (
	"fmt"
	"strings"

	"archive-mapper/internal/classfile"
	"archive-mapper/internal/diagnostic"
)

// code rewrites a method body. method is the source-side method name.
func (c *classRewrite) code(code *classfile.Code, method string) error {
	for i, insn := range code.Instructions {
		if err := c.instruction(insn); err != nil {
			return fmt.Errorf("instruction %d: %w", i, err)
		}
	}

	for i := range code.TryCatchBlocks {
		if t := &code.TryCatchBlocks[i]; t.Type != "" {
			t.Type = c.className(t.Type)
		}
	}

	for i := range code.LocalVariables {
		lv := &code.LocalVariables[i]
		lv.Desc = c.typeDesc(lv.Desc)
		lv.Signature = c.signature(lv.Signature, method)
	}

	for i := range code.Frames {
		c.frameTypes(code.Frames[i].Locals)
		c.frameTypes(code.Frames[i].Stack)
	}

	return nil
}

func (c *classRewrite) instruction(insn classfile.Instruction) error {
	switch in := insn.(type) {
	case *classfile.Label, *classfile.Insn, *classfile.IntInsn, *classfile.VarInsn,
		*classfile.IincInsn, *classfile.JumpInsn, *classfile.TableSwitchInsn,
		*classfile.LookupSwitchInsn:
		return nil

	case *classfile.FieldInsn:
		in.Name = c.fieldName(in.Owner, in.Name)
		in.Owner = c.className(in.Owner)
		in.Desc = c.typeDesc(in.Desc)

	case *classfile.MethodInsn:
		// Methods invoked on arrays are inherited from Object.
		if strings.HasPrefix(in.Owner, "[") {
			in.Owner = c.typeDesc(in.Owner)
			return nil
		}

		desc, err := c.methodDesc(in.Desc)
		if err != nil {
			return err
		}

		in.Name = c.methodName(in.Owner, in.Name, in.Desc)
		in.Owner = c.className(in.Owner)
		in.Desc = desc

	case *classfile.InvokeDynamicInsn:
		bsm, err := c.handle(in.Bsm)
		if err != nil {
			return err
		}

		args, err := c.constants(in.BsmArgs)
		if err != nil {
			return err
		}

		desc, err := c.methodDesc(in.Desc)
		if err != nil {
			return err
		}

		in.Bsm, in.BsmArgs, in.Desc = bsm, args, desc

	case *classfile.TypeInsn:
		in.Type = c.className(in.Type)

	case *classfile.MultiANewArrayInsn:
		in.Desc = c.typeDesc(in.Desc)

	case *classfile.LdcInsn:
		v, err := c.constant(in.Value)
		if err != nil {
			return err
		}

		in.Value = v

	default:
		return diagnostic.New(diagnostic.UnsupportedConstruct, c.owner, "unsupported instruction %T", insn)
	}

	return nil
}

// constant translates the names inside a loadable constant.
func (p *Pass) constant(v classfile.Constant) (classfile.Constant, error) {
	switch k := v.(type) {
	case classfile.TypeConst:
		if k.Sort() != classfile.SortMethod {
			return classfile.TypeConst{Desc: p.typeDesc(k.Desc)}, nil
		}

		desc, err := p.methodDesc(k.Desc)
		if err != nil {
			return nil, err
		}

		return classfile.TypeConst{Desc: desc}, nil

	case classfile.Handle:
		return p.handle(k)

	case classfile.ConstantDynamic:
		return p.dynamic(k)

	default:
		return v, nil
	}
}

func (p *Pass) constants(vs []classfile.Constant) ([]classfile.Constant, error) {
	if len(vs) == 0 {
		return vs, nil
	}

	out := make([]classfile.Constant, len(vs))

	for i, v := range vs {
		mapped, err := p.constant(v)
		if err != nil {
			return nil, fmt.Errorf("bootstrap argument %d: %w", i, err)
		}

		out[i] = mapped
	}

	return out, nil
}

// handle translates a method handle according to what its kind references.
func (p *Pass) handle(h classfile.Handle) (classfile.Handle, error) {
	switch {
	case h.Kind.IsField():
		h.Name = p.fieldName(h.Owner, h.Name)
		h.Desc = p.typeDesc(h.Desc)
	case h.Kind.IsMethod():
		desc, err := p.methodDesc(h.Desc)
		if err != nil {
			return h, err
		}

		h.Name = p.methodName(h.Owner, h.Name, h.Desc)
		h.Desc = desc
	default:
		return h, diagnostic.New(diagnostic.UnsupportedConstruct, h.Owner+"."+h.Name,
			"unknown method handle kind %d", h.Kind)
	}

	h.Owner = p.className(h.Owner)

	return h, nil
}

// dynamic translates a dynamic constant. Its name is not a member
// reference and is kept.
func (p *Pass) dynamic(d classfile.ConstantDynamic) (classfile.ConstantDynamic, error) {
	bsm, err := p.handle(d.Bsm)
	if err != nil {
		return d, err
	}

	args, err := p.constants(d.Args)
	if err != nil {
		return d, err
	}

	d.Bsm, d.Args, d.Desc = bsm, args, p.typeDesc(d.Desc)

	return d, nil
}

func (p *Pass) frameTypes(types []classfile.VType) {
	for i := range types {
		if types[i].Kind == classfile.VObject {
			types[i].Class = p.className(types[i].Class)
		}
	}
}
