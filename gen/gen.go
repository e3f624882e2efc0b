package gen

import (
	"bytes"
	"go/format"
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/objckit/objckit/errors"
	"github.com/objckit/objckit/marshal"
	"github.com/objckit/objckit/trait"
)

// Import paths the generated code refers to.
const (
	pkgRoot     = "github.com/objckit/objckit"
	pkgBridge   = pkgRoot + "/bridge"
	pkgDispatch = pkgRoot + "/dispatch"
	pkgMarshal  = pkgRoot + "/marshal"
	pkgRefcount = pkgRoot + "/refcount"
	pkgTrait    = pkgRoot + "/trait"
)

// Generator emits Go source for classes declared in a trait registry.
// Two primitives exist: Object emits the wrapper type for a class and
// Interface emits its method surface. A binding package is typically one
// Object plus one Interface per class, all into the same target package.
type Generator struct {
	reg *trait.Registry
	pkg string
}

// New creates a generator targeting the named package.
func New(reg *trait.Registry, pkg string) *Generator {
	return &Generator{reg: reg, pkg: pkg}
}

// Object emits the wrapper type for a class: a struct embedding the
// direct superclass's wrapper (root classes embed bridge.Object), a
// WrapX constructor from a raw reference, and a NewX or BorrowX
// constructor per the declared backing policy. Equality, formatting,
// and release arrive through the embedded base.
func (g *Generator) Object(className string) ([]byte, error) {
	c, ok := g.reg.Class(className)
	if !ok {
		return nil, errors.New(errors.PhaseGenerate, errors.KindNotFound).
			Class(className).
			Detail("class not registered").
			Build()
	}
	if !isLetter(c.Name[0]) || c.Name[0] >= 'a' {
		return nil, errors.InvalidName(errors.PhaseGenerate, c.Name)
	}

	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by objckit. DO NOT EDIT.")

	var base jen.Code
	var wrapBase jen.Code
	if len(c.Ancestry) > 0 {
		super := c.Ancestry[0]
		base = jen.Id(super)
		wrapBase = jen.Id("Wrap" + super).Call(jen.Id("br"), jen.Id("ref"))
	} else {
		base = jen.Qual(pkgBridge, "Object")
		wrapBase = jen.Id("br").Dot("Wrap").Call(jen.Id("ref"))
	}

	f.Commentf("%s wraps the foreign %s class.", c.Name, c.Name)
	f.Type().Id(c.Name).Struct(base)
	f.Line()

	f.Commentf("Wrap%s builds a wrapper around an existing reference.", c.Name)
	f.Func().Id("Wrap"+c.Name).Params(
		jen.Id("br").Op("*").Qual(pkgBridge, "Bridge"),
		jen.Id("ref").Op("*").Qual(pkgRefcount, "Ref"),
	).Id(c.Name).Block(
		jen.Return(jen.Id(c.Name).Values(wrapBase)),
	)
	f.Line()

	if c.OwnsBacking {
		f.Commentf("New%s allocates and initializes a fresh instance.", c.Name)
		f.Func().Id("New"+c.Name).Params(
			jen.Id("br").Op("*").Qual(pkgBridge, "Bridge"),
		).Params(jen.Id(c.Name), jen.Error()).Block(
			jen.List(jen.Id("obj"), jen.Err()).Op(":=").Id("br").Dot("NewObject").Call(jen.Lit(c.Name)),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Id(c.Name).Values(), jen.Err()),
			),
			jen.Return(jen.Id("Wrap"+c.Name).Call(jen.Id("br"), jen.Id("obj").Dot("Ref").Call()), jen.Nil()),
		)
	} else {
		f.Commentf("Borrow%s wraps a handle the runtime retains ownership of.", c.Name)
		f.Func().Id("Borrow"+c.Name).Params(
			jen.Id("br").Op("*").Qual(pkgBridge, "Bridge"),
			jen.Id("h").Qual(pkgRoot, "ID"),
		).Id(c.Name).Block(
			jen.Return(jen.Id("Wrap"+c.Name).Call(jen.Id("br"), jen.Id("br").Dot("Refs").Call().Dot("Borrow").Call(jen.Id("h")))),
		)
	}

	return g.render(f)
}

// Interface emits the method surface a wrapper declares itself: for each
// method the class or its introduced protocols contribute, a
// package-level trait.Method descriptor and a typed Go method whose body
// marshals through the dispatch engine. Inherited methods are not
// re-emitted; they arrive through the embedded superclass wrapper.
func (g *Generator) Interface(className string) ([]byte, error) {
	surface, err := g.reg.Surface(className)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(g.pkg)
	f.HeaderComment("Code generated by objckit. DO NOT EDIT.")

	for _, cm := range surface {
		exported, err := goName(cm.Sel)
		if err != nil {
			return nil, err
		}
		desc := descName(className, exported, cm.ClassMethod)

		f.Var().Id(desc).Op("=").Qual(pkgTrait, "Method").Values(methodLiteral(cm.Method)...)

		if cm.ClassMethod {
			g.classMethod(f, className, exported, desc, cm.Method)
		} else {
			g.instanceMethod(f, className, exported, desc, cm.Method)
		}
		f.Line()
	}

	return g.render(f)
}

// instanceMethod emits a value-receiver method sending to the wrapped
// handle. Nil receivers are the dispatch engine's concern, not the
// generated code's.
func (g *Generator) instanceMethod(f *jen.File, className, exported, desc string, m trait.Method) {
	recv := strings.ToLower(className[:1])
	params, args := paramList(m)

	stmt := f.Func().Params(jen.Id(recv).Id(className)).Id(exported).Params(params...)
	target := jen.Id(recv).Dot("Bridge").Call().Dot("Dispatch").Call()
	handle := jen.Id(recv).Dot("Handle").Call()
	g.body(stmt, m, target, handle, jen.Id(recv).Dot("Bridge").Call(), desc, args, nil)
}

// classMethod emits a package-level function taking the bridge, sending
// to the class object.
func (g *Generator) classMethod(f *jen.File, className, exported, desc string, m trait.Method) {
	params := []jen.Code{jen.Id("br").Op("*").Qual(pkgBridge, "Bridge")}
	extra, args := paramList(m)
	params = append(params, extra...)

	lookup := []jen.Code{
		jen.List(jen.Id("cls"), jen.Err()).Op(":=").Id("br").Dot("Class").Call(jen.Lit(className)),
	}

	stmt := f.Func().Id(className + exported).Params(params...)
	target := jen.Id("br").Dot("Dispatch").Call()
	handle := jen.Id("cls").Dot("Object").Call()
	g.body(stmt, m, target, handle, jen.Id("br"), desc, args, lookup)
}

// body attaches the result signature and dispatch call. prologue runs
// before the send and may set err; it is used for class lookup.
func (g *Generator) body(stmt *jen.Statement, m trait.Method, target, handle, bridgeExpr jen.Code, desc string, args []jen.Code, prologue []jen.Code) {
	callArgs := append([]jen.Code{target, handle, jen.Id(desc)}, args...)

	errReturn := func(zero jen.Code) []jen.Code {
		if prologue == nil {
			return nil
		}
		out := append([]jen.Code{}, prologue...)
		if zero != nil {
			out = append(out, jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())))
		} else {
			out = append(out, jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())))
		}
		return out
	}

	switch {
	case m.Result == marshal.KindVoid:
		body := errReturn(nil)
		// The class-lookup prologue already declares err.
		assign := ":="
		if prologue != nil {
			assign = "="
		}
		body = append(body,
			jen.List(jen.Id("_"), jen.Err()).Op(assign).Add(target).Dot("Send").Call(append([]jen.Code{handle, jen.Id(desc)}, args...)...),
			jen.Return(jen.Err()),
		)
		stmt.Error().Block(body...)

	case m.Result.IsObject():
		body := errReturn(jen.Qual(pkgBridge, "Object").Values())
		body = append(body,
			jen.List(jen.Id("ref"), jen.Err()).Op(":=").Qual(pkgDispatch, "Call").Index(jen.Op("*").Qual(pkgRefcount, "Ref")).Call(callArgs...),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(jen.Qual(pkgBridge, "Object").Values(), jen.Err()),
			),
			jen.Return(jen.Add(bridgeExpr).Dot("Wrap").Call(jen.Id("ref")), jen.Nil()),
		)
		stmt.Params(jen.Qual(pkgBridge, "Object"), jen.Error()).Block(body...)

	default:
		resType := kindType(m.Result)
		var zero jen.Code
		switch m.Result {
		case marshal.KindBool:
			zero = jen.False()
		default:
			zero = jen.Add(kindType(m.Result)).Call(jen.Lit(0))
		}
		body := errReturn(zero)
		body = append(body,
			jen.Return(jen.Qual(pkgDispatch, "Call").Index(resType).Call(callArgs...)),
		)
		stmt.Params(resType, jen.Error()).Block(body...)
	}
}

// paramList derives typed parameters from the selector segments, one per
// declared kind, and the matching argument expressions.
func paramList(m trait.Method) (params, args []jen.Code) {
	segs := strings.Split(strings.TrimSuffix(m.Sel, ":"), ":")
	seen := map[string]bool{}
	for i, k := range m.Params {
		name := "arg" + strconv.Itoa(i)
		if i < len(segs) {
			name = paramName(segs[i], i)
		}
		if seen[name] {
			name = name + strconv.Itoa(i)
		}
		seen[name] = true
		params = append(params, jen.Id(name).Add(kindType(k)))
		args = append(args, jen.Id(name))
	}
	return params, args
}

var kindConsts = map[marshal.Kind]string{
	marshal.KindVoid:     "KindVoid",
	marshal.KindBool:     "KindBool",
	marshal.KindInt:      "KindInt",
	marshal.KindInt8:     "KindInt8",
	marshal.KindInt16:    "KindInt16",
	marshal.KindInt32:    "KindInt32",
	marshal.KindInt64:    "KindInt64",
	marshal.KindUint:     "KindUint",
	marshal.KindUint8:    "KindUint8",
	marshal.KindUint16:   "KindUint16",
	marshal.KindUint32:   "KindUint32",
	marshal.KindUint64:   "KindUint64",
	marshal.KindFloat32:  "KindFloat32",
	marshal.KindFloat64:  "KindFloat64",
	marshal.KindObject:   "KindObject",
	marshal.KindClass:    "KindClass",
	marshal.KindSelector: "KindSelector",
	marshal.KindPointer:  "KindPointer",
}

// kindType returns the Go type a kind decodes to, as generated code
// spells it.
func kindType(k marshal.Kind) jen.Code {
	switch k {
	case marshal.KindObject:
		return jen.Qual(pkgRoot, "ID")
	case marshal.KindClass:
		return jen.Qual(pkgRoot, "Class")
	case marshal.KindSelector:
		return jen.Qual(pkgRoot, "SEL")
	case marshal.KindPointer:
		return jen.Uintptr()
	default:
		return jen.Id(k.GoType())
	}
}

// methodLiteral builds the trait.Method composite literal fields for a
// descriptor variable, in declaration order, omitting zero values.
func methodLiteral(m trait.Method) []jen.Code {
	fields := []jen.Code{jen.Id("Sel").Op(":").Lit(m.Sel)}
	if len(m.Params) > 0 {
		var kinds []jen.Code
		for _, k := range m.Params {
			kinds = append(kinds, jen.Qual(pkgMarshal, kindConsts[k]))
		}
		fields = append(fields, jen.Id("Params").Op(":").Index().Qual(pkgMarshal, "Kind").Values(kinds...))
	}
	if m.Result != marshal.KindVoid {
		fields = append(fields, jen.Id("Result").Op(":").Qual(pkgMarshal, kindConsts[m.Result]))
	}
	switch m.Ownership {
	case trait.Owned:
		fields = append(fields, jen.Id("Ownership").Op(":").Qual(pkgTrait, "Owned"))
	case trait.Borrowed:
		fields = append(fields, jen.Id("Ownership").Op(":").Qual(pkgTrait, "Borrowed"))
	}
	if m.NilTolerant {
		fields = append(fields, jen.Id("NilTolerant").Op(":").True())
	}
	if m.ClassMethod {
		fields = append(fields, jen.Id("ClassMethod").Op(":").True())
	}
	return fields
}

// render produces formatted source from the built file.
func (g *Generator) render(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Cause(err).
			Detail("rendering failed").
			Build()
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Cause(err).
			Detail("generated source does not parse").
			Build()
	}
	return src, nil
}
