package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/objckit/objckit"
	"github.com/objckit/objckit/bridge"
	"github.com/objckit/objckit/engine"
	"github.com/objckit/objckit/enginetest"
	"github.com/objckit/objckit/marshal"
	"github.com/objckit/objckit/refcount"
	"github.com/objckit/objckit/trait"
)

func main() {
	var (
		className   = flag.String("class", "", "Describe one class (composed surface)")
		send        = flag.String("send", "", "One-shot send: Class.selector or Class.selector:with:")
		argsStr     = flag.String("args", "", "Integer arguments for -send (comma-separated)")
		real        = flag.Bool("real", false, "Bind the native runtime instead of the built-in demo")
		list        = flag.Bool("list", false, "List declared classes and exit")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		l, err := zap.NewDevelopment()
		if err == nil {
			engine.SetLogger(l)
		}
	}

	br, reg, err := setup(*real, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(br, reg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(br, reg, *className, *send, *argsStr, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup binds a runtime and declares the classes the browser knows
// about. The demo runtime is self-contained; -real needs libobjc.
func setup(real, verbose bool) (*bridge.Bridge, *trait.Registry, error) {
	var opts []bridge.Option
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			opts = append(opts, bridge.WithLogger(l))
		}
	}

	if real {
		rt, err := engine.New()
		if err != nil {
			return nil, nil, err
		}
		reg, err := realRegistry()
		if err != nil {
			return nil, nil, err
		}
		return bridge.New(rt, opts...), reg, nil
	}

	rt := demoRuntime()
	reg, err := demoRegistry()
	if err != nil {
		return nil, nil, err
	}
	return bridge.New(rt, opts...), reg, nil
}

// demoRuntime builds the in-memory runtime the browser ships with: a
// small class tree with a counter that actually counts.
func demoRuntime() *enginetest.Fake {
	rt := enginetest.New()
	rt.DefineClass("Object", "")
	rt.DefineClass("Box", "Object")
	rt.DefineClass("Counter", "Object")

	rt.DefineMethod("Object", "hash", func(recv objckit.ID, _ []objckit.Word) objckit.Word {
		return objckit.Word(recv)
	})
	rt.DefineMethod("Box", "length", func(_ objckit.ID, _ []objckit.Word) objckit.Word {
		return 42
	})

	counts := map[objckit.ID]int64{}
	rt.DefineMethod("Counter", "value", func(recv objckit.ID, _ []objckit.Word) objckit.Word {
		return objckit.Word(counts[recv])
	})
	rt.DefineMethod("Counter", "incrementBy:", func(recv objckit.ID, args []objckit.Word) objckit.Word {
		counts[recv] += int64(args[0])
		return objckit.Word(counts[recv])
	})
	return rt
}

func demoRegistry() (*trait.Registry, error) {
	reg := trait.NewRegistry()
	decls := []trait.Class{
		{
			Name:        "Object",
			OwnsBacking: true,
			Methods: []trait.Method{
				{Sel: "hash", Result: marshal.KindUint64},
			},
		},
		{
			Name:        "Box",
			Ancestry:    []string{"Object"},
			OwnsBacking: true,
			Methods: []trait.Method{
				{Sel: "length", Result: marshal.KindInt64},
			},
		},
		{
			Name:        "Counter",
			Ancestry:    []string{"Object"},
			OwnsBacking: true,
			Methods: []trait.Method{
				{Sel: "value", Result: marshal.KindInt64},
				{Sel: "incrementBy:", Params: []marshal.Kind{marshal.KindInt64}, Result: marshal.KindInt64},
			},
		},
	}
	for _, c := range decls {
		if err := reg.RegisterClass(c); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// realRegistry declares the slice of Foundation the browser can poke at
// through the native binding.
func realRegistry() (*trait.Registry, error) {
	reg := trait.NewRegistry()
	err := reg.RegisterClass(trait.Class{
		Name:        "NSObject",
		OwnsBacking: true,
		Methods: []trait.Method{
			{Sel: "hash", Result: marshal.KindUint64},
			{Sel: "isEqual:", Params: []marshal.Kind{marshal.KindObject}, Result: marshal.KindBool},
			{Sel: "isKindOfClass:", Params: []marshal.Kind{marshal.KindClass}, Result: marshal.KindBool},
		},
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

func run(br *bridge.Bridge, reg *trait.Registry, className, send, argsStr string, listOnly bool) error {
	classes := reg.Classes()

	if listOnly || (className == "" && send == "") {
		fmt.Printf("Declared classes:\n")
		for _, name := range classes {
			fmt.Printf("  %s\n", name)
		}
		if send == "" {
			return nil
		}
	}

	if className != "" {
		return describeClass(br, reg, className)
	}
	if send != "" {
		return oneShot(br, reg, send, argsStr)
	}
	return nil
}

func describeClass(br *bridge.Bridge, reg *trait.Registry, name string) error {
	flat, err := reg.Flatten(name)
	if err != nil {
		return err
	}
	if _, err := br.Class(name); err != nil {
		return err
	}

	fmt.Printf("Class: %s\n\nComposed surface:\n", name)
	for _, m := range flat {
		fmt.Printf("  %s\n", formatMethod(m))
	}
	return nil
}

// oneShot constructs an instance, sends one selector, and prints the
// result.
func oneShot(br *bridge.Bridge, reg *trait.Registry, spec, argsStr string) error {
	className, sel, ok := strings.Cut(spec, ".")
	if !ok {
		return fmt.Errorf("send spec %q: want Class.selector", spec)
	}

	m, err := findMethod(reg, className, sel)
	if err != nil {
		return err
	}

	var args []any
	if argsStr != "" {
		for _, a := range strings.Split(argsStr, ",") {
			n, err := strconv.ParseInt(strings.TrimSpace(a), 10, 64)
			if err != nil {
				return fmt.Errorf("argument %q: %w", a, err)
			}
			args = append(args, n)
		}
	}

	obj, err := br.NewObject(className)
	if err != nil {
		return err
	}
	defer obj.Release()

	pool := br.Refs().PushPool()
	defer pool.Drain()

	result, err := sendMethod(br, obj.Handle(), m, args)
	if err != nil {
		return err
	}
	fmt.Printf("%s.%s = %s\n", className, sel, result)
	return nil
}

// sendMethod dispatches and renders the result, moving object results
// into the active pool.
func sendMethod(br *bridge.Bridge, recv objckit.ID, m trait.Method, args []any) (string, error) {
	out, err := br.Dispatch().Send(recv, m, args...)
	if err != nil {
		return "", err
	}
	if m.Result == marshal.KindVoid {
		return "(void)", nil
	}
	if ref, ok := out.(*refcount.Ref); ok {
		h := ref.Handle()
		if ref.Owned() {
			ref.Autorelease()
		}
		return br.WrapBorrowed(h).String(), nil
	}
	return fmt.Sprintf("%v", out), nil
}

func findMethod(reg *trait.Registry, className, sel string) (trait.Method, error) {
	flat, err := reg.Flatten(className)
	if err != nil {
		return trait.Method{}, err
	}
	for _, m := range flat {
		if m.Sel == sel && !m.ClassMethod {
			return m.Method, nil
		}
	}
	return trait.Method{}, fmt.Errorf("class %s declares no selector %q", className, sel)
}

func formatMethod(m trait.Composed) string {
	side := "-"
	if m.ClassMethod {
		side = "+"
	}
	var params []string
	for _, p := range m.Params {
		params = append(params, p.String())
	}
	sig := m.Sel
	if len(params) > 0 {
		sig += " (" + strings.Join(params, ", ") + ")"
	}
	result := m.Result.String()
	if m.Result == marshal.KindObject && m.TransfersOwnership() {
		result += " +1"
	}
	return fmt.Sprintf("%s %-30s -> %-8s [%s]", side, sig, result, m.Source)
}
