package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/seam/pkg/kernel"
	"github.com/chazu/seam/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites brush script source for zygomys:
//
//   - :keyword becomes the string literal "__kw_keyword", so keyword
//     arguments need no registered symbols.
//   - ; line comments become // comments.
//
// String literals are copied through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '"':
			j := i + 1
			for j < len(source) && source[j] != '"' {
				if source[j] == '\\' {
					j++
				}
				j++
			}
			end := min(j+1, len(source))
			out.WriteString(source[i:end])
			i = end - 1

		case c == ';':
			for i+1 < len(source) && source[i+1] == ';' {
				i++
			}
			out.WriteString("//")

		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			j := i + 1
			for j < len(source) && isKWChar(source[j]) {
				j++
			}
			out.WriteString(`"` + kwPrefix + source[i+1:j] + `"`)
			i = j - 1

		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid refers to a scene node that evaluates to a solid.
type sexpSolid struct {
	id   scene.NodeID
	desc string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string { return "(" + s.desc + ")" }
func (s *sexpSolid) Type() *zygo.RegisteredType            { return nil }

// sexpVec3 wraps a scene.Vec3.
type sexpVec3 struct {
	vec scene.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument helpers
// ---------------------------------------------------------------------------

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		str, ok := args[i].(*zygo.SexpStr)
		if !ok || !strings.HasPrefix(str.S, kwPrefix) {
			result.positional = append(result.positional, args[i])
			continue
		}
		name := str.S[len(kwPrefix):]
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// number returns the keyword argument key, or else positional argument
// pos. A negative pos accepts the keyword form only.
func (a kwArgs) number(key string, pos int) (float64, bool, error) {
	v, ok := a.kw[key]
	if !ok {
		if pos < 0 || pos >= len(a.positional) {
			return 0, false, nil
		}
		v = a.positional[pos]
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return f, true, nil
}

// positive is number for a required, strictly positive dimension.
func (a kwArgs) positive(key string, pos int) (float64, error) {
	f, ok, err := a.number(key, pos)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("missing %s", key)
	}
	if !(f > 0) {
		return 0, fmt.Errorf("%s must be positive, got %g", key, f)
	}
	return f, nil
}

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a solid reference.
func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	if ref, ok := s.(*sexpSolid); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (scene.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return scene.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtin is the signature zygomys expects for Go functions.
type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the brush DSL into env. Builtins add nodes and
// brushes to s as the script runs.
//
// Source must be preprocessed with preprocessSource so that :keyword tokens
// arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, s *scene.Scene) {
	primitive := func(desc string, data scene.PrimitiveData) zygo.Sexp {
		id := s.AddNode(&scene.Node{Kind: scene.NodePrimitive, Data: data})
		return &sexpSolid{id: id, desc: desc}
	}

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var c [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: scene.Vec3{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// (box :size (vec3 10 20 5)) or (box 10 20 5)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size scene.Vec3
		if v, ok := pa.kw["size"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			size = vec
		} else {
			dims := [3]*float64{&size.X, &size.Y, &size.Z}
			for i, key := range []string{"x", "y", "z"} {
				f, err := pa.positive(key, i)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: %w", err)
				}
				*dims[i] = f
			}
		}
		if !(size.X > 0 && size.Y > 0 && size.Z > 0) {
			return zygo.SexpNull, fmt.Errorf("box: size must be positive, got %g x %g x %g", size.X, size.Y, size.Z)
		}
		return primitive(fmt.Sprintf("box %gx%gx%g", size.X, size.Y, size.Z),
			scene.PrimitiveData{Shape: scene.PrimBox, Size: size}), nil
	})

	// (sphere :radius 5) or (sphere 5)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		r, err := parseArgs(args).positive("radius", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return primitive(fmt.Sprintf("sphere %g", r),
			scene.PrimitiveData{Shape: scene.PrimSphere, Radius: r}), nil
	})

	// (cylinder :height 10 :radius 2) or (cylinder 10 2)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := pa.positive("height", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		r, err := pa.positive("radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return primitive(fmt.Sprintf("cylinder %gx%g", h, r),
			scene.PrimitiveData{Shape: scene.PrimCylinder, Height: h, Radius: r}), nil
	})

	// (translate solid (vec3 x y z)) and (rotate solid (vec3 rx ry rz))
	transform := func(verb string, apply func(td *scene.TransformData, v scene.Vec3)) builtin {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vec3, got %d arguments", verb, len(args))
			}
			child, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", verb, err)
			}
			v, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", verb, err)
			}
			var td scene.TransformData
			apply(&td, v)
			id := s.AddNode(&scene.Node{
				Kind:     scene.NodeTransform,
				Children: []scene.NodeID{child.id},
				Data:     td,
			})
			return &sexpSolid{id: id, desc: verb + " " + child.desc}, nil
		}
	}
	env.AddFunction("translate", transform("translate", func(td *scene.TransformData, v scene.Vec3) {
		td.Translation = v
	}))
	env.AddFunction("rotate", transform("rotate", func(td *scene.TransformData, v scene.Vec3) {
		td.Rotation = v
	}))

	// (union a b ...), (difference a b ...), (intersection a b ...)
	boolean := func(op scene.BooleanOp) builtin {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least 2 solids, got %d", op, len(args))
			}
			children := make([]scene.NodeID, 0, len(args))
			for i, a := range args {
				ref, err := toSolid(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", op, i, err)
				}
				children = append(children, ref.id)
			}
			id := s.AddNode(&scene.Node{
				Kind:     scene.NodeBoolean,
				Children: children,
				Data:     scene.BooleanData{Op: op},
			})
			return &sexpSolid{id: id, desc: fmt.Sprintf("%s of %d", op, len(children))}, nil
		}
	}
	env.AddFunction("union", boolean(scene.OpUnion))
	env.AddFunction("difference", boolean(scene.OpDifference))
	env.AddFunction("intersection", boolean(scene.OpIntersection))

	// (brush "name" solid) or (brush "name" solid :start 10 :count 200).
	// :start and :count are in triangles and select the brush's draw range.
	env.AddFunction("brush", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("brush requires a name and a solid, got %d arguments", len(pa.positional))
		}
		brushName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brush: name: %w", err)
		}
		ref, err := toSolid(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brush %q: %w", brushName, err)
		}
		r, err := brushRange(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("brush %q: %w", brushName, err)
		}
		if err := s.AddRangedBrush(brushName, ref.id, r); err != nil {
			return zygo.SexpNull, fmt.Errorf("brush: %w", err)
		}
		return ref, nil
	})
}

// brushRange converts the :start and :count triangle keywords into a draw
// range over triangle corners. Neither keyword means no range.
func brushRange(pa kwArgs) (*kernel.DrawRange, error) {
	start, hasStart, err := pa.number("start", -1)
	if err != nil {
		return nil, err
	}
	count, hasCount, err := pa.number("count", -1)
	if err != nil {
		return nil, err
	}
	if !hasStart && !hasCount {
		return nil, nil
	}
	if start < 0 || count < 0 || start != math.Trunc(start) || count != math.Trunc(count) {
		return nil, fmt.Errorf("start and count must be non-negative integers, got %g and %g", start, count)
	}
	r := &kernel.DrawRange{Start: 3 * int(start), Count: kernel.Unbounded}
	if hasCount {
		r.Count = 3 * int(count)
	}
	return r, nil
}
