package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/kbickell/layup/pkg/geom"
	"github.com/kbickell/layup/pkg/layout"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms layout script source before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: col-end -> col_end
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpPoint wraps a geom.Point so it can be passed between builtins.
type sexpPoint struct {
	pt geom.Point
}

func (p *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(xy %g %g)", p.pt.X, p.pt.Y)
}
func (p *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpElement wraps a layout.Element so element builtins can be composed
// inside a structure form.
type sexpElement struct {
	elem layout.Element
}

func (e *sexpElement) SexpString(ps *zygo.PrintState) string {
	switch v := e.elem.(type) {
	case layout.Polygon:
		return fmt.Sprintf("(polygon :layer %d %d-gon)", v.Layer, len(v.Vertices))
	case layout.Wire:
		return fmt.Sprintf("(wire :layer %d :width %g)", v.Layer, v.Width)
	case layout.Ref:
		return fmt.Sprintf("(sref %q)", v.Target)
	case layout.ARef:
		return fmt.Sprintf("(aref %q %dx%d)", v.Target, v.Cols, v.Rows)
	}
	return "(element)"
}
func (e *sexpElement) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.pt, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %T (%s)", s, s.SexpString(nil))
}

// toRing converts a list of points to a geom.Ring.
func toRing(s zygo.Sexp) (geom.Ring, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	ring := make(geom.Ring, 0, len(items))
	for _, item := range items {
		p, err := toPoint(item)
		if err != nil {
			return nil, err
		}
		ring = append(ring, p)
	}
	return ring, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toTransform parses the shared :reflect/:angle/:mag placement keywords.
func toTransform(pa kwArgs) (layout.Transform, error) {
	var t layout.Transform
	if v, ok := pa.kw["reflect"]; ok {
		r, err := toBool(v)
		if err != nil {
			return t, fmt.Errorf("reflect: %w", err)
		}
		t.Reflect = r
	}
	if v, ok := pa.kw["angle"]; ok {
		a, err := toFloat64(v)
		if err != nil {
			return t, fmt.Errorf("angle: %w", err)
		}
		t.AngleDeg = a
	}
	if v, ok := pa.kw["mag"]; ok {
		m, err := toFloat64(v)
		if err != nil {
			return t, fmt.Errorf("mag: %w", err)
		}
		t.Magnification = m
	}
	return t, nil
}

// layerArgs parses the shared :layer/:datatype keywords.
func layerArgs(pa kwArgs) (int, int, error) {
	var lay, dt int
	if v, ok := pa.kw["layer"]; ok {
		n, err := toInt(v)
		if err != nil {
			return 0, 0, fmt.Errorf("layer: %w", err)
		}
		lay = n
	}
	if v, ok := pa.kw["datatype"]; ok {
		n, err := toInt(v)
		if err != nil {
			return 0, 0, fmt.Errorf("datatype: %w", err)
		}
		dt = n
	}
	return lay, dt, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builder accumulates the library as the script runs.
type builder struct {
	lib layout.Library
	top string
}

// registerBuiltins installs the layout DSL builtins into a zygomys
// environment. The builtins populate the provided builder during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation
// so that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {

	// -----------------------------------------------------------------------
	// (xy 10 20)
	// -----------------------------------------------------------------------
	env.AddFunction("xy", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("xy requires exactly 2 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("xy: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("xy: y: %w", err)
		}
		return &sexpPoint{pt: geom.Point{X: x, Y: y}}, nil
	})

	// -----------------------------------------------------------------------
	// (polygon :layer 10 :datatype 0
	//          :vertices (list (xy 0 0) (xy 10 0) (xy 10 5) (xy 0 5)))
	// -----------------------------------------------------------------------
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		lay, dt, err := layerArgs(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: %w", err)
		}
		v, ok := pa.kw["vertices"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("polygon requires :vertices")
		}
		ring, err := toRing(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("polygon: vertices: %w", err)
		}
		return &sexpElement{elem: layout.Polygon{Layer: lay, Datatype: dt, Vertices: ring}}, nil
	})

	// -----------------------------------------------------------------------
	// (wire :layer 11 :width 2 :vertices (list (xy 0 0) (xy 10 0)))
	// -----------------------------------------------------------------------
	env.AddFunction("wire", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		lay, dt, err := layerArgs(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wire: %w", err)
		}
		w := layout.Wire{Layer: lay, Datatype: dt}
		if v, ok := pa.kw["width"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wire: width: %w", err)
			}
			w.Width = f
		}
		v, ok := pa.kw["vertices"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("wire requires :vertices")
		}
		ring, err := toRing(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wire: vertices: %w", err)
		}
		w.Vertices = ring
		return &sexpElement{elem: w}, nil
	})

	// -----------------------------------------------------------------------
	// (sref :target "CELL" :at (xy 100 50) :reflect true :angle 90 :mag 2)
	// -----------------------------------------------------------------------
	env.AddFunction("sref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		t, err := toTransform(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sref: %w", err)
		}
		r := layout.Ref{Transform: t}
		v, ok := pa.kw["target"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("sref requires :target")
		}
		if r.Target, err = toString(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("sref: target: %w", err)
		}
		if v, ok := pa.kw["at"]; ok {
			if r.At, err = toPoint(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("sref: at: %w", err)
			}
		}
		return &sexpElement{elem: r}, nil
	})

	// -----------------------------------------------------------------------
	// (aref :target "CELL" :origin (xy 0 0) :col-end (xy 20 0)
	//       :row-end (xy 0 20) :cols 2 :rows 2)
	// -----------------------------------------------------------------------
	env.AddFunction("aref", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		t, err := toTransform(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("aref: %w", err)
		}
		a := layout.ARef{Transform: t}
		v, ok := pa.kw["target"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("aref requires :target")
		}
		if a.Target, err = toString(v); err != nil {
			return zygo.SexpNull, fmt.Errorf("aref: target: %w", err)
		}
		points := []struct {
			key string
			dst *geom.Point
		}{
			{"origin", &a.Origin},
			{"col-end", &a.ColEnd},
			{"row-end", &a.RowEnd},
		}
		for _, p := range points {
			if v, ok := pa.kw[p.key]; ok {
				if *p.dst, err = toPoint(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("aref: %s: %w", p.key, err)
				}
			}
		}
		counts := []struct {
			key string
			dst *int
		}{
			{"cols", &a.Cols},
			{"rows", &a.Rows},
		}
		for _, c := range counts {
			if v, ok := pa.kw[c.key]; ok {
				if *c.dst, err = toInt(v); err != nil {
					return zygo.SexpNull, fmt.Errorf("aref: %s: %w", c.key, err)
				}
			}
		}
		return &sexpElement{elem: a}, nil
	})

	// -----------------------------------------------------------------------
	// (structure "CELL" (polygon ...) (wire ...) (sref ...) ...)
	// -----------------------------------------------------------------------
	env.AddFunction("structure", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("structure requires a name argument")
		}
		structName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("structure: name: %w", err)
		}
		if _, exists := b.lib[structName]; exists {
			return zygo.SexpNull, fmt.Errorf("structure %q already defined", structName)
		}

		elems := make([]layout.Element, 0, len(args)-1)
		for i := 1; i < len(args); i++ {
			se, ok := args[i].(*sexpElement)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("structure %q: child %d: expected element, got %T (%s)",
					structName, i, args[i], args[i].SexpString(nil))
			}
			elems = append(elems, se.elem)
		}
		b.lib[structName] = elems

		return &zygo.SexpStr{S: structName}, nil
	})

	// -----------------------------------------------------------------------
	// (top "TOP")
	// -----------------------------------------------------------------------
	env.AddFunction("top", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("top requires exactly one name argument")
		}
		n, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("top: name: %w", err)
		}
		b.top = n
		return &zygo.SexpStr{S: n}, nil
	})
}
