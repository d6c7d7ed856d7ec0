package mir

import "github.com/axonlang/langcore/internal/types"

// fromTy maps the checker's internal Ty lattice onto MIR's flat value
// types. String, being a dynamically-sized payload, lowers to an i32
// pointer (ptr<i32>) — MIR's instruction set has no dedicated string type, mirroring
// how the original's MIR only tracks machine-level shapes.
func fromTy(t *types.Ty) *MirType {
	if t == nil {
		return Unit
	}
	switch t.Kind {
	case types.KInt:
		return I64
	case types.KFloat:
		return F64
	case types.KBool:
		return Bool
	case types.KString:
		return Ptr(I32)
	case types.KUnit:
		return Unit
	case types.KNamed:
		return Struct(t.Name, nil)
	case types.KFunction:
		params := make([]*MirType, len(t.Params))
		for i, p := range t.Params {
			params[i] = fromTy(p)
		}
		return Function(params, fromTy(t.Result))
	case types.KArray:
		return Ptr(fromTy(t.Elem))
	case types.KRef:
		return Ptr(fromTy(t.Elem))
	case types.KTuple:
		fields := make([]StructField, len(t.Elems))
		for i, e := range t.Elems {
			fields[i] = StructField{Type: fromTy(e)}
		}
		return Struct("", fields)
	case types.KRecord:
		fields := make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = StructField{Name: f.Name, Type: fromTy(f.Type)}
		}
		return Struct("", fields)
	case types.KAI:
		// the AI wrapper is erased at this level: MIR only sees the
		// payload type an AIStub eventually resolves to.
		return fromTy(t.Elem)
	case types.KEffect:
		return fromTy(t.Elem)
	default:
		return Unit
	}
}
