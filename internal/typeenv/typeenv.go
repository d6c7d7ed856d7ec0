// Package typeenv holds the four disjoint definition tables (structs,
// effects, AI models, prompts) the checker's Pass 1 populates, plus the
// bootstrap standard-library signatures preloaded before any user item
// is processed. Grounded on AILANG's internal/types/env.go
// NewTypeEnvWithBuiltins pattern of preloading a handful of builtin
// function schemes before user code is ever visited.
package typeenv

import (
	"github.com/axonlang/langcore/internal/ast"
	"github.com/axonlang/langcore/internal/types"
)

// StructDef is the checked signature of a struct declaration.
type StructDef struct {
	Name   string
	Fields []types.RecordField
}

// EffectDef is the checked signature of an effect declaration.
type EffectDef struct {
	Name string
	Ops  map[string]*types.Ty // op name -> Function type
}

// AiModelDef is the checked signature of an ai_model declaration.
type AiModelDef struct {
	Name     string
	Provider string
	Model    string
}

// PromptDef is the checked signature of a prompt declaration.
type PromptDef struct {
	Name     string
	Template string
}

// Env holds the four disjoint maps (spec 3 "Type environment").
type Env struct {
	Structs  map[string]*StructDef
	Effects  map[string]*EffectDef
	AiModels map[string]*AiModelDef
	Prompts  map[string]*PromptDef

	// Functions holds the full function type of every function
	// declaration, keyed by name — not one of the spec's four maps,
	// but needed by the checker's call-typing rule and kept alongside
	// them for locality.
	Functions map[string]*types.Ty
}

// New creates an empty Env.
func New() *Env {
	return &Env{
		Structs:   make(map[string]*StructDef),
		Effects:   make(map[string]*EffectDef),
		AiModels:  make(map[string]*AiModelDef),
		Prompts:   make(map[string]*PromptDef),
		Functions: make(map[string]*types.Ty),
	}
}

// DefineStruct inserts a struct signature, rejecting a duplicate name.
func (e *Env) DefineStruct(d *StructDef) bool {
	if _, exists := e.Structs[d.Name]; exists {
		return false
	}
	e.Structs[d.Name] = d
	return true
}

// DefineEffect inserts an effect signature, rejecting a duplicate name.
func (e *Env) DefineEffect(d *EffectDef) bool {
	if _, exists := e.Effects[d.Name]; exists {
		return false
	}
	e.Effects[d.Name] = d
	return true
}

// DefineAiModel inserts an ai_model signature, rejecting a duplicate name.
func (e *Env) DefineAiModel(d *AiModelDef) bool {
	if _, exists := e.AiModels[d.Name]; exists {
		return false
	}
	e.AiModels[d.Name] = d
	return true
}

// DefinePrompt inserts a prompt signature, rejecting a duplicate name.
func (e *Env) DefinePrompt(d *PromptDef) bool {
	if _, exists := e.Prompts[d.Name]; exists {
		return false
	}
	e.Prompts[d.Name] = d
	return true
}

// DefineFunction inserts a function's full type, rejecting a duplicate
// name.
func (e *Env) DefineFunction(name string, ty *types.Ty) bool {
	if _, exists := e.Functions[name]; exists {
		return false
	}
	e.Functions[name] = ty
	return true
}

// Preload installs the fixed bootstrap standard library (spec 4.3,
// SPEC_FULL 4.3): a handful of built-in function signatures available
// to every program without an explicit import.
func (e *Env) Preload() {
	e.Functions["print"] = types.Function([]*types.Ty{types.String}, types.Unit)
	e.Functions["len"] = types.Function([]*types.Ty{types.Array(types.Unknown)}, types.Int)
	e.Functions["concat"] = types.Function([]*types.Ty{types.String, types.String}, types.String)
	e.Functions["toString"] = types.Function([]*types.Ty{types.Unknown}, types.String)
}

// ResolveASTType converts an AST-level Type into a checker Ty, looking
// up named types against the struct/effect tables. Unresolvable names
// return types.Error; the caller is responsible for raising the
// corresponding CheckError.
func (e *Env) ResolveASTType(t ast.Type) *types.Ty {
	if t == nil {
		return types.Unit
	}
	switch n := t.(type) {
	case *ast.PrimitiveType:
		switch n.Kind {
		case ast.PrimInt:
			return types.Int
		case ast.PrimFloat:
			return types.Float
		case ast.PrimString:
			return types.String
		case ast.PrimBool:
			return types.Bool
		}
	case *ast.NamedType:
		if _, ok := e.Structs[n.Name]; ok {
			return types.Named(n.Name)
		}
		if _, ok := e.Effects[n.Name]; ok {
			return types.Named(n.Name)
		}
		if _, ok := e.AiModels[n.Name]; ok {
			return types.Named(n.Name)
		}
		return types.Error
	case *ast.FuncType:
		return types.Function([]*types.Ty{e.ResolveASTType(n.Param)}, e.ResolveASTType(n.Result))
	case *ast.ArrayType:
		return types.Array(e.ResolveASTType(n.Element))
	case *ast.RefType:
		return types.Ref(n.Mutable, e.ResolveASTType(n.Inner))
	case *ast.TupleType:
		elems := make([]*types.Ty, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = e.ResolveASTType(el)
		}
		return types.Tuple(elems)
	case *ast.RecordType:
		fields := make([]types.RecordField, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = types.RecordField{Name: f.Name, Type: e.ResolveASTType(f.Type)}
		}
		return types.Record(fields)
	case *ast.AIType:
		return types.AI(e.ResolveASTType(n.Inner))
	case *ast.EffectType:
		return types.Effect(e.ResolveASTType(n.Inner))
	case *ast.ConstrainedType:
		return e.ResolveASTType(n.Base)
	}
	return types.Error
}
