// Package mir defines the SSA-form control-flow graph that is the
// pipeline's final representation (spec 3/4.5), plus the stateful
// per-function MirBuilder. The type and instruction shapes are
// grounded almost 1:1 on original_source/crates/my-mir/src/lib.rs; the
// block graph's arena+adjacency-list representation (parallel
// Preds/Succs slices, no block holding a pointer to another) is
// grounded on golang.org/x/tools/go/ssa's BasicBlock, read from
// other_examples/b41d490d_golang-tools__ssa-func.go.go.
package mir

import "fmt"

// LocalId is a monotone counter within one MirFunction (spec 3).
type LocalId int

// BlockId indexes into a MirFunction's Blocks slice.
type BlockId int

// MirTypeKind is the closed set of MIR-level value types (spec 3).
type MirTypeKind int

const (
	TI32 MirTypeKind = iota
	TI64
	TF32
	TF64
	TBool
	TPtr
	TArray
	TStruct
	TFunction
	TUnit
	TNever
)

// MirType is MIR's flat type representation.
type MirType struct {
	Kind       MirTypeKind
	Elem       *MirType      // TPtr, TArray
	ArrayLen   int           // TArray
	StructName string        // TStruct
	Fields     []StructField // TStruct
	Params     []*MirType    // TFunction
	Result     *MirType      // TFunction
}

type StructField struct {
	Name string
	Type *MirType
}

var (
	I32   = &MirType{Kind: TI32}
	I64   = &MirType{Kind: TI64}
	F32   = &MirType{Kind: TF32}
	F64   = &MirType{Kind: TF64}
	Bool  = &MirType{Kind: TBool}
	Unit  = &MirType{Kind: TUnit}
	Never = &MirType{Kind: TNever}
)

func Ptr(elem *MirType) *MirType          { return &MirType{Kind: TPtr, Elem: elem} }
func Array(elem *MirType, n int) *MirType { return &MirType{Kind: TArray, Elem: elem, ArrayLen: n} }
func Struct(name string, fields []StructField) *MirType {
	return &MirType{Kind: TStruct, StructName: name, Fields: fields}
}
func Function(params []*MirType, result *MirType) *MirType {
	return &MirType{Kind: TFunction, Params: params, Result: result}
}

func (t *MirType) String() string {
	switch t.Kind {
	case TI32:
		return "i32"
	case TI64:
		return "i64"
	case TF32:
		return "f32"
	case TF64:
		return "f64"
	case TBool:
		return "bool"
	case TPtr:
		return fmt.Sprintf("ptr<%s>", t.Elem)
	case TArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.ArrayLen)
	case TStruct:
		return t.StructName
	case TFunction:
		return "fn"
	case TUnit:
		return "unit"
	case TNever:
		return "never"
	default:
		return "?"
	}
}

// MirLocal is one SSA-assigned local (spec 3).
type MirLocal struct {
	ID   LocalId
	Name string // empty for unnamed temporaries
	Type *MirType
}

// InstructionKind is the closed set of MIR instruction kinds (spec 3).
type InstructionKind interface{ instrKind() }

type ConstKind struct {
	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string
	IsFloat   bool
	IsString  bool
	IsBool    bool
}

func (*ConstKind) instrKind() {}

type BinOpKind struct {
	Op          string
	Left, Right LocalId
}

func (*BinOpKind) instrKind() {}

type UnOpKind struct {
	Op      string
	Operand LocalId
}

func (*UnOpKind) instrKind() {}

// CallKind is a direct call: the callee is a known function name.
type CallKind struct {
	Func string
	Args []LocalId
}

func (*CallKind) instrKind() {}

// CallIndirectKind calls through a local holding a function value.
type CallIndirectKind struct {
	Callee LocalId
	Args   []LocalId
}

func (*CallIndirectKind) instrKind() {}

type LoadKind struct{ Ptr LocalId }

func (*LoadKind) instrKind() {}

type StoreKind struct {
	Ptr LocalId
	Val LocalId
}

func (*StoreKind) instrKind() {}

type GetElementPtrKind struct {
	Base  LocalId
	Index int
}

func (*GetElementPtrKind) instrKind() {}

type AllocaKind struct{ Type *MirType }

func (*AllocaKind) instrKind() {}

type CastKind struct {
	Value LocalId
	To    *MirType
}

func (*CastKind) instrKind() {}

// PhiIncoming is one (predecessor block, value) pair feeding a Phi.
type PhiIncoming struct {
	Block BlockId
	Value LocalId
}

type PhiKind struct{ Incoming []PhiIncoming }

func (*PhiKind) instrKind() {}

// AIStubOp is AIStub's deferred-operation tag (spec 3).
type AIStubOp int

const (
	AIQuery AIStubOp = iota
	AIVerify
	AIEmbed
	AIGenerate
	AIClassify
)

// AIStubKind is the deferred AI-runtime call marker: MIR never executes
// it, it only records a finite op variant and argument locals (spec 9
// "AI operations").
type AIStubKind struct {
	Op    AIStubOp
	Model string
	Args  []LocalId
}

func (*AIStubKind) instrKind() {}

type DropKind struct{ Value LocalId }

func (*DropKind) instrKind() {}

type CopyKind struct{ Value LocalId }

func (*CopyKind) instrKind() {}

type MoveKind struct{ Value LocalId }

func (*MoveKind) instrKind() {}

// Instruction is one SSA-assigned operation within a block.
type Instruction struct {
	Dest LocalId
	Kind InstructionKind
}

// BranchKind labels a graph edge for traversal convenience, redundant
// with the terminator it mirrors (spec 3).
type BranchKind int

const (
	BranchUnconditional BranchKind = iota
	BranchTrue
	BranchFalse
	BranchSwitchCase
	BranchSwitchDefault
)

// Terminator is the closed set of block terminators (spec 3). Exactly
// one terminates every block; there is no fall-through.
type Terminator interface{ termNode() }

type ReturnTerm struct {
	Value    LocalId
	HasValue bool
}

func (*ReturnTerm) termNode() {}

type GotoTerm struct{ Target BlockId }

func (*GotoTerm) termNode() {}

type IfTerm struct {
	Cond       LocalId
	Then, Else BlockId
}

func (*IfTerm) termNode() {}

type SwitchCase struct {
	Value  int64
	Target BlockId
}

type SwitchTerm struct {
	Scrutinee LocalId
	Cases     []SwitchCase
	Default   BlockId
}

func (*SwitchTerm) termNode() {}

type UnreachableTerm struct{}

func (*UnreachableTerm) termNode() {}

type InvokeTerm struct {
	Func                     string
	Args                     []LocalId
	Dest                     LocalId
	NormalBlock, UnwindBlock BlockId
}

func (*InvokeTerm) termNode() {}

// Edge is one adjacency entry in the block graph.
type Edge struct {
	To   BlockId
	Kind BranchKind
}

// BasicBlock is one SSA block: an arena element referencing neighbours
// only by BlockId, never by pointer (spec 9).
type BasicBlock struct {
	ID           BlockId
	Instructions []Instruction
	Terminator   Terminator
	Preds        []BlockId
	Succs        []Edge
}

// MirFunction is one lowered function: its locals vector, its block
// graph, and the entry block (spec 3).
type MirFunction struct {
	Name       string
	Params     []LocalId
	ReturnType *MirType
	Locals     []*MirLocal
	Blocks     []*BasicBlock
	Entry      BlockId
}

// Program is a MIR program: every function by name, plus an optional
// entry point (the function named "main", if present) (spec 3).
type Program struct {
	Functions map[string]*MirFunction
	Entry     string
	HasEntry  bool
}
