package mir

// Builder is the stateful per-function construction protocol from spec
// 4.5: a block graph under construction, an unused-locals vector,
// monotone local/block counters, an optional current block, a buffer
// of instructions not yet committed, and a name -> LocalId binding map.
type Builder struct {
	locals   []*MirLocal
	blocks   []*BasicBlock
	bindings map[string]LocalId

	current BlockId
	hasCur  bool
	buffer  []Instruction
}

// NewBuilder starts a fresh per-function builder.
func NewBuilder() *Builder {
	return &Builder{bindings: make(map[string]LocalId)}
}

// NewLocal allocates a fresh LocalId, appends a MirLocal, and — if
// named — records it in the binding map (spec 4.5 "new_local").
func (b *Builder) NewLocal(name string, ty *MirType) LocalId {
	id := LocalId(len(b.locals))
	b.locals = append(b.locals, &MirLocal{ID: id, Name: name, Type: ty})
	if name != "" {
		b.bindings[name] = id
	}
	return id
}

// Lookup returns the LocalId bound to name, if any.
func (b *Builder) Lookup(name string) (LocalId, bool) {
	id, ok := b.bindings[name]
	return id, ok
}

// Bind rebinds name to an existing LocalId (used after a reassignment
// produces a fresh SSA value for the same source name).
func (b *Builder) Bind(name string, id LocalId) {
	if name != "" {
		b.bindings[name] = id
	}
}

// NewBlock allocates a fresh graph node with an empty instruction list
// and a sentinel Unreachable terminator (spec 4.5 "new_block").
func (b *Builder) NewBlock() BlockId {
	id := BlockId(len(b.blocks))
	b.blocks = append(b.blocks, &BasicBlock{ID: id, Terminator: &UnreachableTerm{}})
	return id
}

// SetCurrentBlock makes id the block subsequent Emit/FinishBlock calls
// target.
func (b *Builder) SetCurrentBlock(id BlockId) {
	b.current = id
	b.hasCur = true
}

// Current returns the block currently under construction.
func (b *Builder) Current() BlockId { return b.current }

// Emit buffers an instruction; it is not committed to the block until
// FinishBlock flushes the buffer (spec 4.5 "emit").
func (b *Builder) Emit(dest LocalId, kind InstructionKind) {
	b.buffer = append(b.buffer, Instruction{Dest: dest, Kind: kind})
}

// FinishBlock flushes the buffer and terminator into the current block
// (spec 4.5 "finish_block").
func (b *Builder) FinishBlock(term Terminator) {
	blk := b.blocks[b.current]
	blk.Instructions = append(blk.Instructions, b.buffer...)
	blk.Terminator = term
	b.buffer = nil

	switch t := term.(type) {
	case *GotoTerm:
		b.addEdge(b.current, t.Target, BranchUnconditional)
	case *IfTerm:
		b.addEdge(b.current, t.Then, BranchTrue)
		b.addEdge(b.current, t.Else, BranchFalse)
	case *SwitchTerm:
		for _, c := range t.Cases {
			b.addEdge(b.current, c.Target, BranchSwitchCase)
		}
		b.addEdge(b.current, t.Default, BranchSwitchDefault)
	case *InvokeTerm:
		b.addEdge(b.current, t.NormalBlock, BranchUnconditional)
		b.addEdge(b.current, t.UnwindBlock, BranchUnconditional)
	}
}

// addEdge records a directed edge from -> to, updating both endpoints'
// adjacency slices — the same Preds/Succs-pair-of-slices idiom as
// golang.org/x/tools/go/ssa's BasicBlock.
func (b *Builder) addEdge(from, to BlockId, kind BranchKind) {
	b.blocks[from].Succs = append(b.blocks[from].Succs, Edge{To: to, Kind: kind})
	b.blocks[to].Preds = append(b.blocks[to].Preds, from)
}

// Finish assembles the MirFunction once every block has a terminator.
func (b *Builder) Finish(name string, params []LocalId, returnType *MirType, entry BlockId) *MirFunction {
	return &MirFunction{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Locals:     b.locals,
		Blocks:     b.blocks,
		Entry:      entry,
	}
}
