package wasm

// Module is the subset of a WebAssembly module needed to assemble guests
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Memories []MemoryType
	Globals  []Global
	Exports  []Export
	Code     []FuncBody
	Data     []DataSegment
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// ValType represents a WebAssembly value type.
type ValType byte

// Import is a function imported from a host module
type Import struct {
	Module  string
	Name    string
	TypeIdx uint32
}

// Export names a module-level definition
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// Limits bounds a memory in 64 KiB pages
type Limits struct {
	Max *uint32
	Min uint32
}

type MemoryType struct {
	Limits Limits
}

type GlobalType struct {
	ValType ValType
	Mutable bool
}

// Global is a global variable with its constant init expression
type Global struct {
	Init []byte // must end in OpEnd
	Type GlobalType
}

// LocalEntry declares Count locals of one type
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

type FuncBody struct {
	Locals []LocalEntry
	Code   []byte // must end in OpEnd
}

// DataSegment is an active segment for memory 0
type DataSegment struct {
	Offset []byte // constant expression ending in OpEnd
	Init   []byte
}

// FuncIndex returns the function index of the i-th defined function.
// Imported functions occupy the lower indices.
func (m *Module) FuncIndex(i int) uint32 {
	return uint32(len(m.Imports) + i)
}
