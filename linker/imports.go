package linker

import (
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-ledger/errors"
)

// CheckImports rejects a compiled guest that imports anything outside the
// host function table, or imports a known name with the wrong signature.
func CheckImports(compiled wazero.CompiledModule) error {
	for _, def := range compiled.ImportedFunctions() {
		module, name, _ := def.Import()
		imp, ok := lookup(module, name)
		if !ok {
			return errors.MissingImport(module, name)
		}
		if !slices.Equal(def.ParamTypes(), imp.Params) || !slices.Equal(def.ResultTypes(), imp.Results) {
			return errors.New(errors.PhaseLinking, errors.KindMissingImport).
				Detail("%s.%s: signature %s does not match host %s",
					module, name, signature(def.ParamTypes(), def.ResultTypes()), signature(imp.Params, imp.Results)).
				Value(module + "." + name).
				Build()
		}
	}
	if mems := compiled.ImportedMemories(); len(mems) > 0 {
		module, name, _ := mems[0].Import()
		return errors.MissingImport(module, name)
	}
	return nil
}

// CheckExports rejects a compiled guest missing a required entry point.
func CheckExports(compiled wazero.CompiledModule) error {
	exported := compiled.ExportedFunctions()
	for _, name := range RequiredExports() {
		if _, ok := exported[name]; !ok {
			return errors.MissingExport(name)
		}
	}
	return nil
}

func lookup(module, name string) (Import, bool) {
	for _, imp := range imports {
		if imp.Module == module && imp.Name == name {
			return imp, true
		}
	}
	return Import{}, false
}

func signature(params, results []api.ValueType) string {
	s := "("
	for i, p := range params {
		if i > 0 {
			s += ","
		}
		s += api.ValueTypeName(p)
	}
	s += ")->("
	for i, r := range results {
		if i > 0 {
			s += ","
		}
		s += api.ValueTypeName(r)
	}
	return s + ")"
}
