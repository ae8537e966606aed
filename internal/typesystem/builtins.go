package typesystem

import (
	"fmt"
	"strings"

	"github.com/zyxt-lang/zyxt/internal/config"
)

func anyArgs(result Type) func(args []Type) (Type, bool) {
	return func([]Type) (Type, bool) { return result, true }
}

func joinArgs(args []Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	return strings.Join(parts, " ")
}

// Builtins are the native procedures seeded into every constants frame.
var Builtins = map[string]*Native{
	config.PrintlnFuncName: NewNative(config.PrintlnFuncName, anyArgs(UnitDef.Instance()), func(call NativeCall) (Value, error) {
		_, err := fmt.Fprintln(call.Out, joinArgs(call.Args))
		return UNIT, err
	}),
	config.PrintFuncName: NewNative(config.PrintFuncName, anyArgs(UnitDef.Instance()), func(call NativeCall) (Value, error) {
		_, err := fmt.Fprint(call.Out, joinArgs(call.Args))
		return UNIT, err
	}),
}

// BuiltinNames lists the builtins in a stable order.
var BuiltinNames = []string{config.PrintFuncName, config.PrintlnFuncName}
