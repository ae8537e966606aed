package config

const SourceFileExt = ".zx"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".zx", ".zyxt"}

// Version is reported by `zyxt version`.
const Version = "0.1.0"

// Reserved member names used for operator dispatch. Binary operators call
// the member on the left operand with the right operand as argument.
const (
	OpAdd      = "_add"
	OpSub      = "_sub"
	OpMul      = "_mul"
	OpDiv      = "_div"
	OpRem      = "_rem"
	OpEq       = "_eq"
	OpNeq      = "_neq"
	OpLt       = "_lt"
	OpLe       = "_le"
	OpGt       = "_gt"
	OpGe       = "_ge"
	OpConcat   = "_concat"
	OpTypecast = "_typecast"
	OpNot      = "_not"
	OpUnPlus   = "_un_plus"
	OpUnMinus  = "_un_minus"
)

// Reserved members every class gets.
const (
	DefaultMember = "_default"
	InitMember    = "_init"
)

// Built-in function names
const (
	PrintFuncName   = "print"
	PrintlnFuncName = "println"
)

// SelfParamName is the receiver parameter of class procedures.
const SelfParamName = "self"

// Config file names, in lookup order.
var ConfigFileNames = []string{"zyxt.yaml", "zyxt.yml", "zyxt.toml"}

// DefaultHistoryFile is relative to the user's home directory.
const DefaultHistoryFile = ".zyxt_history"
