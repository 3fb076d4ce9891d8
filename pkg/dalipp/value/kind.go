package value

// Kind classifies a Type.
type Kind int

const (
	// KindStruct is a class, struct or union.
	KindStruct Kind = iota
	KindPointer
	KindReference
	KindTypedef
	KindArray
	KindEnum
	KindInt
	KindFloat
	KindBool
	KindString
	KindFunc
	KindMethod
	KindMethodPtr
	KindVoid
)

var kindNames = map[Kind]string{
	KindStruct:    "struct",
	KindPointer:   "pointer",
	KindReference: "reference",
	KindTypedef:   "typedef",
	KindArray:     "array",
	KindEnum:      "enum",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindString:    "string",
	KindFunc:      "func",
	KindMethod:    "method",
	KindMethodPtr: "methodptr",
	KindVoid:      "void",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind returns the Kind with the given name.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// HasTag reports whether types of this kind carry a tag name that printers
// can be registered against.
func (k Kind) HasTag() bool {
	return k == KindStruct || k == KindEnum
}

// IsCallable reports whether the kind is a function, method or method pointer.
func (k Kind) IsCallable() bool {
	return k == KindFunc || k == KindMethod || k == KindMethodPtr
}
