// Package signature models declared function signatures: argument kinds
// and cardinality, per-argument constraint options, argument types with
// nested lambdas, relation schemas for table arguments, and whole
// signatures with their validity rules and concrete-call expansion.
package signature

// ArgumentKind classifies one declared argument or result position.
// KindFixed carries a concrete type; the templated kinds are placeholders
// bound to concrete types during overload matching.
type ArgumentKind int

const (
	KindFixed ArgumentKind = iota
	KindAny1
	KindAny2
	KindArrayAny1
	KindArrayAny2
	KindProtoMap
	KindProtoMapKey
	KindProtoMapValue
	KindProtoAny
	KindStructAny
	KindEnumAny
	KindArbitrary
	KindRelation
	KindModel
	KindConnection
	KindDescriptor
	KindLambda
	KindVoid
)

// String returns the display form used in debug strings and error
// messages.
func (k ArgumentKind) String() string {
	switch k {
	case KindFixed:
		return "FIXED"
	case KindAny1:
		return "<T1>"
	case KindAny2:
		return "<T2>"
	case KindArrayAny1:
		return "<array<T1>>"
	case KindArrayAny2:
		return "<array<T2>>"
	case KindProtoMap:
		return "<map<K, V>>"
	case KindProtoMapKey:
		return "<K>"
	case KindProtoMapValue:
		return "<V>"
	case KindProtoAny:
		return "<proto>"
	case KindStructAny:
		return "<struct>"
	case KindEnumAny:
		return "<enum>"
	case KindArbitrary:
		return "<arbitrary>"
	case KindRelation:
		return "ANY TABLE"
	case KindModel:
		return "ANY MODEL"
	case KindConnection:
		return "ANY CONNECTION"
	case KindDescriptor:
		return "ANY DESCRIPTOR"
	case KindLambda:
		return "ANY LAMBDA"
	case KindVoid:
		return "<void>"
	}
	return "UNKNOWN_ARG_KIND"
}

var kindWireNames = map[ArgumentKind]string{
	KindFixed:         "FIXED",
	KindAny1:          "ANY_1",
	KindAny2:          "ANY_2",
	KindArrayAny1:     "ARRAY_ANY_1",
	KindArrayAny2:     "ARRAY_ANY_2",
	KindProtoMap:      "PROTO_MAP",
	KindProtoMapKey:   "PROTO_MAP_KEY",
	KindProtoMapValue: "PROTO_MAP_VALUE",
	KindProtoAny:      "PROTO",
	KindStructAny:     "STRUCT",
	KindEnumAny:       "ENUM",
	KindArbitrary:     "ARBITRARY",
	KindRelation:      "RELATION",
	KindModel:         "MODEL",
	KindConnection:    "CONNECTION",
	KindDescriptor:    "DESCRIPTOR",
	KindLambda:        "LAMBDA",
	KindVoid:          "VOID",
}

// Name returns the stable identifier used on the wire and in catalog
// files. It never changes once published.
func (k ArgumentKind) Name() string {
	if name, ok := kindWireNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// ArgumentKindFromName inverts Name.
func ArgumentKindFromName(name string) (ArgumentKind, bool) {
	for k, n := range kindWireNames {
		if n == name {
			return k, true
		}
	}
	return KindFixed, false
}

// CanHaveDefault reports whether arguments of this kind may carry a
// default value. Only kinds that denote ordinary expression values can;
// relations, models, connections, descriptors, lambdas and void cannot.
// This is the single source of truth consulted at construction and at
// deserialization.
func CanHaveDefault(k ArgumentKind) bool {
	switch k {
	case KindFixed, KindAny1, KindAny2, KindArrayAny1, KindArrayAny2,
		KindProtoMap, KindProtoMapKey, KindProtoMapValue,
		KindProtoAny, KindStructAny, KindEnumAny, KindArbitrary:
		return true
	case KindRelation, KindModel, KindConnection, KindDescriptor,
		KindLambda, KindVoid:
		return false
	}
	return false
}

// Cardinality states how many times an argument position may occur in a
// concrete call.
type Cardinality int

const (
	Required Cardinality = iota
	Optional
	Repeated
)

func (c Cardinality) String() string {
	switch c {
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	}
	return "REQUIRED"
}

// CardinalityFromName inverts String.
func CardinalityFromName(name string) (Cardinality, bool) {
	switch name {
	case "REQUIRED", "":
		return Required, true
	case "OPTIONAL":
		return Optional, true
	case "REPEATED":
		return Repeated, true
	}
	return Required, false
}

// ProcedureMode is the IN/OUT/INOUT mode of a procedure argument.
type ProcedureMode int

const (
	ModeNotSet ProcedureMode = iota
	ModeIn
	ModeOut
	ModeInOut
)

func (m ProcedureMode) String() string {
	switch m {
	case ModeIn:
		return "IN"
	case ModeOut:
		return "OUT"
	case ModeInOut:
		return "INOUT"
	}
	return "NOT_SET"
}

// ProcedureModeFromName inverts String.
func ProcedureModeFromName(name string) (ProcedureMode, bool) {
	switch name {
	case "NOT_SET", "":
		return ModeNotSet, true
	case "IN":
		return ModeIn, true
	case "OUT":
		return ModeOut, true
	case "INOUT":
		return ModeInOut, true
	}
	return ModeNotSet, false
}
