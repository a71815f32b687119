package wire

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/funvibe/funsql/internal/descpool"
	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
)

// internalf reports a malformed payload: a producer or codec bug, not a
// catalog-author mistake.
func internalf(format string, args ...any) error {
	return signature.NewInternalError(fmt.Sprintf(format, args...))
}

// invalidf reports a declaration a catalog author could write but the
// analyzer cannot accept.
func invalidf(format string, args ...any) error {
	return signature.NewValidationError(fmt.Sprintf(format, args...))
}

// EncodeType serializes a concrete type.
func EncodeType(t types.Type) (*TypeData, error) {
	switch tt := t.(type) {
	case *types.SimpleType:
		return &TypeData{Kind: tt.Kind().String()}, nil
	case *types.ArrayType:
		elem, err := EncodeType(tt.Element())
		if err != nil {
			return nil, err
		}
		return &TypeData{Kind: types.ArrayKind.String(), ElementType: elem}, nil
	case *types.StructType:
		data := &TypeData{Kind: types.StructKind.String()}
		for _, f := range tt.Fields() {
			ft, err := EncodeType(f.Type)
			if err != nil {
				return nil, err
			}
			data.Fields = append(data.Fields, FieldData{Name: f.Name, Type: ft})
		}
		return data, nil
	case *types.ProtoType:
		return &TypeData{
			Kind:      types.ProtoKind.String(),
			ProtoName: tt.Descriptor().GetFullyQualifiedName(),
		}, nil
	case *types.EnumType:
		return &TypeData{
			Kind:     types.EnumKind.String(),
			EnumName: tt.Descriptor().GetFullyQualifiedName(),
		}, nil
	case nil:
		return nil, internalf("cannot serialize a nil type")
	}
	return nil, internalf("cannot serialize type %s", t.DebugString())
}

// DecodeType deserializes a type descriptor. Proto and enum names are
// resolved against the pool.
func DecodeType(data *TypeData, pool *descpool.Pool) (types.Type, error) {
	if data == nil {
		return nil, internalf("type descriptor is missing")
	}
	kind, ok := types.KindFromName(data.Kind)
	if !ok {
		return nil, internalf("unknown type kind %q", data.Kind)
	}
	switch kind {
	case types.ArrayKind:
		if data.ElementType == nil {
			return nil, internalf("ARRAY type is missing element_type")
		}
		elem, err := DecodeType(data.ElementType, pool)
		if err != nil {
			return nil, err
		}
		arr, err := types.NewArrayType(elem)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		return arr, nil
	case types.StructKind:
		fields := make([]types.StructField, 0, len(data.Fields))
		for _, f := range data.Fields {
			ft, err := DecodeType(f.Type, pool)
			if err != nil {
				return nil, err
			}
			fields = append(fields, types.StructField{Name: f.Name, Type: ft})
		}
		return types.NewStructType(fields), nil
	case types.ProtoKind:
		if data.ProtoName == "" {
			return nil, internalf("PROTO type is missing proto_name")
		}
		if pool == nil {
			return nil, invalidf("proto type %q requires a descriptor pool", data.ProtoName)
		}
		t, err := pool.MessageType(data.ProtoName)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		return t, nil
	case types.EnumKind:
		if data.EnumName == "" {
			return nil, internalf("ENUM type is missing enum_name")
		}
		if pool == nil {
			return nil, invalidf("enum type %q requires a descriptor pool", data.EnumName)
		}
		t, err := pool.EnumType(data.EnumName)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		return t, nil
	}
	t, ok := types.SimpleTypeForKind(kind)
	if !ok {
		return nil, internalf("unknown type kind %q", data.Kind)
	}
	return t, nil
}

func encodeValue(v types.Value) (*ValueData, error) {
	if !v.IsValid() {
		return nil, internalf("cannot serialize an invalid value")
	}
	if v.IsNull() {
		return &ValueData{Null: true}, nil
	}
	data := &ValueData{}
	switch v.Type().Kind() {
	case types.BoolKind:
		b := v.Bool()
		data.Bool = &b
	case types.Int32Kind, types.Int64Kind:
		n := v.Int64()
		data.Int64 = &n
	case types.Uint32Kind, types.Uint64Kind:
		n := v.Uint64()
		data.Uint64 = &n
	case types.FloatKind, types.DoubleKind:
		f := v.Double()
		data.Double = &f
	case types.StringKind:
		s := v.StringVal()
		data.String = &s
	case types.BytesKind:
		data.Bytes = append([]byte(nil), v.BytesVal()...)
	default:
		return nil, internalf("cannot serialize a value of type %s", v.Type().DebugString())
	}
	return data, nil
}

func decodeValue(data *ValueData, target types.Type) (types.Value, error) {
	var zero types.Value
	if data == nil {
		return zero, internalf("value descriptor is missing")
	}
	payloads := 0
	if data.Bool != nil {
		payloads++
	}
	if data.Int64 != nil {
		payloads++
	}
	if data.Uint64 != nil {
		payloads++
	}
	if data.Double != nil {
		payloads++
	}
	if data.String != nil {
		payloads++
	}
	if data.Bytes != nil {
		payloads++
	}
	if data.Null {
		if payloads != 0 {
			return zero, internalf("null value carries a payload")
		}
		return types.NullValue(target), nil
	}
	if payloads != 1 {
		return zero, internalf("value must carry exactly one payload, has %d", payloads)
	}
	switch target.Kind() {
	case types.BoolKind:
		if data.Bool != nil {
			return types.BoolValue(*data.Bool), nil
		}
	case types.Int32Kind:
		if data.Int64 != nil {
			return types.Int32Value(int32(*data.Int64)), nil
		}
	case types.Int64Kind:
		if data.Int64 != nil {
			return types.Int64Value(*data.Int64), nil
		}
	case types.Uint32Kind:
		if data.Uint64 != nil {
			return types.Uint32Value(uint32(*data.Uint64)), nil
		}
	case types.Uint64Kind:
		if data.Uint64 != nil {
			return types.Uint64Value(*data.Uint64), nil
		}
	case types.FloatKind:
		if data.Double != nil {
			return types.FloatValue(float32(*data.Double)), nil
		}
	case types.DoubleKind:
		if data.Double != nil {
			return types.DoubleValue(*data.Double), nil
		}
	case types.StringKind:
		if data.String != nil {
			return types.StringValue(*data.String), nil
		}
	case types.BytesKind:
		if data.Bytes != nil {
			return types.BytesValue(data.Bytes), nil
		}
	default:
		return zero, internalf("values of type %s are not supported on the wire",
			target.DebugString())
	}
	return zero, internalf("value payload does not match type %s", target.DebugString())
}

func encodeRelation(rel *signature.Relation) (*RelationData, error) {
	data := &RelationData{IsValueTable: rel.IsValueTable()}
	for _, col := range rel.Columns() {
		ct, err := EncodeType(col.Type)
		if err != nil {
			return nil, err
		}
		data.Columns = append(data.Columns, RelationColumnData{
			Name:           col.Name,
			Type:           ct,
			IsPseudoColumn: col.IsPseudoColumn,
		})
	}
	return data, nil
}

func decodeRelation(data *RelationData, pool *descpool.Pool) (*signature.Relation, error) {
	if data.IsValueTable {
		if len(data.Columns) != 1 {
			return nil, internalf("value table schema must have exactly one column, has %d",
				len(data.Columns))
		}
		t, err := DecodeType(data.Columns[0].Type, pool)
		if err != nil {
			return nil, err
		}
		return signature.NewValueTableRelation(t), nil
	}
	columns := make([]signature.RelationColumn, 0, len(data.Columns))
	for _, col := range data.Columns {
		ct, err := DecodeType(col.Type, pool)
		if err != nil {
			return nil, err
		}
		columns = append(columns, signature.RelationColumn{
			Name:           col.Name,
			Type:           ct,
			IsPseudoColumn: col.IsPseudoColumn,
		})
	}
	return signature.NewRelation(columns), nil
}

func encodeOptions(arg signature.ArgumentType) (*ArgumentOptionsData, error) {
	opts := arg.Options()
	data := &ArgumentOptionsData{
		MustBeConstant:              opts.MustBeConstant,
		MustBeNonNull:               opts.MustBeNonNull,
		IsNotAggregate:              opts.IsNotAggregate,
		MustSupportEquality:         opts.MustSupportEquality,
		MustSupportOrdering:         opts.MustSupportOrdering,
		ExtraRelationColumnsAllowed: opts.ExtraRelationColumnsAllowed,
		ArgumentName:                opts.ArgumentName,
		NameIsMandatory:             opts.NameIsMandatory,
	}
	if opts.Cardinality != signature.Required {
		data.Cardinality = opts.Cardinality.String()
	}
	if opts.MinValue != nil {
		v := *opts.MinValue
		data.MinValue = &v
	}
	if opts.MaxValue != nil {
		v := *opts.MaxValue
		data.MaxValue = &v
	}
	if opts.RelationSchema != nil {
		rd, err := encodeRelation(opts.RelationSchema)
		if err != nil {
			return nil, err
		}
		data.RelationInputSchema = rd
	}
	if opts.ProcedureMode != signature.ModeNotSet {
		data.ProcedureMode = opts.ProcedureMode.String()
	}
	if opts.Default != nil {
		vd, err := encodeValue(*opts.Default)
		if err != nil {
			return nil, err
		}
		data.DefaultValue = vd
		// A fixed argument's default takes the argument's own type.
		if arg.Kind() != signature.KindFixed {
			td, err := EncodeType(opts.Default.Type())
			if err != nil {
				return nil, err
			}
			data.DefaultValueType = td
		}
	}
	if opts.DescriptorTableOffset != nil {
		v := *opts.DescriptorTableOffset
		data.DescriptorTableOffset = &v
	}
	if reflect.DeepEqual(data, &ArgumentOptionsData{}) {
		return nil, nil
	}
	return data, nil
}

func decodeOptions(data *ArgumentOptionsData, kind signature.ArgumentKind, fixedType types.Type, pool *descpool.Pool) (*signature.ArgumentOptions, error) {
	opts := &signature.ArgumentOptions{}
	if data == nil {
		return opts, nil
	}
	card, ok := signature.CardinalityFromName(data.Cardinality)
	if !ok {
		return nil, internalf("unknown cardinality %q", data.Cardinality)
	}
	opts.Cardinality = card
	opts.MustBeConstant = data.MustBeConstant
	opts.MustBeNonNull = data.MustBeNonNull
	opts.IsNotAggregate = data.IsNotAggregate
	opts.MustSupportEquality = data.MustSupportEquality
	opts.MustSupportOrdering = data.MustSupportOrdering
	opts.ExtraRelationColumnsAllowed = data.ExtraRelationColumnsAllowed
	opts.ArgumentName = data.ArgumentName
	opts.NameIsMandatory = data.NameIsMandatory
	if data.MinValue != nil {
		v := *data.MinValue
		opts.MinValue = &v
	}
	if data.MaxValue != nil {
		v := *data.MaxValue
		opts.MaxValue = &v
	}
	if data.RelationInputSchema != nil {
		if kind != signature.KindRelation {
			return nil, internalf("relation_input_schema on a %s argument", kind.Name())
		}
		rel, err := decodeRelation(data.RelationInputSchema, pool)
		if err != nil {
			return nil, err
		}
		opts.RelationSchema = rel
	}
	mode, ok := signature.ProcedureModeFromName(data.ProcedureMode)
	if !ok {
		return nil, internalf("unknown procedure_argument_mode %q", data.ProcedureMode)
	}
	opts.ProcedureMode = mode
	if data.DefaultValue != nil {
		if !signature.CanHaveDefault(kind) {
			return nil, invalidf("%s argument cannot carry a default value", kind.Name())
		}
		target := fixedType
		if kind == signature.KindFixed {
			if data.DefaultValueType != nil {
				return nil, internalf("default_value_type on a FIXED argument")
			}
		} else {
			if data.DefaultValueType == nil {
				return nil, invalidf("default value on a templated argument requires default_value_type")
			}
			t, err := DecodeType(data.DefaultValueType, pool)
			if err != nil {
				return nil, err
			}
			target = t
		}
		val, err := decodeValue(data.DefaultValue, target)
		if err != nil {
			return nil, err
		}
		opts.Default = &val
	} else if data.DefaultValueType != nil {
		return nil, internalf("default_value_type without default_value")
	}
	if data.DescriptorTableOffset != nil {
		if kind != signature.KindDescriptor {
			return nil, internalf("descriptor_table_offset on a %s argument", kind.Name())
		}
		v := *data.DescriptorTableOffset
		opts.DescriptorTableOffset = &v
	}
	return opts, nil
}

// EncodeArgument serializes one argument or result position.
func EncodeArgument(arg signature.ArgumentType) (*ArgumentData, error) {
	data := &ArgumentData{Kind: arg.Kind().Name()}
	if n := arg.NumOccurrences(); n >= 0 {
		data.NumOccurrences = &n
	}
	if arg.IsLambda() {
		// Lambda options are always the plain required preset and the
		// carried type is implied by the body.
		lambda := arg.Lambda()
		ld := &LambdaData{}
		for _, nested := range lambda.Arguments() {
			nd, err := EncodeArgument(nested)
			if err != nil {
				return nil, err
			}
			ld.Arguments = append(ld.Arguments, *nd)
		}
		body, err := EncodeArgument(lambda.Body())
		if err != nil {
			return nil, err
		}
		ld.Body = body
		data.Lambda = ld
		return data, nil
	}
	if arg.Kind() == signature.KindFixed {
		td, err := EncodeType(arg.Type())
		if err != nil {
			return nil, err
		}
		data.Type = td
	}
	opts, err := encodeOptions(arg)
	if err != nil {
		return nil, err
	}
	data.Options = opts
	return data, nil
}

// DecodeArgument deserializes one argument or result position.
func DecodeArgument(data *ArgumentData, pool *descpool.Pool) (signature.ArgumentType, error) {
	var zero signature.ArgumentType
	if data == nil {
		return zero, internalf("argument descriptor is missing")
	}
	kind, ok := signature.ArgumentKindFromName(data.Kind)
	if !ok {
		return zero, internalf("unknown argument kind %q", data.Kind)
	}

	if kind == signature.KindLambda {
		if data.Lambda == nil || data.Lambda.Body == nil {
			return zero, internalf("LAMBDA argument is missing its lambda payload")
		}
		if data.Type != nil {
			return zero, internalf("type on a LAMBDA argument")
		}
		if data.Options != nil && !reflect.DeepEqual(data.Options, &ArgumentOptionsData{}) {
			return zero, internalf("options on a LAMBDA argument")
		}
		nested := make([]signature.ArgumentType, 0, len(data.Lambda.Arguments))
		for i := range data.Lambda.Arguments {
			arg, err := DecodeArgument(&data.Lambda.Arguments[i], pool)
			if err != nil {
				return zero, err
			}
			nested = append(nested, arg)
		}
		body, err := DecodeArgument(data.Lambda.Body, pool)
		if err != nil {
			return zero, err
		}
		arg, err := signature.NewLambdaArgument(nested, body)
		if err != nil {
			return zero, err
		}
		if data.NumOccurrences != nil {
			arg = arg.WithOccurrences(*data.NumOccurrences)
		}
		if err := arg.Validate(); err != nil {
			return zero, err
		}
		return arg, nil
	}

	if data.Lambda != nil {
		return zero, internalf("lambda payload on a %s argument", kind.Name())
	}
	var fixedType types.Type
	if kind == signature.KindFixed {
		if data.Type == nil {
			return zero, internalf("FIXED argument is missing its type")
		}
		t, err := DecodeType(data.Type, pool)
		if err != nil {
			return zero, err
		}
		fixedType = t
	} else if data.Type != nil {
		return zero, internalf("type on a %s argument", kind.Name())
	}

	opts, err := decodeOptions(data.Options, kind, fixedType, pool)
	if err != nil {
		return zero, err
	}
	var arg signature.ArgumentType
	if kind == signature.KindFixed {
		arg = signature.NewFixedArgumentWithOptions(fixedType, opts)
	} else {
		arg = signature.NewArgumentWithOptions(kind, opts)
	}
	if data.NumOccurrences != nil {
		arg = arg.WithOccurrences(*data.NumOccurrences)
	}
	if err := arg.Validate(); err != nil {
		return zero, err
	}
	return arg, nil
}

// EncodeSignature serializes a signature.
func EncodeSignature(sig *signature.Signature) (*SignatureData, error) {
	data := &SignatureData{ContextID: sig.ContextID()}
	for _, arg := range sig.Arguments() {
		ad, err := EncodeArgument(arg)
		if err != nil {
			return nil, err
		}
		data.Arguments = append(data.Arguments, *ad)
	}
	rt, err := EncodeArgument(sig.ResultType())
	if err != nil {
		return nil, err
	}
	data.ResultType = rt

	opts := sig.Options()
	od := &SignatureOptionsData{
		IsDeprecated:       opts.IsDeprecated,
		IsAliasedSignature: opts.IsAliasedSignature,
	}
	od.AdditionalDeprecationWarnings = append([]string(nil), opts.AdditionalDeprecationWarnings...)
	for _, f := range opts.RequiredLanguageFeatures {
		od.RequiredLanguageFeatures = append(od.RequiredLanguageFeatures, f.String())
	}
	if !reflect.DeepEqual(od, &SignatureOptionsData{}) {
		data.Options = od
	}
	return data, nil
}

// DecodeSignature deserializes a signature. The callback-only
// Constraints option has no wire form and always decodes unset.
func DecodeSignature(data *SignatureData, pool *descpool.Pool) (*signature.Signature, error) {
	if data == nil || data.ResultType == nil {
		return nil, internalf("signature is missing its result type")
	}
	args := make([]signature.ArgumentType, 0, len(data.Arguments))
	for i := range data.Arguments {
		arg, err := DecodeArgument(&data.Arguments[i], pool)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	result, err := DecodeArgument(data.ResultType, pool)
	if err != nil {
		return nil, err
	}
	var opts signature.SignatureOptions
	if data.Options != nil {
		opts.IsDeprecated = data.Options.IsDeprecated
		opts.IsAliasedSignature = data.Options.IsAliasedSignature
		opts.AdditionalDeprecationWarnings = append([]string(nil),
			data.Options.AdditionalDeprecationWarnings...)
		for _, name := range data.Options.RequiredLanguageFeatures {
			f, ok := types.FeatureFromName(name)
			if !ok {
				return nil, invalidf("unknown language feature %q", name)
			}
			opts.RequiredLanguageFeatures = append(opts.RequiredLanguageFeatures, f)
		}
	}
	return signature.NewSignatureWithOptions(result, args, data.ContextID, opts), nil
}

// MarshalSignature renders a signature as wire JSON.
func MarshalSignature(sig *signature.Signature) ([]byte, error) {
	data, err := EncodeSignature(sig)
	if err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

// UnmarshalSignature parses wire JSON into a signature.
func UnmarshalSignature(raw []byte, pool *descpool.Pool) (*signature.Signature, error) {
	var data SignatureData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, signature.NewInternalError("malformed signature payload: " + err.Error())
	}
	return DecodeSignature(&data, pool)
}
