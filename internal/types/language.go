package types

// ProductMode selects which types and names a deployment exposes.
type ProductMode int

const (
	// ProductInternal exposes the full type system.
	ProductInternal ProductMode = iota
	// ProductExternal restricts the type system to externally supported
	// types: INT32, UINT32, UINT64 and FLOAT are unavailable, DOUBLE is
	// named FLOAT64, and proto and enum types are hidden.
	ProductExternal
)

func (m ProductMode) String() string {
	if m == ProductExternal {
		return "external"
	}
	return "internal"
}

// ProductModeFromString parses "internal" or "external".
func ProductModeFromString(s string) (ProductMode, bool) {
	switch s {
	case "internal", "":
		return ProductInternal, true
	case "external":
		return ProductExternal, true
	}
	return ProductInternal, false
}

// LanguageFeature gates an optional capability of the language.
type LanguageFeature int

const (
	FeatureNumericType LanguageFeature = iota
	FeatureBigNumericType
	FeatureJSONType
	FeatureIntervalType
	FeatureGeographyType
	FeatureNamedArguments
	FeatureArgumentDefaults
	FeatureTableValuedFunctions
	FeatureProcedures
)

var featureNames = map[LanguageFeature]string{
	FeatureNumericType:          "NUMERIC_TYPE",
	FeatureBigNumericType:       "BIGNUMERIC_TYPE",
	FeatureJSONType:             "JSON_TYPE",
	FeatureIntervalType:         "INTERVAL_TYPE",
	FeatureGeographyType:        "GEOGRAPHY_TYPE",
	FeatureNamedArguments:       "NAMED_ARGUMENTS",
	FeatureArgumentDefaults:     "ARGUMENT_DEFAULTS",
	FeatureTableValuedFunctions: "TABLE_VALUED_FUNCTIONS",
	FeatureProcedures:           "PROCEDURES",
}

func (f LanguageFeature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "UNKNOWN_FEATURE"
}

// FeatureFromName returns the feature with the given name.
func FeatureFromName(name string) (LanguageFeature, bool) {
	for f, n := range featureNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}

// LanguageOptions carries the product mode and the set of enabled optional
// features. A nil *LanguageOptions places no restrictions: internal mode
// with every feature enabled.
type LanguageOptions struct {
	mode     ProductMode
	features map[LanguageFeature]bool
}

// NewLanguageOptions builds options for the given mode with the listed
// features enabled.
func NewLanguageOptions(mode ProductMode, features ...LanguageFeature) *LanguageOptions {
	opts := &LanguageOptions{
		mode:     mode,
		features: make(map[LanguageFeature]bool, len(features)),
	}
	for _, f := range features {
		opts.features[f] = true
	}
	return opts
}

// ProductMode returns the configured mode, or ProductInternal for nil.
func (o *LanguageOptions) ProductMode() ProductMode {
	if o == nil {
		return ProductInternal
	}
	return o.mode
}

// EnableFeature turns the feature on.
func (o *LanguageOptions) EnableFeature(f LanguageFeature) {
	if o.features == nil {
		o.features = make(map[LanguageFeature]bool)
	}
	o.features[f] = true
}

// FeatureEnabled reports whether the feature is on. Every feature is
// enabled for nil options.
func (o *LanguageOptions) FeatureEnabled(f LanguageFeature) bool {
	if o == nil {
		return true
	}
	return o.features[f]
}
