// Package tokens defines the declaration and diagnostic types that flow
// through the extraction pipeline: custom-property declarations with scope
// provenance, literal rule overrides, rule/token conflicts, unresolved
// references, and deprecation warnings.
package tokens

import (
	"encoding/json"
	"strings"
)

// Prefix is the custom-property prefix every token declaration name
// begins with.
const Prefix = "--"

// IsCustomProperty reports whether name is a custom-property name.
func IsCustomProperty(name string) bool {
	return strings.HasPrefix(name, Prefix)
}

// Scope identifies where in the source tree a declaration was found.
type Scope int

const (
	// ScopeDefaults marks declarations synthesized from an external
	// baseline token set. They participate in resolution with the lowest
	// precedence.
	ScopeDefaults Scope = iota
	// ScopeBase marks declarations inside a top-level @theme block.
	ScopeBase
	// ScopeRoot marks declarations inside a top-level :root rule.
	ScopeRoot
	// ScopeVariant marks declarations inside a named variant block.
	ScopeVariant
)

// String returns the scope's name for logs and reports.
func (s Scope) String() string {
	switch s {
	case ScopeDefaults:
		return "defaults"
	case ScopeBase:
		return "base"
	case ScopeRoot:
		return "root"
	case ScopeVariant:
		return "variant"
	}
	return "unknown"
}

// MarshalJSON emits the scope name rather than its ordinal.
func (s Scope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Declaration is a single custom-property assignment with its provenance.
// Within one resolution pass, declarations sharing the same Name and Scope
// resolve last-write-wins in source order.
type Declaration struct {
	// Name is the custom-property name, always prefixed with "--".
	Name string `json:"name"`

	// Value is the declared value text.
	Value string `json:"value"`

	// Scope is the source-tree location the declaration belongs to.
	Scope Scope `json:"scope"`

	// Selector is the activating selector of the variant block the
	// declaration was found in. Empty outside ScopeVariant.
	Selector string `json:"selector,omitempty"`

	// Variant is the camelCased variant identifier, dot-joined for
	// compound variants. Empty outside ScopeVariant.
	Variant string `json:"variantName,omitempty"`

	// Line is the 0-based source line of the declaration.
	Line uint32 `json:"-"`
}

// Identity returns the pairing key used to match pre- and post-resolution
// counterparts of the same declaration.
func (d Declaration) Identity() string {
	return d.Name + "\x00" + d.Scope.String() + "\x00" + d.Variant
}

// Variant describes one variant scope discovered during extraction, in
// source order.
type Variant struct {
	// Name is the camelCased identifier, dot-joined for compounds
	// (e.g. "dark", "dark.highContrast").
	Name string `json:"name"`

	// Selector is the activating selector. For compound variants this is
	// the composite selector derived from the ancestor chain.
	Selector string `json:"selector"`

	// Ancestors are the enclosing variant names, outermost first.
	// Empty for top-level variants.
	Ancestors []string `json:"ancestors,omitempty"`
}

// Complexity classifies how safely a literal rule's value could replace a
// token-derived theme value.
type Complexity int

const (
	// Simple rules target a bare utility class with a static value.
	Simple Complexity = iota
	// Complex rules involve pseudo-classes, combinators, dynamic values,
	// conditional nesting, or crowded declaration blocks.
	Complex
)

// String returns the complexity's name for logs and reports.
func (c Complexity) String() string {
	if c == Complex {
		return "complex"
	}
	return "simple"
}

// MarshalJSON emits the complexity name rather than its ordinal.
func (c Complexity) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// RuleOverride is a literal style declaration found inside a variant scope.
// Only literal properties that map to a known theme namespace produce rule
// overrides; custom-property declarations are extracted as Declarations
// instead.
type RuleOverride struct {
	// Selector is the rule's own selector (e.g. ".rounded-lg").
	Selector string `json:"selector"`

	// Property is the declared CSS property (e.g. "border-radius").
	Property string `json:"property"`

	// Value is the declared value text.
	Value string `json:"value"`

	// VariantName is the variant the rule was found in.
	VariantName string `json:"variantName"`

	// OriginalSelector is the enclosing variant block's activating
	// selector, used to locate the variant during conflict detection.
	OriginalSelector string `json:"originalSelector"`

	// Complexity classifies the rule for conflict resolution.
	Complexity Complexity `json:"complexity"`

	// Reason explains a Complex classification. Empty for Simple rules.
	Reason string `json:"reason,omitempty"`

	// MediaQuery is the enclosing media query params when the rule is
	// nested inside a conditional block.
	MediaQuery string `json:"mediaQuery,omitempty"`

	// Line is the 0-based source line of the declaration.
	Line uint32 `json:"-"`
}

// Confidence grades how certain the conflict detector is that a rule value
// can replace the theme value it shadows.
type Confidence int

const (
	// ConfidenceLow marks conflicts from Complex rules.
	ConfidenceLow Confidence = iota
	// ConfidenceMedium marks Simple rules whose value unit differs from
	// the theme value's unit.
	ConfidenceMedium
	// ConfidenceHigh marks Simple rules whose value shares the theme
	// value's unit (or both carry none).
	ConfidenceHigh
)

// String returns the confidence's name for logs and reports.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	}
	return "low"
}

// MarshalJSON emits the confidence name rather than its ordinal.
func (c Confidence) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Conflict records a literal rule that silently duplicates or overrides a
// token-derived theme value.
type Conflict struct {
	// VariantName is the variant whose theme the rule shadows.
	VariantName string `json:"variantName"`

	// ThemeProperty is the theme group holding the shadowed value.
	ThemeProperty string `json:"themeProperty"`

	// ThemeKey is the key within the group.
	ThemeKey string `json:"themeKey"`

	// VariableValue is the token-derived value currently in the theme.
	VariableValue string `json:"variableValue"`

	// RuleValue is the literal rule's value.
	RuleValue string `json:"ruleValue"`

	// RuleSelector is the literal rule's selector.
	RuleSelector string `json:"ruleSelector"`

	// CanResolve is true when the rule is Simple enough to apply back
	// into the theme mechanically.
	CanResolve bool `json:"canResolve"`

	// Confidence grades the value comparison.
	Confidence Confidence `json:"confidence"`
}

// Cause classifies why a reference never resolved.
type Cause int

const (
	// CauseUnknown covers references with no recognizable origin.
	CauseUnknown Cause = iota
	// CauseExternal marks references into a foreign tool's internal
	// variable namespace.
	CauseExternal
	// CauseSelfReferential marks declarations referencing themselves,
	// an intentional pattern for falling back to baseline defaults.
	CauseSelfReferential
)

// String returns the cause's name for logs and reports.
func (c Cause) String() string {
	switch c {
	case CauseExternal:
		return "external"
	case CauseSelfReferential:
		return "self-referential"
	}
	return "unknown"
}

// MarshalJSON emits the cause name rather than its ordinal.
func (c Cause) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnresolvedReference records one reference expression that survived
// resolution. A single value may produce several entries.
type UnresolvedReference struct {
	// VariableName is the declaring custom property.
	VariableName string `json:"variableName"`

	// OriginalValue is the declaration's pre-resolution value.
	OriginalValue string `json:"originalValue"`

	// ReferencedVariable is the name the surviving reference points at.
	ReferencedVariable string `json:"referencedVariable"`

	// FallbackValue is the reference's fallback text, if it carried one.
	FallbackValue string `json:"fallbackValue,omitempty"`

	// Source is the scope of the declaring declaration.
	Source Scope `json:"source"`

	// VariantName is set when the declaration belongs to a variant.
	VariantName string `json:"variantName,omitempty"`

	// Selector is the declaring variant's selector, if any.
	Selector string `json:"selector,omitempty"`

	// LikelyCause classifies the failure.
	LikelyCause Cause `json:"likelyCause"`
}

// DeprecationWarning flags a declaration using a legacy namespace.
// Warnings are deduplicated by variable name across base and all variants.
type DeprecationWarning struct {
	// Variable is the declared custom-property name.
	Variable string `json:"variable"`

	// Message describes the deprecation.
	Message string `json:"message"`

	// Replacement is the modern spelling of the declared name.
	Replacement string `json:"replacement"`
}
