package domain

// ParamKind is the declared type of a single tool parameter.
type ParamKind string

const (
	ParamString  ParamKind = "string"
	ParamNumber  ParamKind = "number"
	ParamBoolean ParamKind = "boolean"
	ParamObject  ParamKind = "object"
	ParamList    ParamKind = "list"
)

// ParamSpec describes one named input parameter of a tool: its type,
// optionality and validation constraints. The set of specs for a tool is the
// data interpreted by ValidateArguments; there is no per-tool validation code.
type ParamSpec struct {
	Name        string
	Kind        ParamKind
	Description string
	Required    bool

	// Default is applied when an optional parameter is absent. A nil Default
	// on an optional parameter means the parameter is simply omitted.
	Default any

	// Enum restricts a string parameter to a fixed set of values.
	Enum []string

	// ExclusiveMin/ExclusiveMax bound a number parameter (open interval).
	ExclusiveMin *float64
	ExclusiveMax *float64

	// Items is the element kind for list parameters.
	Items ParamKind
}

// Tool is an immutable definition of one callable operation exposed over MCP.
// The full set is declared once at startup by the catalog package.
type Tool struct {
	Name        string
	Description string
	Params      []ParamSpec

	// RequireOneOf lists groups of parameter names of which at least one must
	// be supplied (e.g. notional/quantity for single trades).
	RequireOneOf [][]string

	// RequiresAuth marks tools that must not be dispatched without a
	// credential pair. Tools without it still attach credentials when present.
	RequiresAuth bool

	// ReadOnly marks tools with no financial side effects upstream.
	ReadOnly bool
}

// Param returns the spec for the named parameter, or nil.
func (t *Tool) Param(name string) *ParamSpec {
	for i := range t.Params {
		if t.Params[i].Name == name {
			return &t.Params[i]
		}
	}
	return nil
}

// Fval is a convenience for building *float64 bounds in catalog literals.
func Fval(v float64) *float64 { return &v }
