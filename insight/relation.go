package insight

// Relation is the closed, tagged set of edge labels spec.md §6 fixes as
// stable, string-valued. Dispatch on the tag, never on a subtype hierarchy
// (spec.md §9).
type Relation string

const (
	Initialization   Relation = "Initialization"
	Assignment       Relation = "Assignment"
	ReturnContributor Relation = "ReturnContributor"
	ParameterMapping  Relation = "ParameterMapping"
	ObjectInitializer Relation = "ObjectInitializer"
	Override          Relation = "Override"
)
