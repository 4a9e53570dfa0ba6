package problem

import "github.com/gitrdm/lcp/pkg/model"

// OriginKind distinguishes a problem's single initial chronicle from the
// free-action instances finitization generates (§4.7, glossary "Free
// action").
type OriginKind uint8

const (
	// Original tags the problem's initial chronicle — always present,
	// instantiated exactly once.
	Original OriginKind = iota
	// FreeActionOrigin tags a finitized template instance.
	FreeActionOrigin
)

// Origin identifies where a ChronicleInstance came from: the original
// problem, or the InstantiationID'th copy of TemplateID.
type Origin struct {
	Kind            OriginKind
	TemplateID      TemplateID
	InstantiationID uint32
}

// OriginalOrigin builds the origin of the problem's single initial
// chronicle.
func OriginalOrigin() Origin { return Origin{Kind: Original} }

// FreeAction builds the origin of the instantiationID'th copy of
// template t.
func FreeAction(t TemplateID, instantiationID uint32) Origin {
	return Origin{Kind: FreeActionOrigin, TemplateID: t, InstantiationID: instantiationID}
}

// Condition is a freshened, fully-resolved condition (§3 "Condition").
type Condition struct {
	Start, End model.Atom
	StateVar   []model.Atom
	Value      model.Atom
}

// Effect is a freshened, fully-resolved effect (§3 "Effect"). EffEnd is
// the fresh integer variable the spec requires per effect, created
// during instantiation rather than substituted from a template
// parameter — nothing upstream of finitization can name it.
type Effect struct {
	TransitionStart, PersistenceStart model.Atom
	StateVar                          []model.Atom
	Value                             model.Atom
	EffEnd                            model.IVar
}

// Constraint is a freshened, fully-resolved chronicle constraint (§3
// "Constraint").
type Constraint struct {
	Kind    ConstraintKind
	TableID uint32
	Vars    []model.Atom
}

// ChronicleInstance is one freshened chronicle — either the problem's
// original chronicle or one finitized copy of a template — with every
// parameter substituted by a concrete model variable (§3 "Chronicle
// instance").
type ChronicleInstance struct {
	Origin      Origin
	Name        string
	Params      []model.Atom
	Presence    model.Literal
	Start, End  model.IVar
	Conditions  []Condition
	Effects     []Effect
	Constraints []Constraint
}
