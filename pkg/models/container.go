package models

// Container is the recovered tag-management configuration. Once built it
// is immutable except for the merge step, which owns the merged copy.
type Container struct {
	Rules        []Rule           `json:"rules"`
	DataElements map[string]Value `json:"dataElements"`
	Extensions   map[string]Value `json:"extensions"`
	BuildInfo    Value            `json:"buildInfo"`
	Property     Value            `json:"property"`
	Company      Value            `json:"company"`
	Environment  Value            `json:"environment"`
}

// NewContainer returns an empty container with the normalized defaults:
// rules as an empty sequence, the maps empty rather than nil and the
// metadata fields explicitly absent.
func NewContainer() *Container {
	return &Container{
		Rules:        []Rule{},
		DataElements: map[string]Value{},
		Extensions:   map[string]Value{},
		BuildInfo:    Absent(),
		Property:     Absent(),
		Company:      Absent(),
		Environment:  Absent(),
	}
}

// Rule is one tag-management rule. Module order is evaluation order and
// is preserved exactly as received.
type Rule struct {
	ID                   string   `json:"id,omitempty"`
	Name                 string   `json:"name,omitempty"`
	Events               []Module `json:"events"`
	Conditions           []Module `json:"conditions"`
	Actions              []Module `json:"actions"`
	SequentialProcessing *bool    `json:"sequentialProcessing,omitempty"`
}

// Module is a single event, condition or action entry of a rule.
// Settings defaults to an empty mapping; the optional fields only apply
// to some module positions (negate to conditions, timeout/order/delayNext
// to actions, ruleOrder to events).
type Module struct {
	ModulePath string   `json:"modulePath,omitempty"`
	Settings   Value    `json:"settings"`
	Negate     *bool    `json:"negate,omitempty"`
	Timeout    *float64 `json:"timeout,omitempty"`
	Order      *float64 `json:"order,omitempty"`
	DelayNext  *bool    `json:"delayNext,omitempty"`
	RuleOrder  *float64 `json:"ruleOrder,omitempty"`
}
