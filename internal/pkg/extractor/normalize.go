package extractor

import (
	"strconv"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

// normalizeContainer shapes a raw extracted value into a Container:
// rules become an ordered sequence regardless of whether the source used
// an array or a keyed object, dataElements and extensions default to
// empty maps, and the metadata fields default to the explicit absent
// marker so consumers can tell "checked, not present" from "not
// checked". A non-mapping value is not usable.
func normalizeContainer(v models.Value) (*models.Container, bool) {
	if v.Kind != models.KindMapping {
		return nil, false
	}

	container := models.NewContainer()

	if rules, ok := v.Get("rules"); ok {
		switch rules.Kind {
		case models.KindSequence:
			for _, rv := range rules.Seq {
				container.Rules = append(container.Rules, decodeRule(rv))
			}
		case models.KindMapping:
			// keyed form: the value sequence in iteration order
			for _, entry := range rules.Entries {
				container.Rules = append(container.Rules, decodeRule(entry.Value))
			}
		}
	}

	if dataElements, ok := v.Get("dataElements"); ok && dataElements.Kind == models.KindMapping {
		for _, entry := range dataElements.Entries {
			container.DataElements[entry.Key] = entry.Value
		}
	}
	if extensions, ok := v.Get("extensions"); ok && extensions.Kind == models.KindMapping {
		for _, entry := range extensions.Entries {
			container.Extensions[entry.Key] = entry.Value
		}
	}

	if buildInfo, ok := v.Get("buildInfo"); ok {
		container.BuildInfo = buildInfo
	}
	if property, ok := v.Get("property"); ok {
		container.Property = property
	}
	if company, ok := v.Get("company"); ok {
		container.Company = company
	}
	if environment, ok := v.Get("environment"); ok {
		container.Environment = environment
	}

	return container, true
}

func decodeRule(v models.Value) models.Rule {
	rule := models.Rule{
		Events:     []models.Module{},
		Conditions: []models.Module{},
		Actions:    []models.Module{},
	}
	if v.Kind != models.KindMapping {
		return rule
	}

	if id, ok := v.Get("id"); ok {
		rule.ID = scalarString(id)
	}
	if name, ok := v.Get("name"); ok {
		rule.Name = scalarString(name)
	}

	rule.Events = decodeModules(v, "events")
	rule.Conditions = decodeModules(v, "conditions")
	rule.Actions = decodeModules(v, "actions")

	if sp, ok := v.Get("sequentialProcessing"); ok && sp.Kind == models.KindBool {
		b := sp.Bool
		rule.SequentialProcessing = &b
	}

	return rule
}

func decodeModules(rule models.Value, key string) []models.Module {
	modules := []models.Module{}
	seq, ok := rule.Get(key)
	if !ok || seq.Kind != models.KindSequence {
		return modules
	}
	for _, mv := range seq.Seq {
		modules = append(modules, decodeModule(mv))
	}
	return modules
}

func decodeModule(v models.Value) models.Module {
	module := models.Module{Settings: models.MappingValue(nil)}
	if v.Kind != models.KindMapping {
		return module
	}

	if modulePath, ok := v.Get("modulePath"); ok && modulePath.Kind == models.KindString {
		module.ModulePath = modulePath.Str
	}
	if settings, ok := v.Get("settings"); ok && settings.Kind == models.KindMapping {
		module.Settings = settings
	}

	module.Negate = boolField(v, "negate")
	module.DelayNext = boolField(v, "delayNext")
	module.Timeout = numberField(v, "timeout")
	module.Order = numberField(v, "order")
	module.RuleOrder = numberField(v, "ruleOrder")

	return module
}

func boolField(v models.Value, key string) *bool {
	field, ok := v.Get(key)
	if !ok || field.Kind != models.KindBool {
		return nil
	}
	b := field.Bool
	return &b
}

func numberField(v models.Value, key string) *float64 {
	field, ok := v.Get(key)
	if !ok || field.Kind != models.KindNumber {
		return nil
	}
	n := field.Number
	return &n
}

// scalarString renders an id-like scalar as a string; upstream sources
// sometimes use numeric rule ids.
func scalarString(v models.Value) string {
	switch v.Kind {
	case models.KindString:
		return v.Str
	case models.KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}
