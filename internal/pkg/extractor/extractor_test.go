package extractor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/configured/adobe-launch-analyzer/pkg/models"
)

func TestExtractCanonicalAssignment(t *testing.T) {
	e := New(0, 0)

	script := `window._satellite.container={rules:[{id:"r1",name:"Test",events:[],conditions:[],actions:[]}],dataElements:{},extensions:{}}`

	container, err := e.Extract(script)
	require.NoError(t, err)

	require.Len(t, container.Rules, 1)
	rule := container.Rules[0]
	assert.Equal(t, "r1", rule.ID)
	assert.Equal(t, "Test", rule.Name)
	assert.Empty(t, rule.Events)
	assert.Empty(t, rule.Conditions)
	assert.Empty(t, rule.Actions)

	assert.Empty(t, container.DataElements)
	assert.Empty(t, container.Extensions)
	assert.True(t, container.BuildInfo.IsAbsent())
}

func TestExtractMappingShapedRules(t *testing.T) {
	e := New(0, 0)

	script := `window._satellite.container = {rules: {"a": {id:"a",name:"A"}, "b": {id:"b",name:"B"}}};`

	container, err := e.Extract(script)
	require.NoError(t, err)

	// keyed form becomes a sequence in the mapping's iteration order
	require.Len(t, container.Rules, 2)
	assert.Equal(t, "a", container.Rules[0].ID)
	assert.Equal(t, "b", container.Rules[1].ID)
}

func TestExtractFallsBackToMarkerScan(t *testing.T) {
	e := New(0, 0)

	// the reference to a missing global breaks sandboxed execution, but
	// the assignment pattern is still textually present and balanced
	script := `notDefinedAnywhere();
window._satellite.container = {rules:[{id:"marker",name:"M",events:[],conditions:[],actions:[]}]};
moreBrokenCode(;`

	container, err := e.Extract(script)
	require.NoError(t, err)
	require.Len(t, container.Rules, 1)
	assert.Equal(t, "marker", container.Rules[0].ID)
}

func TestExtractSecondaryMarker(t *testing.T) {
	e := New(0, 0)

	// no window qualifier, and the leading statement kills the sandbox run
	script := `notDefinedAnywhere(); _satellite.container = {rules:[{id:"local"}]};`

	container, err := e.Extract(script)
	require.NoError(t, err)
	require.Len(t, container.Rules, 1)
	assert.Equal(t, "local", container.Rules[0].ID)
}

func TestExtractModuleFields(t *testing.T) {
	e := New(0, 0)

	script := `window._satellite.container = {rules:[{
		id: "r1",
		name: "click",
		events: [{modulePath: "core/src/lib/events/click.js", ruleOrder: 50, settings: {}}],
		conditions: [{modulePath: "core/src/lib/conditions/path.js", negate: true, settings: {paths: ["/checkout"]}}],
		actions: [{modulePath: "core/src/lib/actions/custom.js", timeout: 2000, order: 1, delayNext: true, settings: {source: function(e) { return e; }}}],
		sequentialProcessing: true
	}]};`

	container, err := e.Extract(script)
	require.NoError(t, err)
	require.Len(t, container.Rules, 1)

	rule := container.Rules[0]
	require.NotNil(t, rule.SequentialProcessing)
	assert.True(t, *rule.SequentialProcessing)

	require.Len(t, rule.Events, 1)
	require.NotNil(t, rule.Events[0].RuleOrder)
	assert.Equal(t, float64(50), *rule.Events[0].RuleOrder)

	require.Len(t, rule.Conditions, 1)
	require.NotNil(t, rule.Conditions[0].Negate)
	assert.True(t, *rule.Conditions[0].Negate)

	require.Len(t, rule.Actions, 1)
	action := rule.Actions[0]
	require.NotNil(t, action.Timeout)
	assert.Equal(t, float64(2000), *action.Timeout)
	require.NotNil(t, action.DelayNext)
	assert.True(t, *action.DelayNext)

	source, found := action.Settings.Get("source")
	require.True(t, found)
	assert.Equal(t, models.KindFunction, source.Kind)
}

func TestExtractContainerMetadata(t *testing.T) {
	e := New(0, 0)

	script := `window._satellite.container = {
		rules: [],
		buildInfo: {turbineVersion: "27.2.1", environment: "production"},
		property: {name: "web property", settings: {domains: ["example.com"]}},
		company: {orgId: "ABC@AdobeOrg"}
	};`

	container, err := e.Extract(script)
	require.NoError(t, err)

	assert.False(t, container.BuildInfo.IsAbsent())
	assert.False(t, container.Property.IsAbsent())
	assert.False(t, container.Company.IsAbsent())
	// checked but not present stays an explicit absent marker
	assert.True(t, container.Environment.IsAbsent())
}

func TestExtractNotFound(t *testing.T) {
	e := New(0, 0)

	for _, script := range []string{
		``,
		`   `,
		`var analytics = {track: function() {}};`,
		`window._satellite.container = "not an object";`,
	} {
		_, err := e.Extract(script)
		var notFound *NotFoundError
		require.Error(t, err, "script %q", script)
		assert.True(t, errors.As(err, &notFound), "script %q should yield NotFoundError, got %v", script, err)
	}
}

func TestExtractMarkerInsideStringIsSkipped(t *testing.T) {
	e := New(0, 0)

	// first textual occurrence of the marker is not an assignment; the
	// scan must move on to the real one
	script := `brokenCall(;
var note = "window._satellite.container is assigned below";
window._satellite.container = {rules:[{id:"real"}]};`

	container, err := e.Extract(script)
	require.NoError(t, err)
	require.Len(t, container.Rules, 1)
	assert.Equal(t, "real", container.Rules[0].ID)
}
