package surface

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themesync/internal/theme"
)

const shellHTML = `<!DOCTYPE html>
<html>
<head><title>host</title></head>
<body class="app light">
  <div id="content-frame">
    <article class="markdown-body">hello</article>
  </div>
</body>
</html>`

func parseShell(t *testing.T) *HTMLDocument {
	t.Helper()
	doc, err := ParseHTMLDocument(strings.NewReader(shellHTML))
	require.NoError(t, err)
	return doc
}

func darkRecord() theme.PreferenceRecord {
	rec := theme.DefaultRecord()
	rec.Current = theme.ModeDark
	rec.Preview = &theme.PreviewConfig{
		ClassTargetSelector:     ".markdown-body",
		AttributeTargetSelector: "#content-frame",
		DarkAttributeValue:      "night",
		LightAttributeValue:     "day",
	}
	return rec
}

func TestApplyClassToggleSwapsClasses(t *testing.T) {
	doc := parseShell(t)
	rec := darkRecord()

	ApplyClassToggle(doc.Root(), rec)

	body := doc.Find("body")
	require.NotNil(t, body)
	assert.True(t, body.HasClass("dark"))
	assert.False(t, body.HasClass("light"))
	assert.True(t, body.HasClass("app"), "unrelated classes must survive")
}

func TestApplyClassToggleIsIdempotent(t *testing.T) {
	doc := parseShell(t)
	rec := darkRecord()

	ApplyClassToggle(doc.Root(), rec)
	once, err := doc.Bytes()
	require.NoError(t, err)

	ApplyClassToggle(doc.Root(), rec)
	twice, err := doc.Bytes()
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
}

func TestApplyClassToggleRoundTrips(t *testing.T) {
	doc := parseShell(t)
	rec := darkRecord()

	ApplyClassToggle(doc.Root(), rec)
	rec.Current = theme.ModeLight
	ApplyClassToggle(doc.Root(), rec)

	body := doc.Find("body")
	assert.True(t, body.HasClass("light"))
	assert.False(t, body.HasClass("dark"))
}

func TestApplyAttributeToggle(t *testing.T) {
	doc := parseShell(t)
	rec := darkRecord()

	ApplyAttributeToggle(doc.AttributeTarget(rec.Preview.AttributeTargetSelector), rec)

	frame := doc.Find("#content-frame")
	require.NotNil(t, frame)
	assert.Equal(t, "night", frame.Attribute(theme.AttributeName))

	rec.Current = theme.ModeLight
	ApplyAttributeToggle(doc.AttributeTarget(rec.Preview.AttributeTargetSelector), rec)
	assert.Equal(t, "day", frame.Attribute(theme.AttributeName))
}

func TestApplicatorsNoOpOnMissingTargets(t *testing.T) {
	doc := parseShell(t)
	rec := darkRecord()

	// Selector matches nothing: no panic, no change.
	ApplyClassToggle(doc.ClassTarget("#nope"), rec)
	ApplyAttributeToggle(doc.AttributeTarget("#nope"), rec)

	// Nil targets entirely.
	ApplyClassToggle(nil, rec)
	ApplyAttributeToggle(nil, rec)

	// Absent preview config disables the attribute toggle.
	rec.Preview = nil
	ApplyAttributeToggle(doc.AttributeTarget("#content-frame"), rec)
	assert.Equal(t, "", doc.Find("#content-frame").Attribute(theme.AttributeName))
}

func TestFindSelectors(t *testing.T) {
	doc := parseShell(t)

	assert.NotNil(t, doc.Find("#content-frame"))
	assert.NotNil(t, doc.Find(".markdown-body"))
	assert.NotNil(t, doc.Find("article"))
	assert.Nil(t, doc.Find("#missing"))
	assert.Nil(t, doc.Find(".missing"))
	assert.Nil(t, doc.Find("nav"))
	assert.Nil(t, doc.Find(""))
}

func TestNilElementMethodsAreSafe(t *testing.T) {
	var e *Element
	e.AddClass("x")
	e.RemoveClass("x")
	e.SetAttribute("theme", "night")
	assert.False(t, e.HasClass("x"))
	assert.Equal(t, "", e.Attribute("theme"))
}
