package integration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bennypowers.dev/cte/internal/pipeline"
	"bennypowers.dev/cte/internal/theme"
	"bennypowers.dev/cte/internal/tokens"
	"bennypowers.dev/cte/test/integration/testutil"
)

// TestUnresolvedExternalReference leaves a reference to a foreign
// framework's variable untouched and classifies it as external.
func TestUnresolvedExternalReference(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"main.css": `@theme {
  --color-primary: var(--external-tw-accent);
}`,
	})

	res := testutil.Extract(t, dir, pipeline.Options{}, "main.css")

	require.Len(t, res.Unresolved, 1)
	u := res.Unresolved[0]
	assert.Equal(t, "--color-primary", u.VariableName)
	assert.Equal(t, "--external-tw-accent", u.ReferencedVariable)
	assert.Equal(t, tokens.CauseExternal, u.LikelyCause)
	assert.Equal(t, tokens.ScopeBase, u.Source)

	// The value carries through unchanged.
	assert.Equal(t, "var(--external-tw-accent)",
		testutil.Scalar(t, res.Base, theme.GroupColors, "primary"))
}

// TestUnresolvedClassification distinguishes unknown targets, fallback
// capture and the self-referential cycle stop.
func TestUnresolvedClassification(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"main.css": `@theme {
  --color-primary: var(--brand-missing);
  --color-surface: var(--color-muted, gray);
  --shadow-ring: 0 0 0 2px var(--shadow-ring);
}`,
	})

	res := testutil.Extract(t, dir, pipeline.Options{}, "main.css")

	byName := make(map[string]tokens.UnresolvedReference)
	for _, u := range res.Unresolved {
		byName[u.VariableName] = u
	}
	require.Len(t, byName, 3)

	assert.Equal(t, tokens.CauseUnknown, byName["--color-primary"].LikelyCause)

	surface := byName["--color-surface"]
	assert.Equal(t, tokens.CauseUnknown, surface.LikelyCause)
	assert.Equal(t, "gray", surface.FallbackValue)

	ring := byName["--shadow-ring"]
	assert.Equal(t, tokens.CauseSelfReferential, ring.LikelyCause)
	assert.Equal(t, "--shadow-ring", ring.ReferencedVariable)
}

// TestResolvedReferencesLeaveNoFindings: a fully resolvable set reports
// nothing and rerunning over its output changes nothing.
func TestResolvedReferencesLeaveNoFindings(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"main.css": `:root {
  --brand-hue: 220;
}
@theme {
  --color-primary: oklch(0.65 0.15 var(--brand-hue));
  --color-accent: var(--color-primary);
}`,
	})

	res := testutil.Extract(t, dir, pipeline.Options{}, "main.css")

	assert.Empty(t, res.Unresolved)
	assert.Equal(t, "oklch(0.65 0.15 220)", testutil.Scalar(t, res.Base, theme.GroupColors, "primary"))
	assert.Equal(t, "oklch(0.65 0.15 220)", testutil.Scalar(t, res.Base, theme.GroupColors, "accent"))

	for _, d := range res.Resolved {
		assert.False(t, tokens.ContainsReference(d.Value),
			"%s still references another variable: %s", d.Name, d.Value)
	}
}
