package theme

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	th := New()
	assert.Equal(t, 0, th.Len())
	for _, name := range GroupNames {
		g, ok := th.Group(name)
		require.True(t, ok, "group %q should be materialized", name)
		assert.Empty(t, g)
	}
	_, ok := th.Group("bogus")
	assert.False(t, ok)
}

func TestSetGet(t *testing.T) {
	th := New()
	th.Set(GroupSpacing, "4", Scalar("1rem"))
	v, ok := th.Get(GroupSpacing, "4")
	require.True(t, ok)
	assert.Equal(t, Scalar("1rem"), v)

	th.Set("bogus", "4", Scalar("1rem"))
	assert.Equal(t, 1, th.Len())

	_, ok = th.Get(GroupSpacing, "8")
	assert.False(t, ok)
}

func TestClone(t *testing.T) {
	th := New()
	th.Set(GroupColors, "primary", Scale{"500": "#3b82f6"})
	th.Set(GroupFontSize, "lg", FontSize{Size: "1.125rem", LineHeight: "1.75rem"})

	clone := th.Clone()
	scale, ok := clone.Get(GroupColors, "primary")
	require.True(t, ok)
	scale.(Scale)["500"] = "#000000"
	clone.Set(GroupFontSize, "lg", Scalar("2rem"))

	orig, ok := th.Get(GroupColors, "primary")
	require.True(t, ok)
	assert.Equal(t, "#3b82f6", orig.(Scale)["500"])
	fs, ok := th.Get(GroupFontSize, "lg")
	require.True(t, ok)
	assert.Equal(t, FontSize{Size: "1.125rem", LineHeight: "1.75rem"}, fs)
}

func TestMerge(t *testing.T) {
	t.Run("overlay wins per key", func(t *testing.T) {
		base := New()
		base.Set(GroupSpacing, "4", Scalar("1rem"))
		base.Set(GroupSpacing, "8", Scalar("2rem"))
		overlay := New()
		overlay.Set(GroupSpacing, "4", Scalar("1.25rem"))

		merged := Merge(base, overlay)
		v, _ := merged.Get(GroupSpacing, "4")
		assert.Equal(t, Scalar("1.25rem"), v)
		v, _ = merged.Get(GroupSpacing, "8")
		assert.Equal(t, Scalar("2rem"), v)
	})

	t.Run("scales merge per variant", func(t *testing.T) {
		base := New()
		base.Set(GroupColors, "primary", Scale{"100": "#dbeafe", "500": "#3b82f6"})
		overlay := New()
		overlay.Set(GroupColors, "primary", Scale{"500": "#2563eb", "900": "#1e3a8a"})

		merged := Merge(base, overlay)
		v, _ := merged.Get(GroupColors, "primary")
		assert.Equal(t, Scale{"100": "#dbeafe", "500": "#2563eb", "900": "#1e3a8a"}, v)
	})

	t.Run("overlay scalar replaces base scale", func(t *testing.T) {
		base := New()
		base.Set(GroupColors, "primary", Scale{"500": "#3b82f6"})
		overlay := New()
		overlay.Set(GroupColors, "primary", Scalar("#2563eb"))

		merged := Merge(base, overlay)
		v, _ := merged.Get(GroupColors, "primary")
		assert.Equal(t, Scalar("#2563eb"), v)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		base := New()
		base.Set(GroupColors, "primary", Scale{"500": "#3b82f6"})
		overlay := New()
		overlay.Set(GroupColors, "primary", Scale{"500": "#2563eb"})

		Merge(base, overlay)
		v, _ := base.Get(GroupColors, "primary")
		assert.Equal(t, "#3b82f6", v.(Scale)["500"])
	})

	t.Run("nil safe", func(t *testing.T) {
		overlay := New()
		overlay.Set(GroupSpacing, "4", Scalar("1rem"))
		assert.Equal(t, 1, Merge(nil, overlay).Len())
		assert.Equal(t, 1, Merge(overlay, nil).Len())
		assert.Equal(t, 0, Merge(nil, nil).Len())
	})
}

func TestLookup(t *testing.T) {
	th := New()
	th.Set(GroupSpacing, "4", Scalar("1rem"))
	th.Set(GroupColors, "primary", Scale{"500": "#3b82f6"})
	th.Set(GroupFontSize, "lg", FontSize{Size: "1.125rem", LineHeight: "1.75rem"})
	th.Set(GroupFontSize, "xs", FontSize{Size: "0.75rem"})

	for _, tt := range []struct {
		name string
		path []string
		want Value
		ok   bool
	}{
		{"scalar leaf", []string{"spacing", "4"}, Scalar("1rem"), true},
		{"scale leaf", []string{"colors", "primary"}, Scale{"500": "#3b82f6"}, true},
		{"scale variant", []string{"colors", "primary", "500"}, Scalar("#3b82f6"), true},
		{"font size", []string{"fontSize", "lg", "size"}, Scalar("1.125rem"), true},
		{"font line height", []string{"fontSize", "lg", "lineHeight"}, Scalar("1.75rem"), true},
		{"missing line height", []string{"fontSize", "xs", "lineHeight"}, nil, false},
		{"missing variant", []string{"colors", "primary", "300"}, nil, false},
		{"missing key", []string{"spacing", "9"}, nil, false},
		{"missing group", []string{"bogus", "4"}, nil, false},
		{"too short", []string{"spacing"}, nil, false},
		{"too long", []string{"colors", "primary", "500", "x"}, nil, false},
		{"subkey on scalar", []string{"spacing", "4", "x"}, nil, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := th.Lookup(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestSetPath(t *testing.T) {
	fresh := func() *Theme {
		th := New()
		th.Set(GroupSpacing, "4", Scalar("1rem"))
		th.Set(GroupColors, "primary", Scale{"500": "#3b82f6"})
		th.Set(GroupFontSize, "lg", FontSize{Size: "1.125rem", LineHeight: "1.75rem"})
		th.Set(GroupFontSize, "xs", FontSize{Size: "0.75rem"})
		return th
	}

	t.Run("replaces scalar leaf", func(t *testing.T) {
		th := fresh()
		require.True(t, th.SetPath([]string{"spacing", "4"}, "1.25rem", false))
		v, _ := th.Get(GroupSpacing, "4")
		assert.Equal(t, Scalar("1.25rem"), v)
	})

	t.Run("never creates paths", func(t *testing.T) {
		th := fresh()
		assert.False(t, th.SetPath([]string{"spacing", "9"}, "3rem", false))
		assert.False(t, th.SetPath([]string{"spacing", "9"}, "3rem", true))
		assert.False(t, th.SetPath([]string{"colors", "primary", "300"}, "#93c5fd", true))
		_, ok := th.Get(GroupSpacing, "9")
		assert.False(t, ok)
	})

	t.Run("composite leaf needs force", func(t *testing.T) {
		th := fresh()
		assert.False(t, th.SetPath([]string{"colors", "primary"}, "#2563eb", false))
		require.True(t, th.SetPath([]string{"colors", "primary"}, "#2563eb", true))
		v, _ := th.Get(GroupColors, "primary")
		assert.Equal(t, Scalar("#2563eb"), v)
	})

	t.Run("existing scale variant without force", func(t *testing.T) {
		th := fresh()
		require.True(t, th.SetPath([]string{"colors", "primary", "500"}, "#2563eb", false))
		v, _ := th.Lookup([]string{"colors", "primary", "500"})
		assert.Equal(t, Scalar("#2563eb"), v)
	})

	t.Run("font size fields", func(t *testing.T) {
		th := fresh()
		require.True(t, th.SetPath([]string{"fontSize", "lg", "size"}, "1.25rem", false))
		require.True(t, th.SetPath([]string{"fontSize", "lg", "lineHeight"}, "2rem", false))
		v, _ := th.Get(GroupFontSize, "lg")
		assert.Equal(t, FontSize{Size: "1.25rem", LineHeight: "2rem"}, v)

		assert.False(t, th.SetPath([]string{"fontSize", "xs", "lineHeight"}, "1rem", false),
			"absent line height is not created")
	})
}

func TestMarshalJSON(t *testing.T) {
	th := New()
	th.Set(GroupColors, "primary", Scale{"900": "#1e3a8a", "50": "#eff6ff", "500": "#3b82f6", "DEFAULT": "#3b82f6"})
	th.Set(GroupSpacing, "4", Scalar("1rem"))
	th.Set(GroupFontSize, "lg", FontSize{Size: "1.125rem", LineHeight: "1.75rem"})
	th.Set(GroupFontSize, "xs", FontSize{Size: "0.75rem"})

	data, err := json.Marshal(th)
	require.NoError(t, err)
	got := string(data)

	t.Run("omits empty groups", func(t *testing.T) {
		assert.NotContains(t, got, `"boxShadow"`)
		assert.NotContains(t, got, `"keyframes"`)
	})

	t.Run("groups in canonical order", func(t *testing.T) {
		assert.Less(t, strings.Index(got, `"colors"`), strings.Index(got, `"spacing"`))
		assert.Less(t, strings.Index(got, `"spacing"`), strings.Index(got, `"fontSize"`))
	})

	t.Run("numeric scale keys first, ascending", func(t *testing.T) {
		assert.Contains(t, got, `"primary":{"50":"#eff6ff","500":"#3b82f6","900":"#1e3a8a","DEFAULT":"#3b82f6"}`)
	})

	t.Run("font size shape", func(t *testing.T) {
		assert.Contains(t, got, `"lg":{"size":"1.125rem","lineHeight":"1.75rem"}`)
		assert.Contains(t, got, `"xs":{"size":"0.75rem"}`)
	})
}
