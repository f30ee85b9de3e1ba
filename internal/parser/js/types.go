package js

// Segment represents a literal text segment from a template string,
// between ${...} expression boundaries
type Segment struct {
	// Content is the literal text of this segment
	Content string
	// Line is the 0-based line in the JS/TS source where this segment begins
	Line uint32
	// Column is the 0-based column in the JS/TS source where this segment begins
	Column uint32
}

// TemplateRegion represents a tagged template literal found in JS/TS source
type TemplateRegion struct {
	// Segments contains the literal text parts of the template, split at ${...} boundaries
	Segments []Segment
	// Tag is the template tag function name ("css" or "html")
	Tag string
}

// Region is a span of CSS text recovered from a tagged template, with its
// position mapped back to the JS/TS source.
type Region struct {
	// Content is the verbatim CSS text.
	Content string
	// Line is the 0-based line in the JS/TS source where the region starts.
	Line uint32
	// Column is the 0-based column in the JS/TS source where the region starts.
	Column uint32
}
