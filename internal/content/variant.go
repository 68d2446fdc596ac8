// Package content turns raw project and skill rows into the lists the site
// displays: it guarantees the interactive demo project, classifies each
// project's render variant and groups skills, falling back to a fixed catalog
// when the store has too few.
package content

import (
	"strings"

	"github.com/portfolio/internal/db"
)

// Variant selects how a project is rendered.
type Variant string

const (
	VariantStandard        Variant = "standard"
	VariantInteractiveDemo Variant = "interactive-demo"
	VariantSystemDiagram   Variant = "embedded-system-diagram"
	VariantLegacySite      Variant = "external-legacy-site"
)

// Reserved project IDs recognised by the classifier.
const (
	InteractiveDemoID = "interactive_ml"
	SystemDiagramID   = "ecommerce_v2"
	LegacySiteID      = "portfolio_v1"
)

var (
	demoTitleTerms    = []string{"interactive ml", "machine learning"}
	diagramTitleTerms = []string{"e-commerce", "ecommerce", "toko", "shop", "market"}
	// English and Indonesian markers for an older site.
	legacyTitleTerms = []string{"legacy", "portfolio v1", "old", "sebelumnya", "lama"}
	legacyDescTerms  = []string{"previous"}
)

// Variants lists every variant in classification order.
func Variants() []Variant {
	return []Variant{VariantInteractiveDemo, VariantSystemDiagram, VariantLegacySite, VariantStandard}
}

// ParseVariant accepts a variant name in any case; ok is false for anything unknown.
func ParseVariant(raw string) (Variant, bool) {
	candidate := Variant(strings.ToLower(strings.TrimSpace(raw)))
	for _, v := range Variants() {
		if candidate == v {
			return v, true
		}
	}
	return "", false
}

// ClassifyHeuristic derives a variant from the reserved ID and free text.
// The first matching rule wins; empty fields never match.
func ClassifyHeuristic(id, title, description string) Variant {
	t := strings.ToLower(title)
	d := strings.ToLower(description)

	switch {
	case id == InteractiveDemoID || containsAny(t, demoTitleTerms):
		return VariantInteractiveDemo
	case id == SystemDiagramID || containsAny(t, diagramTitleTerms):
		return VariantSystemDiagram
	case id == LegacySiteID || containsAny(t, legacyTitleTerms) || containsAny(d, legacyDescTerms):
		return VariantLegacySite
	default:
		return VariantStandard
	}
}

var reservedVariants = map[string]Variant{
	InteractiveDemoID: VariantInteractiveDemo,
	SystemDiagramID:   VariantSystemDiagram,
	LegacySiteID:      VariantLegacySite,
}

// Classify resolves a project's variant. Reserved IDs always map to their own
// variant; otherwise a valid stored variant wins and the heuristic only covers
// rows that predate explicit variants.
func Classify(p db.Project) Variant {
	if v, ok := reservedVariants[p.ID]; ok {
		return v
	}
	if v, ok := ParseVariant(p.Variant); ok {
		return v
	}
	return ClassifyHeuristic(p.ID, p.Title, p.Description)
}

func containsAny(haystack string, needles []string) bool {
	if haystack == "" {
		return false
	}
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
