package content

import (
	"sort"
	"strings"

	"github.com/portfolio/internal/db"
)

// Skill categories in display order.
const (
	CategoryFrontend = "frontend"
	CategoryBackend  = "backend"
	CategoryDatabase = "database"
	CategoryTools    = "tools"
)

// MinStoredSkills is the smallest stored list shown as-is; anything shorter is
// replaced by the fallback catalog.
const MinStoredSkills = 5

var categoryOrder = []string{CategoryFrontend, CategoryBackend, CategoryDatabase, CategoryTools}

// SkillGroup is one rendered category section.
type SkillGroup struct {
	Category string     `json:"category"`
	Skills   []db.Skill `json:"skills"`
}

// SkillCatalog is the grouped skill list; Fallback reports whether the stored
// rows were discarded.
type SkillCatalog struct {
	Groups   []SkillGroup `json:"groups"`
	Fallback bool         `json:"fallback"`
}

// Len counts skills across all groups.
func (c SkillCatalog) Len() int {
	total := 0
	for _, g := range c.Groups {
		total += len(g.Skills)
	}
	return total
}

// FallbackSkills returns the fixed 16-entry catalog, four per category.
func FallbackSkills() []db.Skill {
	type entry struct {
		name, category, icon string
		level                int
	}
	entries := []entry{
		{"React", CategoryFrontend, "devicon-react-original", 90},
		{"Next.js", CategoryFrontend, "devicon-nextjs-plain", 85},
		{"Tailwind CSS", CategoryFrontend, "devicon-tailwindcss-plain", 85},
		{"TypeScript", CategoryFrontend, "devicon-typescript-plain", 80},
		{"Node.js", CategoryBackend, "devicon-nodejs-plain", 85},
		{"PHP", CategoryBackend, "devicon-php-plain", 80},
		{"Python", CategoryBackend, "devicon-python-plain", 75},
		{"Go", CategoryBackend, "devicon-go-original-wordmark", 70},
		{"PostgreSQL", CategoryDatabase, "devicon-postgresql-plain", 80},
		{"MySQL", CategoryDatabase, "devicon-mysql-plain", 80},
		{"Supabase", CategoryDatabase, "devicon-supabase-plain", 75},
		{"MongoDB", CategoryDatabase, "devicon-mongodb-plain", 70},
		{"Git", CategoryTools, "devicon-git-plain", 90},
		{"Figma", CategoryTools, "devicon-figma-plain", 80},
		{"Docker", CategoryTools, "devicon-docker-plain", 75},
		{"VS Code", CategoryTools, "devicon-vscode-plain", 75},
	}

	skills := make([]db.Skill, 0, len(entries))
	for _, e := range entries {
		skills = append(skills, db.Skill{
			Base:     db.Base{ID: "fallback-" + slug(e.name)},
			Name:     e.name,
			Category: e.category,
			IconURL:  e.icon,
			Level:    e.level,
		})
	}
	return skills
}

// ReconcileSkills groups skills by category for display. Lists shorter than
// MinStoredSkills are discarded in favour of FallbackSkills. Empty categories
// default to frontend; groups follow the fixed category order, then any other
// category alphabetically; empty groups are omitted.
func ReconcileSkills(raw []db.Skill) SkillCatalog {
	source := raw
	fallback := false
	if len(raw) < MinStoredSkills {
		source = FallbackSkills()
		fallback = true
	}

	byCategory := make(map[string][]db.Skill)
	for _, s := range source {
		category := strings.TrimSpace(s.Category)
		if category == "" {
			category = CategoryFrontend
		}
		s.Category = category
		byCategory[category] = append(byCategory[category], s)
	}

	groups := make([]SkillGroup, 0, len(byCategory))
	for _, category := range orderedCategories(byCategory) {
		skills := byCategory[category]
		sort.SliceStable(skills, func(i, j int) bool { return skills[i].Level > skills[j].Level })
		groups = append(groups, SkillGroup{Category: category, Skills: skills})
	}

	return SkillCatalog{Groups: groups, Fallback: fallback}
}

func orderedCategories(byCategory map[string][]db.Skill) []string {
	ordered := make([]string, 0, len(byCategory))
	fixed := make(map[string]bool, len(categoryOrder))
	for _, category := range categoryOrder {
		fixed[category] = true
		if len(byCategory[category]) > 0 {
			ordered = append(ordered, category)
		}
	}

	extra := make([]string, 0)
	for category, skills := range byCategory {
		if !fixed[category] && len(skills) > 0 {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)

	return append(ordered, extra...)
}

func slug(name string) string {
	replacer := strings.NewReplacer(" ", "-", ".", "")
	return strings.ToLower(replacer.Replace(name))
}
