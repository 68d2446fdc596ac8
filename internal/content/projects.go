package content

import "github.com/portfolio/internal/db"

// InteractiveDemoProject is the synthetic entry shown when the store has no
// interactive demo of its own.
func InteractiveDemoProject() db.Project {
	return db.Project{
		Base:        db.Base{ID: InteractiveDemoID},
		Title:       "Interactive ML Dashboard",
		Description: "Machine learning playground",
		ImageURL:    "https://images.unsplash.com/photo-1555949963-aa79dcee981c?w=800",
		Details: "Explore supervised and unsupervised learning in the browser: " +
			"linear regression, random forest, k-means clustering and PCA on synthetic data, " +
			"each with the scikit-learn snippet that produces it.",
		Variant: string(VariantInteractiveDemo),
	}
}

// ReconcileProjects produces the display list from the raw, created_at
// descending rows. Every entry comes back with its resolved variant filled in;
// interactive demo entries move to the front, everything else keeps its order.
// The synthetic demo is prepended only when no row already is one, so running
// the result through again changes nothing.
func ReconcileProjects(raw []db.Project) []db.Project {
	demos := make([]db.Project, 0, 1)
	rest := make([]db.Project, 0, len(raw))

	for _, p := range raw {
		p.Variant = string(Classify(p))
		if Variant(p.Variant) == VariantInteractiveDemo {
			demos = append(demos, p)
			continue
		}
		rest = append(rest, p)
	}

	if len(demos) == 0 {
		demos = append(demos, InteractiveDemoProject())
	}

	return append(demos, rest...)
}
