package project

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Tags returns every tag used by projects, sorted and deduplicated.
func Tags(projects []Project) []string {
	set := make(map[string]struct{})
	for _, p := range projects {
		for _, t := range p.Tags {
			set[t] = struct{}{}
		}
	}

	tags := make([]string, 0, len(set))
	for t := range set {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// Filter returns the projects carrying every tag in tags, in input order.
// No tags selects everything.
func Filter(projects []Project, tags []string) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		match := true
		for _, t := range tags {
			if !p.HasTag(t) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
		}
	}
	return out
}

// Sort returns a sorted copy: featured first, then most recent
// timeframe.start (missing start last), then title in collation order.
func Sort(projects []Project) []Project {
	out := make([]Project, len(projects))
	copy(out, projects)

	titles := collate.New(language.Und)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsFeatured() != b.IsFeatured() {
			return a.IsFeatured()
		}
		if a.Start() != b.Start() {
			return a.Start() > b.Start()
		}
		return titles.CompareString(a.Title, b.Title) < 0
	})
	return out
}

// Find returns the project with the given id.
func Find(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// DuplicateIDs returns ids used by more than one project, sorted.
func DuplicateIDs(projects []Project) []string {
	counts := make(map[string]int, len(projects))
	for _, p := range projects {
		counts[p.ID]++
	}

	var dups []string
	for id, n := range counts {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

// CountLabel renders "N projects" or "N of M projects" when filtered.
func CountLabel(shown, total int) string {
	if shown == total {
		return fmt.Sprintf("%d projects", total)
	}
	return fmt.Sprintf("%d of %d projects", shown, total)
}

func sortedKeys(m map[string]*string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
