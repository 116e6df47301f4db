// Package project defines the Project Record written to the portfolio
// artifact, and the catalog operations the site performs on it.
package project

import (
	"encoding/json"

	"github.com/teranos/folio/errors"
)

// Status values accepted by the schema.
const (
	StatusLive         = "live"
	StatusWIP          = "wip"
	StatusExperimental = "experimental"
	StatusArchived     = "archived"
)

// LinkKeys lists the link kinds in display order.
var LinkKeys = []string{"live", "repo", "docs", "demo", "post", "video"}

// Project is one validated presentation: its front-matter plus the markdown body.
//
// Links keeps explicit nulls. Other nullable scalars are written as absent
// keys when null.
type Project struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Tagline    string   `json:"tagline"`
	Status     string   `json:"status"`
	Visibility string   `json:"visibility"`
	Tags       []string `json:"tags"`
	Stack      []string `json:"stack"`

	Role        string             `json:"role,omitempty"`
	Timeframe   *Timeframe         `json:"timeframe,omitempty"`
	Featured    *bool              `json:"featured,omitempty"`
	Metrics     *Metrics           `json:"metrics,omitempty"`
	Links       map[string]*string `json:"links,omitempty"`
	Media       *Media             `json:"media,omitempty"`
	Origin      string             `json:"origin,omitempty"`
	Attribution *Attribution       `json:"attribution,omitempty"`
	TOC         *bool              `json:"toc,omitempty"`

	Markdown string `json:"markdown"`
}

type Timeframe struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type Metrics struct {
	Users          *float64 `json:"users,omitempty"`
	RequestsPerDay *float64 `json:"requests_per_day,omitempty"`
	LatencyMSP95   *float64 `json:"latency_ms_p95,omitempty"`
	Uptime         *string  `json:"uptime,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

// Media keeps an empty gallery as [], a null gallery is dropped.
type Media struct {
	CoverImage *string   `json:"cover_image,omitempty"`
	Gallery    *[]string `json:"gallery,omitempty"`
}

type Attribution struct {
	Ownership   string       `json:"ownership,omitempty"`
	Context     string       `json:"context,omitempty"`
	MyRole      string       `json:"my_role,omitempty"`
	TeamSize    *int         `json:"team_size,omitempty"`
	Permissions *Permissions `json:"permissions,omitempty"`
}

type Permissions struct {
	CodePublic        *bool  `json:"code_public,omitempty"`
	ScreenshotsPublic *bool  `json:"screenshots_public,omitempty"`
	DiscussionLevel   string `json:"discussion_level,omitempty"`
}

// Link is a present (non-null) project link.
type Link struct {
	Kind string
	URL  string
}

// FromMetadata builds a record from validated front-matter and its body.
func FromMetadata(metadata map[string]interface{}, markdown string) (Project, error) {
	data, err := json.Marshal(metadata)
	if err != nil {
		return Project{}, errors.Wrap(err, "failed to encode metadata")
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, errors.Wrap(err, "failed to decode metadata into project")
	}
	p.Markdown = markdown
	return p, nil
}

// IsFeatured reports whether featured is set and true.
func (p Project) IsFeatured() bool {
	return p.Featured != nil && *p.Featured
}

// Start returns timeframe.start, or "" when there is no timeframe.
func (p Project) Start() string {
	if p.Timeframe == nil {
		return ""
	}
	return p.Timeframe.Start
}

// HasTag reports whether p carries tag.
func (p Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PresentLinks returns non-null links, known kinds first in LinkKeys order.
func (p Project) PresentLinks() []Link {
	var links []Link
	seen := make(map[string]bool, len(LinkKeys))
	for _, kind := range LinkKeys {
		seen[kind] = true
		if u := p.Links[kind]; u != nil {
			links = append(links, Link{Kind: kind, URL: *u})
		}
	}
	for _, kind := range sortedKeys(p.Links) {
		if seen[kind] {
			continue
		}
		if u := p.Links[kind]; u != nil {
			links = append(links, Link{Kind: kind, URL: *u})
		}
	}
	return links
}
