package listing

// Dataset names used in page paths and fragment routes.
const (
	Publications = "publications"
	Projects     = "projects"
	Speaking     = "speaking"
	Media        = "media"
)

// publicationAliases is kept exactly as the historical data names it.
// "Public Scholarship" mapping to itself is intentional.
var publicationAliases = AliasTable{
	"Journal Article":      "Peer-Reviewed Journal Article",
	"Book Chapter":         "Peer-Reviewed Book Chapter",
	"Professional Article": "Professional Journal Article",
	"Public Scholarship":   "Public Scholarship",
}

const (
	awardFragment = `<p class="pub-award">{{.Award}}</p>`
	citationPlain = `<p class="pub-citation">{{.Authors}} ({{.Year}}). {{.Title}}. {{.Venue}}.</p>`
	citationVenue = `<p class="pub-citation">{{.Authors}} ({{.Year}}). {{.Title}}. <em>{{.Venue}}</em>{{with .Volume}}, {{.}}{{end}}.</p>`
)

func pubLink(label string) Fragment {
	return When("Link", `<a href="{{.Link}}" class="pub-link" target="_blank">`+label+` →</a>`)
}

func publications() Dataset {
	return Dataset{
		Name:          Publications,
		File:          "publications-template.csv",
		Container:     ".publications-list",
		CategoryField: "Type",
		Grouping:      publicationAliases,
		Layout: Layout{
			Category: "pub-category",
			Title:    "pub-category-title",
			Inner:    "publications-list-inner",
			Item:     "publication-item",
		},
		Buckets: []Bucket{
			{
				Key:     "Book",
				Heading: "Books",
				Item: []Fragment{
					Always(`<p class="pub-citation">{{.Authors}} ({{.Year}}). <em>{{.Title}}</em>. {{.Venue}}.</p>`),
					When("Award", awardFragment),
					pubLink("View Book"),
				},
			},
			{
				Key:     "Peer-Reviewed Journal Article",
				Heading: "Peer-Reviewed Journal Articles",
				Item:    []Fragment{Always(citationVenue), When("Award", awardFragment), pubLink("Read Article")},
			},
			{
				Key:     "Peer-Reviewed Book Chapter",
				Heading: "Peer-Reviewed Book Chapters",
				Item: []Fragment{
					Always(`<p class="pub-citation">{{.Authors}} ({{.Year}}). {{.Title}}. In <em>{{.Venue}}</em>.</p>`),
					When("Award", awardFragment),
					pubLink("Read Chapter"),
				},
			},
			{
				Key:     "Professional Journal Article",
				Heading: "Professional Journal Articles",
				Item:    []Fragment{Always(citationVenue), pubLink("Read Article")},
			},
			{
				Key:     "Research Report",
				Heading: "Research Reports",
				Item:    []Fragment{Always(citationPlain), pubLink("Read Report")},
			},
			{
				Key:     "Public Scholarship",
				Heading: "Public Scholarship",
				Item: []Fragment{
					Always(`<p class="pub-citation">{{.Authors}} ({{.Year}}). {{.Title}}. <em>{{.Venue}}</em>.</p>`),
					pubLink("Read Article"),
				},
			},
		},
	}
}

func projects() Dataset {
	return Dataset{
		Name:      Projects,
		File:      "projects-template.csv",
		Container: ".projects-grid",
		Layout:    Layout{Item: "project-card"},
		Buckets: []Bucket{{
			Key: Projects,
			Item: []Fragment{
				Always(`<div class="project-header"><span class="project-status {{lower .Status}}">{{.Status}}</span>` +
					`<span class="project-date">{{.StartDate}}{{if .EndDate}} - {{.EndDate}}{{else}} - Present{{end}}</span></div>`),
				Always(`<h3 class="project-title">{{.Title}}</h3>`),
				Always(`<p class="project-role">{{.Role}}</p>`),
				Always(`<p class="project-description">{{.Description}}</p>`),
				When("Funding", `<p class="project-funding">💰 {{.Funding}}</p>`),
				When("Funder", `<p class="project-funder">Funded by: {{.Funder}}</p>`),
				When("Partners", `<p class="project-partners">Partners: {{.Partners}}</p>`),
				When("Link", `<a href="{{.Link}}" class="project-link" target="_blank">Learn More →</a>`),
			},
		}},
	}
}

const (
	talkHeader       = `<p class="presentation-date">{{.Date}}</p><h3 class="presentation-title">{{.Title}}</h3><p class="presentation-venue">{{.Venue}}, {{.Location}}</p>`
	talkCopresenters = `<p class="presentation-coauthors">With {{.Copresenters}}</p>`
)

func speaking() Dataset {
	return Dataset{
		Name:          Speaking,
		File:          "speaking-template.csv",
		Container:     ".presentations-list",
		CategoryField: "Type",
		Grouping:      Split{Match: []string{"Keynote", "Grand Session"}, Matched: "keynote", Rest: "talk"},
		Layout: Layout{
			Category: "speaking-category",
			Title:    "speaking-category-title",
			Inner:    "presentations-list-inner",
			Item:     "presentation-item",
		},
		Buckets: []Bucket{
			{
				Key:     "keynote",
				Heading: "Keynote Presentations",
				Item: []Fragment{
					Always(talkHeader),
					When("Copresenters", talkCopresenters),
					Always(`<span class="presentation-badge">{{.Type}}</span>`),
					When("Link", `<br><a href="{{.Link}}" class="pub-link" target="_blank">Watch Recording →</a>`),
				},
			},
			{
				Key:     "talk",
				Heading: "Recent Invited Talks & Webinars",
				Item: []Fragment{
					Always(talkHeader),
					When("Copresenters", talkCopresenters),
					When("Link", `<a href="{{.Link}}" class="pub-link" target="_blank">Watch Recording →</a>`),
				},
			},
		},
	}
}

func media() Dataset {
	return Dataset{
		Name:      Media,
		File:      "media-template.csv",
		Container: ".media-grid",
		Layout:    Layout{Item: "media-card"},
		Buckets: []Bucket{{
			Key: Media,
			Item: []Fragment{
				Always(`<div class="media-type">{{.Type}}</div>`),
				Always(`<h3 class="media-title">{{.Title}}</h3>`),
				Always(`<p class="media-source">{{.Source}}, {{.Date}}</p>`),
				When("Author", `<p class="media-author">{{.Author}}</p>`),
				When("Award", `<p class="media-award">{{.Award}}</p>`),
				When("Link", `<a href="{{.Link}}" class="media-link" target="_blank">View →</a>`),
			},
		}},
	}
}

// Datasets returns the built-in datasets in page dispatch order.
func Datasets() []Dataset {
	return []Dataset{publications(), projects(), speaking(), media()}
}

// Lookup returns the built-in dataset called name.
func Lookup(name string) (Dataset, bool) {
	for _, ds := range Datasets() {
		if ds.Name == name {
			return ds, true
		}
	}
	return Dataset{}, false
}
