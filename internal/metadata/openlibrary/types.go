package openlibrary

// Metadata is a fully resolved book record.
// Resolution is all-or-nothing: callers either get a populated Metadata
// or an error, never a partial best-effort mix of the two lookup paths.
type Metadata struct {
	ISBN          string   `json:"isbn"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors,omitempty"`
	CoverURL      string   `json:"cover_url,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedYear *int     `json:"published_year,omitempty"`
	PageCount     *int     `json:"page_count,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// editionResponse is the raw shape of /isbn/{isbn}.json.
// Description is either a plain string or {"type": ..., "value": string};
// it is decoded as any and normalized later.
type editionResponse struct {
	Title         string         `json:"title"`
	Authors       []authorRef    `json:"authors"`
	Covers        []int64        `json:"covers"`
	Publishers    []string       `json:"publishers"`
	PublishDate   string         `json:"publish_date"`
	NumberOfPages int            `json:"number_of_pages"`
	Description   any            `json:"description"`
}

// authorRef points at an author record, e.g. {"key": "/authors/OL23919A"}.
type authorRef struct {
	Key string `json:"key"`
}

// authorResponse is the raw shape of {key}.json for an author.
type authorResponse struct {
	Name string `json:"name"`
}

// searchResponse is the raw shape of /search.json.
type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

// searchDoc is a single search result document. The search index carries
// aggregate fields (first publish year, median pages) and no description.
type searchDoc struct {
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	CoverI              int64    `json:"cover_i"`
	Publisher           []string `json:"publisher"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
}
