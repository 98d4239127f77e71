package notion

// RichText is one run of rich text; only the plain text is decoded.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// Option is a select or status option.
type Option struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Property kinds understood by this client.
const (
	KindTitle    = "title"
	KindRichText = "rich_text"
	KindSelect   = "select"
	KindStatus   = "status"
)

// Property is one entry of a page's property bag. Only the fields of the
// kinds above are decoded.
type Property struct {
	ID       string     `json:"id,omitempty"`
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Select   *Option    `json:"select,omitempty"`
	Status   *Option    `json:"status,omitempty"`
}

// Text returns the property's display value: the first text run for title
// and rich_text properties, the chosen option's name for select and status
// properties. It reports false for empty values and other kinds.
func (p Property) Text() (string, bool) {
	switch p.Type {
	case KindTitle:
		return firstRun(p.Title)
	case KindRichText:
		return firstRun(p.RichText)
	case KindSelect:
		return optionName(p.Select)
	case KindStatus:
		return optionName(p.Status)
	default:
		return "", false
	}
}

func firstRun(runs []RichText) (string, bool) {
	if len(runs) == 0 || runs[0].PlainText == "" {
		return "", false
	}
	return runs[0].PlainText, true
}

func optionName(o *Option) (string, bool) {
	if o == nil || o.Name == "" {
		return "", false
	}
	return o.Name, true
}

// Page is a database row.
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// QueryResult is one page of a database query. NextCursor is empty when
// there are no more results.
type QueryResult struct {
	Results    []Page `json:"results"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}
