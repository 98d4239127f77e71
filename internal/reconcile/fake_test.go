package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jward/resolverstatus/internal/notion"
)

type update struct {
	PageID, Property, Kind, Name string
}

// fakeDB serves pages in chunks and applies updates to its own state so
// repeated reconciliations observe earlier writes.
type fakeDB struct {
	pages    []notion.Page
	pageSize int
	failIDs  map[string]bool
	queryErr error
	updates  []update
	queries  int
}

func (f *fakeDB) Query(ctx context.Context, cursor string) (*notion.QueryResult, error) {
	f.queries++
	if f.queryErr != nil && cursor != "" {
		return nil, f.queryErr
	}
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		start = n
	}
	size := f.pageSize
	if size == 0 {
		size = len(f.pages) + 1
	}
	end := min(start+size, len(f.pages))
	res := &notion.QueryResult{Results: append([]notion.Page(nil), f.pages[start:end]...)}
	if end < len(f.pages) {
		res.NextCursor = strconv.Itoa(end)
		res.HasMore = true
	}
	return res, nil
}

func (f *fakeDB) UpdateOption(ctx context.Context, pageID, property, kind, name string) error {
	f.updates = append(f.updates, update{pageID, property, kind, name})
	if f.failIDs[pageID] {
		return errors.New("boom")
	}
	for i, p := range f.pages {
		if p.ID != pageID {
			continue
		}
		prop := notion.Property{Type: kind}
		if kind == notion.KindSelect {
			prop.Select = &notion.Option{Name: name}
		} else {
			prop.Status = &notion.Option{Name: name}
		}
		f.pages[i].Properties[property] = prop
	}
	return nil
}

func title(s string) notion.Property {
	return notion.Property{Type: notion.KindTitle, Title: []notion.RichText{{PlainText: s}}}
}

func selectProp(s string) notion.Property {
	return notion.Property{Type: notion.KindSelect, Select: &notion.Option{Name: s}}
}

func statusProp(s string) notion.Property {
	return notion.Property{Type: notion.KindStatus, Status: &notion.Option{Name: s}}
}

func page(id, name, typ string, status notion.Property) notion.Page {
	props := map[string]notion.Property{}
	if name != "" {
		props["Name"] = title(name)
	}
	if typ != "" {
		props["Type"] = selectProp(typ)
	}
	if status.Type != "" {
		props["Status"] = status
	}
	return notion.Page{ID: id, Properties: props}
}
