package providertest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/milkydeferwm/pagelistbot/title"
)

// fixturePage is the JSON shape of one page in a fixture file, the
// wiki-domain analogue of the teacher's serializedNode/serializedEdge
// (internal/serialization/serialization.go): a flat, inspectable
// description of one graph vertex and its outgoing relations.
type fixturePage struct {
	Title      string   `json:"title"`
	Links      []string `json:"links,omitempty"`
	Embeds     []string `json:"embeds,omitempty"`
	Categories []string `json:"categories,omitempty"`
	RedirectTo string   `json:"redirectTo,omitempty"`
}

type fixtureFile struct {
	Pages []fixturePage `json:"pages"`
}

// LoadJSON builds a Mock from a JSON fixture describing pages, their
// outgoing links/transclusions/category memberships, and any redirect
// target. Category membership is expressed from the member's side
// ("categories") rather than the category's side, mirroring how a
// real MediaWiki page declares its own categories.
func LoadJSON(r io.Reader) (*Mock, error) {
	var f fixtureFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("providertest: decode fixture: %w", err)
	}
	return buildFromFixture(f)
}

// LoadJSONFile is LoadJSON for a path on disk.
func LoadJSONFile(path string) (*Mock, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("providertest: open fixture: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

func buildFromFixture(f fixtureFile) (*Mock, error) {
	m := New()
	for _, p := range f.Pages {
		pageTitle := title.Parse(p.Title)
		m.AddPage(pageTitle)

		for _, l := range p.Links {
			m.AddLink(pageTitle, title.Parse(l))
		}
		for _, e := range p.Embeds {
			m.AddEmbed(pageTitle, title.Parse(e))
		}
		for _, c := range p.Categories {
			catTitle := title.New(title.NSCategory, c)
			m.AddCategoryMember(catTitle, pageTitle, pageTitle.Namespace() == title.NSCategory)
		}
		if p.RedirectTo != "" {
			m.SetRedirect(pageTitle, title.Parse(p.RedirectTo))
		}
	}
	return m, nil
}
