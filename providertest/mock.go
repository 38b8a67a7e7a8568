// Package providertest implements an in-memory Provider for solver
// tests and the demo front-ends, grounded in the teacher's adjacency
// list graph (internal/graph/probabilistic_adjacency_list_graph.go):
// the same map-of-maps storage shape, specialised from probabilistic
// edges to wiki relations (links, transclusions, category membership,
// redirects).
package providertest

import (
	"context"
	"sort"
	"sync"

	"github.com/milkydeferwm/pagelistbot/provider"
	"github.com/milkydeferwm/pagelistbot/title"
)

// Mock is an in-memory Provider. It is safe for concurrent reads from
// multiple solver producers, matching the "shared read-only" contract
// of §5; mutation methods (Add*) are intended for test/fixture setup
// before any query runs.
type Mock struct {
	mu sync.RWMutex

	exists     map[string]title.Title
	links      map[string][]title.Title
	backlinks  map[string][]title.Title
	embeds     map[string][]title.Title
	embeddedBy map[string][]title.Title
	catMembers map[string][]provider.CategoryMember
	redirects  map[string]title.Title

	// notFound holds the raw titles for which NormaliseTitle reports a
	// NotFound ProviderError (see MarkNotFound).
	notFound map[string]struct{}
}

// New returns an empty mock wiki.
func New() *Mock {
	return &Mock{
		exists:     make(map[string]title.Title),
		links:      make(map[string][]title.Title),
		backlinks:  make(map[string][]title.Title),
		embeds:     make(map[string][]title.Title),
		embeddedBy: make(map[string][]title.Title),
		catMembers: make(map[string][]provider.CategoryMember),
		redirects:  make(map[string]title.Title),
		notFound:   make(map[string]struct{}),
	}
}

// AddPage registers t as an existing page.
func (m *Mock) AddPage(t title.Title) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists[t.Key()] = t
}

// AddLink records that from links to to (and registers both pages).
func (m *Mock) AddLink(from, to title.Title) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists[from.Key()] = from
	m.exists[to.Key()] = to
	m.links[from.Key()] = append(m.links[from.Key()], to)
	m.backlinks[to.Key()] = append(m.backlinks[to.Key()], from)
}

// AddEmbed records that from transcludes to.
func (m *Mock) AddEmbed(from, to title.Title) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists[from.Key()] = from
	m.exists[to.Key()] = to
	m.embeds[from.Key()] = append(m.embeds[from.Key()], to)
	m.embeddedBy[to.Key()] = append(m.embeddedBy[to.Key()], from)
}

// AddCategoryMember records that member belongs to category (member
// may itself be a subcategory, e.g. Category:Sub inside Category:Cats).
func (m *Mock) AddCategoryMember(category, member title.Title, isSubcat bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists[category.Key()] = category
	m.exists[member.Key()] = member
	m.catMembers[category.Key()] = append(m.catMembers[category.Key()], provider.CategoryMember{
		Title:    member,
		IsSubcat: isSubcat,
	})
}

// SetRedirect records that from is a redirect pointing at to.
func (m *Mock) SetRedirect(from, to title.Title) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exists[from.Key()] = from
	m.exists[to.Key()] = to
	m.redirects[from.Key()] = to
}

// MarkNotFound makes NormaliseTitle report NotFound for raw.
func (m *Mock) MarkNotFound(raw string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notFound[raw] = struct{}{}
}

// AllTitles returns every page registered in the mock, in canonical
// sort order. Used by the debug REPL's ".nodes" command and tests that
// want to assert on fixture contents.
func (m *Mock) AllTitles() []title.Title {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]title.Title, 0, len(m.exists))
	for _, t := range m.exists {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })
	return all
}

// Categories returns the category titles (as declared via
// AddCategoryMember) that t belongs to, in canonical sort order. Used
// by the debug REPL's ".cats(Title)" command.
func (m *Mock) Categories(t title.Title) []title.Title {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cats []title.Title
	for catKey, members := range m.catMembers {
		for _, member := range members {
			if member.Title.Equal(t) {
				cats = append(cats, m.exists[catKey])
				break
			}
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Less(cats[j]) })
	return cats
}

func dedupeTitles(in []title.Title) []title.Title {
	seen := make(map[string]struct{}, len(in))
	out := make([]title.Title, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t.Key()]; ok {
			continue
		}
		seen[t.Key()] = struct{}{}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (m *Mock) gather(index map[string][]title.Title, inputs []title.Title) []title.Title {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []title.Title
	for _, in := range inputs {
		all = append(all, index[in.Key()]...)
	}
	return dedupeTitles(all)
}

func (m *Mock) GetLinksOf(ctx context.Context, titles []title.Title) (provider.TitleStream, error) {
	return newSliceTitleStream(m.gather(m.links, titles)), nil
}

func (m *Mock) GetBacklinksOf(ctx context.Context, titles []title.Title, traceRedirects bool) (provider.TitleStream, error) {
	direct := m.gather(m.backlinks, titles)
	if !traceRedirects {
		return newSliceTitleStream(direct), nil
	}
	m.mu.RLock()
	var viaRedirect []title.Title
	for _, in := range titles {
		for key, target := range m.redirects {
			if target.Equal(in) {
				if orig, ok := m.exists[key]; ok {
					viaRedirect = append(viaRedirect, m.backlinks[orig.Key()]...)
				}
			}
		}
	}
	m.mu.RUnlock()
	return newSliceTitleStream(dedupeTitles(append(direct, viaRedirect...))), nil
}

func (m *Mock) GetEmbeddingsOf(ctx context.Context, titles []title.Title) (provider.TitleStream, error) {
	return newSliceTitleStream(m.gather(m.embeddedBy, titles)), nil
}

func (m *Mock) GetCategoryMembersOf(ctx context.Context, categories []title.Title) (provider.CategoryMemberStream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []provider.CategoryMember
	seen := make(map[string]struct{})
	for _, c := range categories {
		for _, member := range m.catMembers[c.Key()] {
			if _, ok := seen[member.Title.Key()]; ok {
				continue
			}
			seen[member.Title.Key()] = struct{}{}
			all = append(all, member)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title.Less(all[j].Title) })
	return newSliceCategoryStream(all), nil
}

func (m *Mock) GetPrefixMatchesOf(ctx context.Context, prefix title.Title) (provider.TitleStream, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matches []title.Title
	for _, t := range m.exists {
		if t.Namespace() == prefix.Namespace() && len(t.Base()) >= len(prefix.Base()) && t.Base()[:len(prefix.Base())] == prefix.Base() {
			matches = append(matches, t)
		}
	}
	return newSliceTitleStream(dedupeTitles(matches)), nil
}

func (m *Mock) ResolveRedirect(ctx context.Context, t title.Title) (title.Title, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	target, ok := m.redirects[t.Key()]
	return target, ok, nil
}

func (m *Mock) ClassifyRedirect(ctx context.Context, t title.Title) (provider.RedirectStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.redirects[t.Key()]; ok {
		return provider.IsRedirect, nil
	}
	if _, ok := m.exists[t.Key()]; ok {
		return provider.NotRedirect, nil
	}
	return provider.UnknownRedirectStatus, nil
}

func (m *Mock) CompanionNamespaceTitle(ctx context.Context, t title.Title) (title.Title, bool, error) {
	companion, ok := title.Companion(t)
	return companion, ok, nil
}

func (m *Mock) NormaliseTitle(ctx context.Context, raw string) (title.Title, error) {
	m.mu.RLock()
	_, missing := m.notFound[raw]
	m.mu.RUnlock()
	if missing {
		return title.Title{}, &provider.ProviderError{Kind: provider.NotFound, Message: "title not found: " + raw}
	}
	return title.Parse(raw), nil
}
