package testsupport

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"wikiepisodes/internal/mediawiki"
)

// FakeWiki is an in-memory mediawiki.Fetcher. Unknown pages answer with a
// missingtitle API error. Section indexes are checked like the live API:
// malformed ones such as "-1" get invalidsection, unknown ones nosuchsection.
type FakeWiki struct {
	mu     sync.Mutex
	pages  map[string]*FakePage
	errs   map[string]error
	calls  map[string]int
	byPage map[string]int
}

// FakePage holds the table of contents, links and markup of one page.
type FakePage struct {
	sections []mediawiki.Section
	links    map[mediawiki.SectionIndex][]mediawiki.Link
	wikitext map[mediawiki.SectionIndex]string
}

var _ mediawiki.Fetcher = (*FakeWiki)(nil)

// NewFakeWiki returns an empty fake wiki.
func NewFakeWiki() *FakeWiki {
	return &FakeWiki{
		pages:  make(map[string]*FakePage),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
		byPage: make(map[string]int),
	}
}

// AddPage registers a page. Section titles are indexed "1", "2", ... in order.
func (w *FakeWiki) AddPage(title string, sectionTitles ...string) *FakePage {
	w.mu.Lock()
	defer w.mu.Unlock()
	page := &FakePage{
		links:    make(map[mediawiki.SectionIndex][]mediawiki.Link),
		wikitext: make(map[mediawiki.SectionIndex]string),
	}
	for i, name := range sectionTitles {
		page.sections = append(page.sections, mediawiki.Section{
			Title: name,
			Index: mediawiki.SectionIndex(strconv.Itoa(i + 1)),
			Level: 1,
		})
	}
	w.pages[mediawiki.NormalizePage(title)] = page
	return page
}

// Fail makes every request for page return err.
func (w *FakeWiki) Fail(page string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errs[mediawiki.NormalizePage(page)] = err
}

// Calls reports how many times method ("sections", "links", "wikitext") was invoked.
func (w *FakeWiki) Calls(method string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[method]
}

// PageCalls reports how many requests of any kind targeted page.
func (w *FakeWiki) PageCalls(page string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.byPage[mediawiki.NormalizePage(page)]
}

// WithLinks sets the links of a section (WholePage for the entire page).
func (p *FakePage) WithLinks(section mediawiki.SectionIndex, texts ...string) *FakePage {
	links := make([]mediawiki.Link, 0, len(texts))
	for _, text := range texts {
		links = append(links, mediawiki.Link{Text: text, Exists: true})
	}
	p.links[section] = links
	return p
}

// WithWikitext sets the markup of a section (WholePage for the entire page).
func (p *FakePage) WithWikitext(section mediawiki.SectionIndex, markup string) *FakePage {
	p.wikitext[section] = markup
	return p
}

// Sections implements mediawiki.Fetcher.
func (w *FakeWiki) Sections(_ context.Context, page string) ([]mediawiki.Section, error) {
	p, err := w.lookup("sections", page)
	if err != nil {
		return nil, err
	}
	return append([]mediawiki.Section(nil), p.sections...), nil
}

// Links implements mediawiki.Fetcher.
func (w *FakeWiki) Links(_ context.Context, page string, section mediawiki.SectionIndex) ([]mediawiki.Link, error) {
	p, err := w.lookup("links", page)
	if err != nil {
		return nil, err
	}
	if err := p.checkSection(page, section); err != nil {
		return nil, err
	}
	return append([]mediawiki.Link(nil), p.links[section]...), nil
}

// Wikitext implements mediawiki.Fetcher.
func (w *FakeWiki) Wikitext(_ context.Context, page string, section mediawiki.SectionIndex) (string, error) {
	p, err := w.lookup("wikitext", page)
	if err != nil {
		return "", err
	}
	if err := p.checkSection(page, section); err != nil {
		return "", err
	}
	return p.wikitext[section], nil
}

func (w *FakeWiki) lookup(method, page string) (*FakePage, error) {
	key := mediawiki.NormalizePage(page)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls[method]++
	w.byPage[key]++
	if err := w.errs[key]; err != nil {
		return nil, err
	}
	p, ok := w.pages[key]
	if !ok {
		return nil, &mediawiki.APIError{Code: "missingtitle", Info: "The page you specified doesn't exist.", Page: key}
	}
	return p, nil
}

func (p *FakePage) checkSection(page string, section mediawiki.SectionIndex) error {
	if section == mediawiki.WholePage {
		return nil
	}
	key := mediawiki.NormalizePage(page)
	if n, err := strconv.Atoi(strings.TrimPrefix(string(section), "T-")); err != nil || n < 0 {
		return &mediawiki.APIError{Code: "invalidsection", Info: "The section parameter must be a valid section ID or \"new\".", Page: key}
	}
	for _, s := range p.sections {
		if s.Index == section {
			return nil
		}
	}
	return &mediawiki.APIError{Code: "nosuchsection", Info: "There is no section " + string(section) + ".", Page: key}
}
