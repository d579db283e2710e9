package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/chronicle-hq/headline-ledger/pkg/targets"
)

// StrategyBuilder creates a Strategy from a target's selector config.
type StrategyBuilder func(sel targets.Selector) (Strategy, error)

// StrategyRegistry maps strategy names to builders so alternate matching
// rules can be substituted without touching fetch or record logic.
type StrategyRegistry struct {
	mu       sync.RWMutex
	builders map[string]StrategyBuilder
}

// NewStrategyRegistry returns a registry with optional pre-registered builders.
func NewStrategyRegistry(builders map[string]StrategyBuilder) *StrategyRegistry {
	r := &StrategyRegistry{
		builders: make(map[string]StrategyBuilder),
	}
	for name, b := range builders {
		r.Register(name, b)
	}
	return r
}

// Register associates a builder with a strategy name.
func (r *StrategyRegistry) Register(name string, builder StrategyBuilder) {
	if name = strings.TrimSpace(strings.ToLower(name)); name == "" || builder == nil {
		return
	}

	r.mu.Lock()
	r.builders[name] = builder
	r.mu.Unlock()
}

// StrategyFor builds the strategy named by the selector config.
func (r *StrategyRegistry) StrategyFor(sel targets.Selector) (Strategy, error) {
	if sel.Strategy == "" {
		return nil, fmt.Errorf("selector has no strategy configured")
	}

	r.mu.RLock()
	builder := r.builders[strings.ToLower(sel.Strategy)]
	r.mu.RUnlock()

	if builder == nil {
		return nil, fmt.Errorf("no strategy registered for name %q", sel.Strategy)
	}
	return builder(sel)
}

// DefaultStrategyRegistry wires up the known selector strategies.
func DefaultStrategyRegistry() *StrategyRegistry {
	return NewStrategyRegistry(map[string]StrategyBuilder{
		targets.StrategySectionLink: newSectionLinkStrategy,
		targets.StrategyFirstLink:   newFirstLinkStrategy,
		targets.StrategyElementText: newElementTextStrategy,
	})
}

// sectionLinkStrategy locates the first heading matching tag/id/class, then
// the first anchor inside it, falling back to the first anchor nested under
// its following siblings in document order.
type sectionLinkStrategy struct {
	headingSel string
	linkSel    string
}

func newSectionLinkStrategy(sel targets.Selector) (Strategy, error) {
	headingSel := elementSelector(sel.HeadingTag, sel.HeadingID, sel.HeadingClass)
	if headingSel == "" {
		return nil, fmt.Errorf("section_link requires a heading tag, id, or class")
	}
	return &sectionLinkStrategy{
		headingSel: headingSel,
		linkSel:    anchorSelector(sel.LinkClass),
	}, nil
}

func (s *sectionLinkStrategy) Name() string { return targets.StrategySectionLink }

func (s *sectionLinkStrategy) Select(doc *goquery.Document) (Selection, error) {
	heading := doc.Find(s.headingSel).First()
	if heading.Length() == 0 {
		return Selection{}, fmt.Errorf("no heading matched %q", s.headingSel)
	}

	link := heading.Find(s.linkSel).First()
	if link.Length() == 0 {
		heading.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			if sib.Is(s.linkSel) {
				link = sib
				return false
			}
			if cand := sib.Find(s.linkSel).First(); cand.Length() > 0 {
				link = cand
				return false
			}
			return true
		})
	}
	if link.Length() == 0 {
		return Selection{}, fmt.Errorf("no link matched %q under heading %q", s.linkSel, s.headingSel)
	}

	href, _ := link.Attr("href")
	return Selection{
		Text: strings.TrimSpace(link.Text()),
		Href: strings.TrimSpace(href),
	}, nil
}

// firstLinkStrategy picks the first matching anchor anywhere in the document.
type firstLinkStrategy struct {
	linkSel string
}

func newFirstLinkStrategy(sel targets.Selector) (Strategy, error) {
	return &firstLinkStrategy{linkSel: anchorSelector(sel.LinkClass)}, nil
}

func (s *firstLinkStrategy) Name() string { return targets.StrategyFirstLink }

func (s *firstLinkStrategy) Select(doc *goquery.Document) (Selection, error) {
	link := doc.Find(s.linkSel).First()
	if link.Length() == 0 {
		return Selection{}, fmt.Errorf("no link matched %q", s.linkSel)
	}

	href, _ := link.Attr("href")
	return Selection{
		Text: strings.TrimSpace(link.Text()),
		Href: strings.TrimSpace(href),
	}, nil
}

// elementTextStrategy reads the trimmed text of the first element matching a
// tag. The follow hop uses it for the article headline element.
type elementTextStrategy struct {
	elementSel string
}

func newElementTextStrategy(sel targets.Selector) (Strategy, error) {
	elementSel := elementSelector(sel.HeadingTag, sel.HeadingID, sel.HeadingClass)
	if elementSel == "" {
		return nil, fmt.Errorf("element_text requires a heading tag, id, or class")
	}
	return &elementTextStrategy{elementSel: elementSel}, nil
}

func (s *elementTextStrategy) Name() string { return targets.StrategyElementText }

func (s *elementTextStrategy) Select(doc *goquery.Document) (Selection, error) {
	node := doc.Find(s.elementSel).First()
	if node.Length() == 0 {
		return Selection{}, fmt.Errorf("no element matched %q", s.elementSel)
	}
	return Selection{Text: strings.TrimSpace(node.Text())}, nil
}

// elementSelector builds a goquery selector from tag/id/class parts.
// Multi-class attributes ("frontpage-link standard-link") become chained
// class selectors.
func elementSelector(tag, id, class string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(tag))
	if id = strings.TrimSpace(id); id != "" {
		b.WriteString("#" + id)
	}
	for _, cls := range strings.Fields(class) {
		b.WriteString("." + cls)
	}
	return b.String()
}

// anchorSelector builds the anchor selector with an optional class filter.
func anchorSelector(class string) string {
	return elementSelector("a", "", class)
}

// resolveURL resolves a possibly relative href against the page it was found on.
func resolveURL(href, pageURL string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
