package scrape

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/chronicle-hq/headline-ledger/pkg/targets"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func buildStrategy(t *testing.T, sel targets.Selector) Strategy {
	t.Helper()
	strat, err := DefaultStrategyRegistry().StrategyFor(sel)
	if err != nil {
		t.Fatalf("StrategyFor: %v", err)
	}
	return strat
}

func TestSectionLinkFindsLinkInFollowingSibling(t *testing.T) {
	html := `<h3 class="frontpage-section">Featured</h3><div><a href="/x">Big Story</a></div>`
	strat := buildStrategy(t, targets.Selector{
		Strategy:     targets.StrategySectionLink,
		HeadingTag:   "h3",
		HeadingClass: "frontpage-section",
	})

	sel, err := strat.Select(parseDoc(t, html))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Text != "Big Story" {
		t.Fatalf("unexpected text %q", sel.Text)
	}
	if sel.Href != "/x" {
		t.Fatalf("unexpected href %q", sel.Href)
	}
}

func TestSectionLinkPrefersLinkInsideHeading(t *testing.T) {
	html := `
<span id="mostRead">
  <a class="frontpage-link standard-link" href="/inside">  Inside Story  </a>
</span>
<div><a href="/outside">Outside Story</a></div>`
	strat := buildStrategy(t, targets.Selector{
		Strategy:   targets.StrategySectionLink,
		HeadingTag: "span",
		HeadingID:  "mostRead",
		LinkClass:  "frontpage-link standard-link",
	})

	sel, err := strat.Select(parseDoc(t, html))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Text != "Inside Story" {
		t.Fatalf("expected trimmed inside link text, got %q", sel.Text)
	}
	if sel.Href != "/inside" {
		t.Fatalf("unexpected href %q", sel.Href)
	}
}

func TestSectionLinkIgnoresAdditionalMatches(t *testing.T) {
	html := `
<h3 class="sec">First</h3><div><a href="/1">One</a><a href="/2">Two</a></div>
<h3 class="sec">Second</h3><div><a href="/3">Three</a></div>`
	strat := buildStrategy(t, targets.Selector{
		Strategy:     targets.StrategySectionLink,
		HeadingTag:   "h3",
		HeadingClass: "sec",
	})

	sel, err := strat.Select(parseDoc(t, html))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Text != "One" {
		t.Fatalf("expected only the first match, got %q", sel.Text)
	}
}

func TestSectionLinkMissingHeading(t *testing.T) {
	strat := buildStrategy(t, targets.Selector{
		Strategy:     targets.StrategySectionLink,
		HeadingTag:   "h3",
		HeadingClass: "frontpage-section",
	})

	if _, err := strat.Select(parseDoc(t, `<p>nothing here</p>`)); err == nil {
		t.Fatalf("expected error for missing heading")
	}
}

func TestSectionLinkHeadingWithoutLink(t *testing.T) {
	strat := buildStrategy(t, targets.Selector{
		Strategy:     targets.StrategySectionLink,
		HeadingTag:   "h3",
		HeadingClass: "sec",
	})

	if _, err := strat.Select(parseDoc(t, `<h3 class="sec">Alone</h3>`)); err == nil {
		t.Fatalf("expected error for heading without link")
	}
}

func TestFirstLinkStrategy(t *testing.T) {
	html := `<a href="/plain">Plain</a><a class="story" href="/classy">Classy</a>`
	strat := buildStrategy(t, targets.Selector{
		Strategy:  targets.StrategyFirstLink,
		LinkClass: "story",
	})

	sel, err := strat.Select(parseDoc(t, html))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Text != "Classy" || sel.Href != "/classy" {
		t.Fatalf("unexpected selection %#v", sel)
	}
}

func TestElementTextStrategy(t *testing.T) {
	strat := buildStrategy(t, targets.Selector{
		Strategy:   targets.StrategyElementText,
		HeadingTag: "h1",
	})

	sel, err := strat.Select(parseDoc(t, `<h1>
	  Article Headline
	</h1><h1>Second</h1>`))
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Text != "Article Headline" {
		t.Fatalf("unexpected text %q", sel.Text)
	}
}

func TestStrategyForUnknownName(t *testing.T) {
	if _, err := DefaultStrategyRegistry().StrategyFor(targets.Selector{Strategy: "xpath"}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestSectionLinkRequiresHeadingSelector(t *testing.T) {
	if _, err := DefaultStrategyRegistry().StrategyFor(targets.Selector{Strategy: targets.StrategySectionLink}); err == nil {
		t.Fatalf("expected error for empty heading selector")
	}
}

func TestResolveURLHandlesRelative(t *testing.T) {
	if got := resolveURL("/article/1", "https://www.thedp.com"); got != "https://www.thedp.com/article/1" {
		t.Fatalf("resolveURL got %q", got)
	}
	if got := resolveURL("https://other.example/a", "https://www.thedp.com"); got != "https://other.example/a" {
		t.Fatalf("expected absolute href to pass through, got %q", got)
	}
	if got := resolveURL("", "https://www.thedp.com"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
