package scraper

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	xmlpath "gopkg.in/xmlpath.v2"

	"bd2mods/internal/services"
)

// SelectorKind names the query language of a SelectorSet.
type SelectorKind string

const (
	KindCSS   SelectorKind = "css"
	KindXPath SelectorKind = "xpath"
)

// SelectorSet describes one page layout. Character matches a container per
// character; CharacterName, Costume, and CostumeName are evaluated inside it.
type SelectorSet struct {
	Name          string
	Kind          SelectorKind
	Character     string
	CharacterName string
	Costume       string
	CostumeName   string
}

// Primary is the layout of the costume wiki as last observed.
var Primary = SelectorSet{
	Name:          "primary",
	Kind:          KindCSS,
	Character:     "div.col-mobile-6",
	CharacterName: "h4 > a",
	Costume:       "ul.list-group > li",
	CostumeName:   "a",
}

// Fallbacks are tried in order when Primary finds no characters.
var Fallbacks = []SelectorSet{
	{
		Name:          "media-cards",
		Kind:          KindCSS,
		Character:     ".media-body",
		CharacterName: "h5.mb-1 > a, h4 > a, .name a",
		Costume:       ".list-group .list-group-item",
		CostumeName:   "a, .cname, span",
	},
	{
		Name:          "card-columns",
		Kind:          KindCSS,
		Character:     "[class*='col-']",
		CharacterName: "h4 a, h5 a, .name a",
		Costume:       "ul.list-group li, .costume, .costumes li",
		CostumeName:   "a, .cname, span",
	},
	{
		Name:          "table-rows",
		Kind:          KindXPath,
		Character:     `//tr[contains(@class,"character")]`,
		CharacterName: `./td[contains(@class,"name")]`,
		Costume:       `.//li[contains(@class,"costume")]`,
		CostumeName:   `.//a`,
	},
}

// DefaultSets returns Primary followed by Fallbacks.
func DefaultSets() []SelectorSet {
	sets := make([]SelectorSet, 0, len(Fallbacks)+1)
	sets = append(sets, Primary)
	return append(sets, Fallbacks...)
}

type compiledSet struct {
	set SelectorSet

	css struct {
		character, characterName, costume, costumeName cascadia.Selector
	}
	xpath struct {
		character, characterName, costume, costumeName *xmlpath.Path
	}
}

func compileSet(set SelectorSet) (*compiledSet, error) {
	out := &compiledSet{set: set}
	fields := []struct {
		label string
		expr  string
	}{
		{"character", set.Character},
		{"character_name", set.CharacterName},
		{"costume", set.Costume},
		{"costume_name", set.CostumeName},
	}
	switch set.Kind {
	case KindCSS, "":
		out.set.Kind = KindCSS
		targets := []*cascadia.Selector{&out.css.character, &out.css.characterName, &out.css.costume, &out.css.costumeName}
		for i, field := range fields {
			sel, err := cascadia.Compile(field.expr)
			if err != nil {
				return nil, selectorError(set, field.label, field.expr, err)
			}
			*targets[i] = sel
		}
	case KindXPath:
		targets := []**xmlpath.Path{&out.xpath.character, &out.xpath.characterName, &out.xpath.costume, &out.xpath.costumeName}
		for i, field := range fields {
			path, err := xmlpath.Compile(field.expr)
			if err != nil {
				return nil, selectorError(set, field.label, field.expr, err)
			}
			*targets[i] = path
		}
	default:
		return nil, services.Wrap(services.ErrParse, "scraper", "compile_selectors",
			fmt.Sprintf("selector set %q has unknown kind %q", set.Name, set.Kind), nil)
	}
	return out, nil
}

func selectorError(set SelectorSet, label, expr string, err error) error {
	return services.Wrap(services.ErrParse, "scraper", "compile_selectors",
		fmt.Sprintf("selector set %q: %s selector %q", set.Name, label, expr), err)
}
