package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	xmlpath "gopkg.in/xmlpath.v2"

	"bd2mods/internal/catalog"
	"bd2mods/internal/logging"
	"bd2mods/internal/services"
	"bd2mods/internal/textutil"
)

// Extraction is the result of reading one page.
type Extraction struct {
	SetName    string
	Records    []catalog.CharacterRecord
	Characters int
	Costumes   int
}

// Extract runs the selector cascade over html and returns the records of the
// first set that finds at least one character. ErrNoMatches is returned when
// every set comes up empty.
func (s *Scraper) Extract(html string) (Extraction, error) {
	var cssDoc *goquery.Document
	var xmlRoot *xmlpath.Node
	var xmlErr error
	xmlParsed := false

	for _, cs := range s.sets {
		var records []catalog.CharacterRecord
		switch cs.set.Kind {
		case KindXPath:
			if !xmlParsed {
				xmlRoot, xmlErr = xmlpath.ParseHTML(strings.NewReader(html))
				xmlParsed = true
			}
			if xmlErr != nil {
				s.logger.Debug("document not readable as xml; skipping xpath set",
					logging.String("selector_set", cs.set.Name),
					logging.Error(xmlErr),
				)
				continue
			}
			records = cs.extractXPath(xmlRoot)
		default:
			if cssDoc == nil {
				doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
				if err != nil {
					return Extraction{}, services.Wrap(services.ErrParse, "scraper", "extract", "parse html", err)
				}
				cssDoc = doc
			}
			records = cs.extractCSS(cssDoc)
		}

		costumes := 0
		for _, r := range records {
			costumes += len(r.Costumes)
		}
		s.logger.Debug("selector set evaluated",
			logging.String("selector_set", cs.set.Name),
			logging.Int("characters", len(records)),
			logging.Int("costumes", costumes),
		)
		if len(records) > 0 {
			return Extraction{
				SetName:    cs.set.Name,
				Records:    records,
				Characters: len(records),
				Costumes:   costumes,
			}, nil
		}
	}
	return Extraction{}, services.Wrap(services.ErrNoMatches, "scraper", "extract",
		"no selector set matched any characters", nil)
}

func (cs *compiledSet) extractCSS(doc *goquery.Document) []catalog.CharacterRecord {
	var records []catalog.CharacterRecord
	doc.FindMatcher(cs.css.character).Each(func(_ int, container *goquery.Selection) {
		name := cleanText(container.FindMatcher(cs.css.characterName).First().Text())
		record, ok := newCharacter(name)
		if !ok {
			return
		}
		container.FindMatcher(cs.css.costume).Each(func(_ int, item *goquery.Selection) {
			if costume, ok := newCostume(cleanText(item.FindMatcher(cs.css.costumeName).First().Text())); ok {
				record.Costumes = append(record.Costumes, costume)
			}
		})
		records = append(records, record)
	})
	return records
}

func (cs *compiledSet) extractXPath(root *xmlpath.Node) []catalog.CharacterRecord {
	var records []catalog.CharacterRecord
	iter := cs.xpath.character.Iter(root)
	for iter.Next() {
		container := iter.Node()
		name, _ := cs.xpath.characterName.String(container)
		record, ok := newCharacter(cleanText(name))
		if !ok {
			continue
		}
		items := cs.xpath.costume.Iter(container)
		for items.Next() {
			costumeName, _ := cs.xpath.costumeName.String(items.Node())
			if costume, ok := newCostume(cleanText(costumeName)); ok {
				record.Costumes = append(record.Costumes, costume)
			}
		}
		records = append(records, record)
	}
	return records
}

func newCharacter(name string) (catalog.CharacterRecord, bool) {
	slug := textutil.Slugify(name)
	if name == "" || slug == "" {
		return catalog.CharacterRecord{}, false
	}
	return catalog.CharacterRecord{Slug: slug, DisplayName: name}, true
}

func newCostume(name string) (catalog.CostumeRecord, bool) {
	slug := textutil.Slugify(name)
	if name == "" || slug == "" {
		return catalog.CostumeRecord{}, false
	}
	return catalog.CostumeRecord{Slug: slug, DisplayName: name}, true
}

func cleanText(s string) string {
	return strings.TrimSpace(s)
}
