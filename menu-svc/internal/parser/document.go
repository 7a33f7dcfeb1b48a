package parser

import (
	"iter"
	"regexp"
	"strconv"
	"strings"

	"partyorder/menu-svc/internal/domain"
)

const ImportedRestaurant = "Imported Menu"

var whitespaceRun = regexp.MustCompile(`\s+`)

// CategoryID derives a document-local category id from a display name.
func CategoryID(name string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(name), "-")
}

// BuildDocument groups records by category in order of first appearance and
// synthesizes a menu document from them. It returns domain.ErrNoValidItems
// when the sequence is empty.
func BuildDocument(records iter.Seq[LineRecord], restaurant string) (*domain.Document, error) {
	doc := &domain.Document{
		Currency:   domain.DefaultCurrency,
		Categories: []domain.DocCategory{},
		Items:      []domain.DocItem{},
		Bundles:    []domain.DocBundle{},
	}
	if restaurant != "" {
		doc.Restaurant = &restaurant
	}

	idsByName := map[string]string{}
	usedIDs := map[string]bool{}

	for record := range records {
		id, ok := idsByName[record.Category]
		if !ok {
			id = uniqueID(CategoryID(record.Category), usedIDs)
			idsByName[record.Category] = id
			usedIDs[id] = true
			doc.Categories = append(doc.Categories, domain.DocCategory{
				ID:   id,
				Name: record.Category,
				Sort: len(doc.Categories),
				Type: domain.CategoryFood,
			})
		}

		price := record.Price
		doc.Items = append(doc.Items, domain.DocItem{
			Code:       record.Code,
			Name:       record.Name,
			CategoryID: id,
			Price:      &price,
			Diet:       &domain.DocDiet{},
			Images:     []string{},
			Tags:       []string{},
			Options:    []domain.DocOption{},
		})
	}

	if len(doc.Items) == 0 {
		return nil, domain.ErrNoValidItems
	}
	return doc, nil
}

// uniqueID keeps case-variant names like "Mains" and "mains" apart.
func uniqueID(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if !used[candidate] {
			return candidate
		}
	}
}
