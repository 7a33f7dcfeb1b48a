package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"partyorder/menu-svc/internal/domain"
)

// ValidateDocument decodes raw JSON and checks it against the menu document
// contract. Malformed JSON yields a *domain.ParseError; structural problems
// yield a *domain.SchemaInvalidError listing every violation. On success the
// returned document has all defaults applied.
func ValidateDocument(raw []byte) (*domain.Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var root interface{}
	if err := decoder.Decode(&root); err != nil {
		return nil, &domain.ParseError{Message: err.Error()}
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, &domain.ParseError{Message: "unexpected data after top-level value"}
	}

	v := &documentValidator{}
	doc := v.document(root)
	if len(v.violations) > 0 {
		return nil, &domain.SchemaInvalidError{Violations: v.violations}
	}
	return doc, nil
}

// ValidateDocumentValue runs an in-memory document through the same contract,
// so synthesized documents get no shortcut past validation.
func ValidateDocumentValue(doc *domain.Document) (*domain.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, &domain.ParseError{Message: err.Error()}
	}
	return ValidateDocument(raw)
}

type documentValidator struct {
	violations []domain.Violation
}

func (v *documentValidator) fail(path, format string, args ...interface{}) {
	v.violations = append(v.violations, domain.Violation{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *documentValidator) document(root interface{}) *domain.Document {
	obj, ok := root.(map[string]interface{})
	if !ok {
		v.fail("", "expected object, received %s", kindOf(root))
		return nil
	}

	doc := &domain.Document{
		Restaurant: v.optionalString(obj, "restaurant", "restaurant"),
		SourcePDF:  v.optionalString(obj, "sourcePdf", "sourcePdf"),
		Currency:   domain.DefaultCurrency,
		Categories: []domain.DocCategory{},
		Items:      []domain.DocItem{},
		Bundles:    []domain.DocBundle{},
	}
	if currency := v.optionalString(obj, "currency", "currency"); currency != nil {
		doc.Currency = *currency
	}

	seen := map[string]int{}
	for i, el := range v.optionalArray(obj, "categories", "categories") {
		path := fmt.Sprintf("categories[%d]", i)
		category, ok := v.category(el, path)
		if !ok {
			continue
		}
		if first, dup := seen[category.ID]; dup {
			v.fail(path+".id", "duplicate category id %q (first used at categories[%d])", category.ID, first)
			continue
		}
		seen[category.ID] = i
		doc.Categories = append(doc.Categories, category)
	}

	for i, el := range v.optionalArray(obj, "items", "items") {
		if item, ok := v.item(el, fmt.Sprintf("items[%d]", i)); ok {
			doc.Items = append(doc.Items, item)
		}
	}

	for i, el := range v.optionalArray(obj, "bundles", "bundles") {
		if bundle, ok := v.bundle(el, fmt.Sprintf("bundles[%d]", i)); ok {
			doc.Bundles = append(doc.Bundles, bundle)
		}
	}

	return doc
}

func (v *documentValidator) category(el interface{}, path string) (domain.DocCategory, bool) {
	obj, ok := v.object(el, path)
	if !ok {
		return domain.DocCategory{}, false
	}
	before := len(v.violations)

	category := domain.DocCategory{
		ID:   v.requiredString(obj, "id", path+".id"),
		Name: v.requiredString(obj, "name", path+".name"),
		Type: domain.CategoryFood,
	}
	if sort, ok := v.optionalInt(obj, "sort", path+".sort"); ok {
		category.Sort = sort
	}
	if raw := v.optionalString(obj, "type", path+".type"); raw != nil {
		if t := domain.CategoryType(*raw); t.Valid() {
			category.Type = t
		} else {
			v.fail(path+".type", "invalid enum value, expected 'FOOD' | 'DRINK', received '%s'", *raw)
		}
	}
	return category, len(v.violations) == before
}

func (v *documentValidator) item(el interface{}, path string) (domain.DocItem, bool) {
	obj, ok := v.object(el, path)
	if !ok {
		return domain.DocItem{}, false
	}
	before := len(v.violations)

	item := domain.DocItem{
		Code:        v.requiredString(obj, "code", path+".code"),
		Name:        v.requiredString(obj, "name", path+".name"),
		Description: v.optionalString(obj, "description", path+".description"),
		CategoryID:  v.requiredString(obj, "categoryId", path+".categoryId"),
		SubCategory: v.optionalString(obj, "subCategory", path+".subCategory"),
		Price:       v.optionalPrice(obj, "price", path+".price"),
		Images:      v.stringArray(obj, "images", path+".images"),
		Tags:        v.stringArray(obj, "tags", path+".tags"),
		Options:     []domain.DocOption{},
	}

	if raw, present := obj["diet"]; present && raw != nil {
		if diet, ok := v.object(raw, path+".diet"); ok {
			item.Diet = &domain.DocDiet{
				Veg:   v.optionalBool(diet, "veg", path+".diet.veg"),
				Vegan: v.optionalBool(diet, "vegan", path+".diet.vegan"),
			}
		}
	}

	for i, raw := range v.optionalArray(obj, "options", path+".options") {
		optPath := fmt.Sprintf("%s.options[%d]", path, i)
		opt, ok := v.object(raw, optPath)
		if !ok {
			continue
		}
		option := domain.DocOption{
			Label:   v.requiredString(opt, "label", optPath+".label"),
			MetaQty: v.optionalString(opt, "metaQty", optPath+".metaQty"),
		}
		if price := v.requiredPrice(opt, "price", optPath+".price"); price != nil {
			option.Price = *price
		}
		item.Options = append(item.Options, option)
	}

	return item, len(v.violations) == before
}

func (v *documentValidator) bundle(el interface{}, path string) (domain.DocBundle, bool) {
	obj, ok := v.object(el, path)
	if !ok {
		return domain.DocBundle{}, false
	}
	before := len(v.violations)

	bundle := domain.DocBundle{
		Code:        v.requiredString(obj, "code", path+".code"),
		Name:        v.requiredString(obj, "name", path+".name"),
		Description: v.optionalString(obj, "description", path+".description"),
		Images:      v.stringArray(obj, "images", path+".images"),
		Lines:       v.stringArray(obj, "lines", path+".lines"),
	}
	if price := v.requiredPrice(obj, "price", path+".price"); price != nil {
		bundle.Price = *price
	}
	return bundle, len(v.violations) == before
}

func (v *documentValidator) object(el interface{}, path string) (map[string]interface{}, bool) {
	obj, ok := el.(map[string]interface{})
	if !ok {
		v.fail(path, "expected object, received %s", kindOf(el))
	}
	return obj, ok
}

func (v *documentValidator) requiredString(obj map[string]interface{}, key, path string) string {
	raw, present := obj[key]
	if !present {
		v.fail(path, "required")
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		v.fail(path, "expected string, received %s", kindOf(raw))
	}
	return s
}

// optionalString accepts an absent key, null, or a string.
func (v *documentValidator) optionalString(obj map[string]interface{}, key, path string) *string {
	raw, present := obj[key]
	if !present || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		v.fail(path, "expected string, received %s", kindOf(raw))
		return nil
	}
	return &s
}

func (v *documentValidator) optionalBool(obj map[string]interface{}, key, path string) bool {
	raw, present := obj[key]
	if !present {
		return false
	}
	b, ok := raw.(bool)
	if !ok {
		v.fail(path, "expected boolean, received %s", kindOf(raw))
	}
	return b
}

func (v *documentValidator) optionalInt(obj map[string]interface{}, key, path string) (int, bool) {
	raw, present := obj[key]
	if !present {
		return 0, false
	}
	f, ok := v.number(raw, path)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		v.fail(path, "expected integer, received %v", raw)
		return 0, false
	}
	return int(f), true
}

func (v *documentValidator) optionalPrice(obj map[string]interface{}, key, path string) *float64 {
	raw, present := obj[key]
	if !present || raw == nil {
		return nil
	}
	return v.price(raw, path)
}

func (v *documentValidator) requiredPrice(obj map[string]interface{}, key, path string) *float64 {
	raw, present := obj[key]
	if !present {
		v.fail(path, "required")
		return nil
	}
	return v.price(raw, path)
}

func (v *documentValidator) price(raw interface{}, path string) *float64 {
	f, ok := v.number(raw, path)
	if !ok {
		return nil
	}
	if f < 0 {
		v.fail(path, "price cannot be negative")
		return nil
	}
	return &f
}

func (v *documentValidator) number(raw interface{}, path string) (float64, bool) {
	n, ok := raw.(json.Number)
	if !ok {
		v.fail(path, "expected number, received %s", kindOf(raw))
		return 0, false
	}
	f, err := n.Float64()
	if err != nil || math.IsInf(f, 0) {
		v.fail(path, "number out of range")
		return 0, false
	}
	return f, true
}

func (v *documentValidator) optionalArray(obj map[string]interface{}, key, path string) []interface{} {
	raw, present := obj[key]
	if !present {
		return nil
	}
	arr, ok := raw.([]interface{})
	if !ok {
		v.fail(path, "expected array, received %s", kindOf(raw))
	}
	return arr
}

func (v *documentValidator) stringArray(obj map[string]interface{}, key, path string) []string {
	out := []string{}
	for i, el := range v.optionalArray(obj, key, path) {
		s, ok := el.(string)
		if !ok {
			v.fail(fmt.Sprintf("%s[%d]", path, i), "expected string, received %s", kindOf(el))
			continue
		}
		out = append(out, s)
	}
	return out
}

func kindOf(raw interface{}) string {
	switch raw.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
