package domain

// Document is the canonical menu interchange format consumed by the importer
// and stored verbatim as the event's menu snapshot.
type Document struct {
	Restaurant *string       `json:"restaurant,omitempty"`
	SourcePDF  *string       `json:"sourcePdf,omitempty"`
	Currency   string        `json:"currency"`
	Categories []DocCategory `json:"categories"`
	Items      []DocItem     `json:"items"`
	Bundles    []DocBundle   `json:"bundles"`
}

type DocCategory struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Sort int          `json:"sort"`
	Type CategoryType `json:"type"`
}

type DocItem struct {
	Code        string      `json:"code"`
	Name        string      `json:"name"`
	Description *string     `json:"description,omitempty"`
	CategoryID  string      `json:"categoryId"`
	SubCategory *string     `json:"subCategory,omitempty"`
	Price       *float64    `json:"price,omitempty"`
	Diet        *DocDiet    `json:"diet,omitempty"`
	Images      []string    `json:"images"`
	Tags        []string    `json:"tags"`
	Options     []DocOption `json:"options"`
}

type DocDiet struct {
	Veg   bool `json:"veg"`
	Vegan bool `json:"vegan"`
}

type DocOption struct {
	Label   string  `json:"label"`
	MetaQty *string `json:"metaQty,omitempty"`
	Price   float64 `json:"price"`
}

type DocBundle struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Images      []string `json:"images"`
	Lines       []string `json:"lines"`
}

const DefaultCurrency = "EUR"
