package main

// Product is the transient local copy of a Shopify product, held only for the
// duration of one workflow run. Tags arrive from the Admin API as a single
// comma-joined string.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Handle      string    `json:"handle"`
	ProductType string    `json:"product_type"`
	Tags        string    `json:"tags"`
	Variants    []Variant `json:"variants,omitempty"`
}

// Variant carries the subset of variant fields the price updater needs.
// Shopify represents prices as decimal strings.
type Variant struct {
	ID    int64  `json:"id"`
	Price string `json:"price"`
}

// KeywordSet is the per-item keyword material produced by the generator.
type KeywordSet struct {
	Primary string   `json:"primary"`
	Related []string `json:"related"`
}

// Descriptor returns the handle descriptor: the first related keyword, or
// "product" when there are none.
func (k KeywordSet) Descriptor() string {
	if len(k.Related) > 0 {
		return k.Related[0]
	}
	return "product"
}

// GeneratedContent is the synthesized description and SEO metadata.
type GeneratedContent struct {
	BodyHTML string `json:"description_html"`
	SEOTitle string `json:"seo_title"`
	SEOMeta  string `json:"seo_meta"`
}

// UpdateRecord is one audit log row for a successfully updated product.
type UpdateRecord struct {
	ProductID int64
	OldHandle string
	NewHandle string
	OldTitle  string
	NewTitle  string
}

// ProcessingStatus represents the outcome of processing a single product.
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusFailed  ProcessingStatus = "failed"
)

// ProcessingResult tracks the outcome of each product workflow, including
// non-fatal degradations that still leave the item updated.
type ProcessingResult struct {
	ProductID   int64
	Status      ProcessingStatus
	Record      UpdateRecord
	Err         error
	RedirectErr error
	TagClearErr error
}
