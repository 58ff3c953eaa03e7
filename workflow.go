package main

import "log"

// catalogStore is the slice of the Shopify client the workflow mutates
// through.
type catalogStore interface {
	UpdateContent(productID int64, title, bodyHTML, handle, seoTitle, seoMeta string) error
	CreateRedirect(oldHandle, newHandle string) error
	UpdateTags(productID int64, tags string) error
}

// contentGenerator is the generation service surface the workflow consumes.
type contentGenerator interface {
	InferCategory(title string) (string, error)
	ExtractKeywords(title, body string) (KeywordSet, error)
	SynthesizeContent(title, body, category string, kw KeywordSet) (GeneratedContent, error)
	RegenerateTitle(previous string, kw KeywordSet) (string, error)
}

// Workflow runs the per-product update sequence: category, keywords, handle,
// content, title, remote mutation, redirect, tag clear. Generation failures
// degrade to fallbacks; only the content mutation is fatal for an item.
type Workflow struct {
	store  catalogStore
	gen    contentGenerator
	minter *Minter
	tag    string
}

// NewWorkflow wires a workflow over the given collaborators. tag is the
// processing marker whose removal makes an item ineligible for future runs.
func NewWorkflow(store catalogStore, gen contentGenerator, minter *Minter, tag string) *Workflow {
	return &Workflow{store: store, gen: gen, minter: minter, tag: tag}
}

// Process runs one product through the full update sequence.
func (w *Workflow) Process(p Product) ProcessingResult {
	category := p.ProductType
	if category == "" {
		inferred, err := w.gen.InferCategory(p.Title)
		if err != nil {
			log.Printf("⚠ Category inference failed for %d, using Default: %v", p.ID, err)
			inferred = "Default"
		}
		category = inferred
	}
	debugLog("product %d: category %q", p.ID, category)

	kw, err := w.gen.ExtractKeywords(p.Title, p.BodyHTML)
	if err != nil {
		log.Printf("⚠ Keyword extraction failed for %d, using fallback: %v", p.ID, err)
		kw = FallbackKeywords()
	}
	debugLog("product %d: primary=%q related=%v", p.ID, kw.Primary, kw.Related)

	newHandle := w.minter.MintHandle(kw.Primary, kw.Descriptor())

	content, err := w.gen.SynthesizeContent(p.Title, p.BodyHTML, category, kw)
	if err != nil {
		log.Printf("⚠ Content synthesis failed for %d, keeping original copy: %v", p.ID, err)
		content = GeneratedContent{BodyHTML: p.BodyHTML, SEOTitle: p.Title, SEOMeta: ""}
	}

	newTitle := w.minter.MintTitle(content.SEOTitle, kw)

	if err := w.store.UpdateContent(p.ID, newTitle, content.BodyHTML, newHandle, newTitle, content.SEOMeta); err != nil {
		return ProcessingResult{ProductID: p.ID, Status: StatusFailed, Err: err}
	}

	result := ProcessingResult{
		ProductID: p.ID,
		Status:    StatusSuccess,
		Record: UpdateRecord{
			ProductID: p.ID,
			OldHandle: p.Handle,
			NewHandle: newHandle,
			OldTitle:  p.Title,
			NewTitle:  newTitle,
		},
	}

	// A missing redirect degrades SEO but must not block tag clearing: the
	// rename has already committed, and reprocessing would mint yet another
	// handle.
	if p.Handle != newHandle {
		if err := w.store.CreateRedirect(p.Handle, newHandle); err != nil {
			log.Printf("⚠ %v", err)
			result.RedirectErr = err
		} else {
			log.Printf("🔀 Redirect created: %s -> %s", p.Handle, newHandle)
		}
	}

	if err := w.clearTag(p); err != nil {
		log.Printf("✗ %v (product stays eligible for reprocessing, clear the tag manually)", err)
		result.TagClearErr = err
	}

	return result
}

// clearTag removes the processing marker while preserving every other tag.
func (w *Workflow) clearTag(p Product) error {
	if err := w.store.UpdateTags(p.ID, removeTag(p.Tags, w.tag)); err != nil {
		return &TagClearError{ProductID: p.ID, Err: err}
	}
	return nil
}
