package main

import (
	"fmt"
	"log"
	"time"
)

// catalogLister is the slice of the Shopify client the driver discovers work
// through.
type catalogLister interface {
	ListProducts(status, fields string) ([]Product, error)
	DraftProductsWithTag(tag string) ([]Product, error)
}

// RunSummary aggregates the outcome of one pipeline run.
type RunSummary struct {
	Succeeded        int
	Failed           int
	RedirectFailures int
	TagClearFailures int
}

// Pipeline drives the whole run: seed the registry from a full catalog scan
// plus the ledger, then push each eligible product through the workflow, one
// at a time, with pacing between items to stay under the store's rate limit.
type Pipeline struct {
	lister   catalogLister
	workflow *Workflow
	registry *Registry
	settings *Settings
	sleep    func(time.Duration)
}

// NewPipeline wires a pipeline. The registry must be the same one the
// workflow's minter reserves against.
func NewPipeline(lister catalogLister, workflow *Workflow, registry *Registry, settings *Settings) *Pipeline {
	return &Pipeline{
		lister:   lister,
		workflow: workflow,
		registry: registry,
		settings: settings,
		sleep:    time.Sleep,
	}
}

// Run executes one batch. A listing failure aborts the run with nothing
// partially applied; per-item failures are recorded and the batch continues.
func (p *Pipeline) Run() (RunSummary, error) {
	var summary RunSummary

	tag := p.settings.ProcessingTag
	eligible, err := p.lister.DraftProductsWithTag(tag)
	if err != nil {
		return summary, fmt.Errorf("listing draft products: %w", err)
	}
	if len(eligible) == 0 {
		log.Printf("No draft products found with tag %q.", tag)
		return summary, nil
	}

	// Full scan, all statuses: the registry must cover every existing handle
	// and title before any minting.
	existing, err := p.lister.ListProducts("", "id,title,handle")
	if err != nil {
		return summary, fmt.Errorf("scanning catalog for registry seed: %w", err)
	}
	p.registry.Seed(existing)
	if err := p.registry.SeedFromLedger(); err != nil {
		return summary, fmt.Errorf("seeding registry from ledger: %w", err)
	}

	runlog, err := NewRunLog(p.settings.LogFile)
	if err != nil {
		return summary, err
	}
	defer runlog.Close()

	pacing := time.Duration(p.settings.PacingMS) * time.Millisecond
	log.Printf("Processing %d products...", len(eligible))

	for i, product := range eligible {
		if i > 0 {
			p.sleep(pacing)
		}
		log.Printf("[%d/%d] → Processing: %s", i+1, len(eligible), product.Title)

		result := p.workflow.Process(product)
		if result.Status != StatusSuccess {
			summary.Failed++
			log.Printf("✗ Failed product %d: %v", result.ProductID, result.Err)
			continue
		}

		summary.Succeeded++
		if result.RedirectErr != nil {
			summary.RedirectFailures++
		}
		if result.TagClearErr != nil {
			summary.TagClearFailures++
		}

		if err := runlog.Append(result.Record); err != nil {
			log.Printf("⚠ %v", err)
		}
		log.Printf("✓ Updated product %d: %s -> %s", result.ProductID, result.Record.OldHandle, result.Record.NewHandle)
	}

	log.Printf("Done. succeeded=%d failed=%d redirect_failures=%d tag_clear_failures=%d (log: %s)",
		summary.Succeeded, summary.Failed, summary.RedirectFailures, summary.TagClearFailures, p.settings.LogFile)
	if summary.TagClearFailures > 0 {
		log.Printf("✗ %d product(s) were updated but still carry %q: clear the tag manually or they will be reprocessed.",
			summary.TagClearFailures, tag)
	}

	return summary, nil
}
