package main

import "fmt"

// FetchError reports a failed listing or pagination request. Listing runs once
// at startup, so the caller aborts the run rather than proceeding with a
// partial registry.
type FetchError struct {
	StatusCode int
	URL        string
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports a failed product update. Fatal for the item: the
// update is not retried because the API offers no idempotency key.
type MutationError struct {
	ProductID  int64
	StatusCode int
	Body       string
	Err        error
}

func (e *MutationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("updating product %d: %v", e.ProductID, e.Err)
	}
	return fmt.Sprintf("updating product %d: HTTP %d: %s", e.ProductID, e.StatusCode, e.Body)
}

func (e *MutationError) Unwrap() error { return e.Err }

// RedirectError reports a failed redirect creation. Non-fatal: a missing
// redirect degrades SEO but the item has already been renamed, and retrying
// the whole item would mint a different handle.
type RedirectError struct {
	OldHandle  string
	NewHandle  string
	StatusCode int
	Body       string
	Err        error
}

func (e *RedirectError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("creating redirect %s -> %s: %v", e.OldHandle, e.NewHandle, e.Err)
	}
	return fmt.Sprintf("creating redirect %s -> %s: HTTP %d: %s", e.OldHandle, e.NewHandle, e.StatusCode, e.Body)
}

func (e *RedirectError) Unwrap() error { return e.Err }

// TagClearError reports a failure to remove the processing marker after the
// product content was already updated. The item stays eligible for the next
// run, which would mint a second handle and title, so this is surfaced
// distinctly for manual follow-up.
type TagClearError struct {
	ProductID int64
	Err       error
}

func (e *TagClearError) Error() string {
	return fmt.Sprintf("clearing processing tag on product %d: %v", e.ProductID, e.Err)
}

func (e *TagClearError) Unwrap() error { return e.Err }
