package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const listPageSize = 250

// ShopifyClient talks to the Shopify Admin REST API for the four operations
// the pipeline needs: paginated listing, product update, redirect creation,
// and variant price update.
type ShopifyClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewShopifyClient creates a client for the given store subdomain and token.
func NewShopifyClient(store, token, apiVersion string) *ShopifyClient {
	return &ShopifyClient{
		baseURL: fmt.Sprintf("https://%s.myshopify.com/admin/api/%s", store, apiVersion),
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *ShopifyClient) do(method, url string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)

	return c.client.Do(req)
}

// ListProducts walks the paginated products endpoint and returns every
// product. status filters server-side ("draft", "active", ...); empty means
// all statuses. An empty store yields an empty slice, not an error.
func (c *ShopifyClient) ListProducts(status string, fields string) ([]Product, error) {
	url := fmt.Sprintf("%s/products.json?limit=%d", c.baseURL, listPageSize)
	if status != "" {
		url += "&status=" + status
	}
	if fields != "" {
		url += "&fields=" + fields
	}

	var products []Product
	for url != "" {
		resp, err := c.do(http.MethodGet, url, nil)
		if err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, &FetchError{StatusCode: resp.StatusCode, URL: url}
		}

		var page struct {
			Products []Product `json:"products"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		link := resp.Header.Get("Link")
		resp.Body.Close()
		if err != nil {
			return nil, &FetchError{URL: url, Err: fmt.Errorf("decoding page: %w", err)}
		}

		products = append(products, page.Products...)
		url = parseNextLink(link)
		debugLog("listed page: %d products, next=%q", len(page.Products), url)
	}

	return products, nil
}

// DraftProductsWithTag lists draft products and keeps those carrying the tag
// (case-insensitive membership in the comma-joined tag string).
func (c *ShopifyClient) DraftProductsWithTag(tag string) ([]Product, error) {
	products, err := c.ListProducts("draft", "id,title,body_html,handle,product_type,tags")
	if err != nil {
		return nil, err
	}

	var matched []Product
	for _, p := range products {
		if hasTag(p.Tags, tag) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// ProductsWithTag lists products of any status carrying the tag, including
// their variants. Used by the price updater.
func (c *ShopifyClient) ProductsWithTag(tag string) ([]Product, error) {
	products, err := c.ListProducts("", "id,title,handle,tags,variants")
	if err != nil {
		return nil, err
	}

	var matched []Product
	for _, p := range products {
		if hasTag(p.Tags, tag) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// UpdateContent performs the single content mutation for a product: new
// title, description, handle, and the global SEO metafields.
func (c *ShopifyClient) UpdateContent(productID int64, title, bodyHTML, handle, seoTitle, seoMeta string) error {
	return c.putProduct(productID, map[string]any{
		"id":                                productID,
		"title":                             title,
		"body_html":                         bodyHTML,
		"handle":                            handle,
		"metafields_global_title_tag":       seoTitle,
		"metafields_global_description_tag": seoMeta,
	})
}

// UpdateTags replaces a product's tag string.
func (c *ShopifyClient) UpdateTags(productID int64, tags string) error {
	return c.putProduct(productID, map[string]any{
		"id":   productID,
		"tags": tags,
	})
}

func (c *ShopifyClient) putProduct(productID int64, fields map[string]any) error {
	url := fmt.Sprintf("%s/products/%d.json", c.baseURL, productID)
	resp, err := c.do(http.MethodPut, url, map[string]any{"product": fields})
	if err != nil {
		return &MutationError{ProductID: productID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &MutationError{ProductID: productID, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// CreateRedirect stores a redirect from the retired product path to its
// replacement, preserving inbound links after a rename.
func (c *ShopifyClient) CreateRedirect(oldHandle, newHandle string) error {
	payload := map[string]any{
		"redirect": map[string]string{
			"path":   "/products/" + oldHandle,
			"target": "/products/" + newHandle,
		},
	}

	resp, err := c.do(http.MethodPost, c.baseURL+"/redirects.json", payload)
	if err != nil {
		return &RedirectError{OldHandle: oldHandle, NewHandle: newHandle, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &RedirectError{OldHandle: oldHandle, NewHandle: newHandle, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

// UpdateVariantPrice sets a variant's price. Shopify expects the price as a
// decimal string.
func (c *ShopifyClient) UpdateVariantPrice(variantID int64, price string) error {
	url := fmt.Sprintf("%s/variants/%d.json", c.baseURL, variantID)
	payload := map[string]any{
		"variant": map[string]any{
			"id":    variantID,
			"price": price,
		},
	}

	resp, err := c.do(http.MethodPut, url, payload)
	if err != nil {
		return fmt.Errorf("updating variant %d: %w", variantID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("updating variant %d: HTTP %d: %s", variantID, resp.StatusCode, string(body))
	}
	return nil
}

// Ping fetches a handful of products to verify store name and token.
func (c *ShopifyClient) Ping() ([]Product, error) {
	url := c.baseURL + "/products.json?limit=5&fields=id,title,handle"
	resp, err := c.do(http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: url}
	}

	var page struct {
		Products []Product `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return page.Products, nil
}

// parseNextLink extracts the rel="next" URL from a Link response header.
// Returns "" when there is no further page.
func parseNextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ",") {
		if !strings.Contains(part, `rel="next"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}
	return ""
}

// hasTag reports whether tag appears in a comma-joined Shopify tag string,
// comparing case-insensitively against each trimmed entry.
func hasTag(tags, tag string) bool {
	if tags == "" {
		return false
	}
	for _, t := range strings.Split(tags, ",") {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// removeTag drops every case-insensitive occurrence of tag from a
// comma-joined tag string, preserving the order of the remaining tags.
func removeTag(tags, tag string) string {
	if tags == "" {
		return ""
	}
	var kept []string
	for _, t := range strings.Split(tags, ",") {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" || strings.EqualFold(trimmed, tag) {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, ", ")
}
