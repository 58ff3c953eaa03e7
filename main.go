package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	storeName    string
	accessToken  string
	apiKey       string
	settingsPath string
	tagOverride  string
	debugMode    bool
)

var debugEnabled bool

// SetDebugMode enables or disables debug logging.
func SetDebugMode(enabled bool) {
	debugEnabled = enabled
}

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf("[DEBUG] "+format, args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "shopsync",
	Short: "SEO content pipeline for Shopify product catalogs",
	Long: `shopsync rewrites draft products carrying a processing tag: it derives SEO
keywords, a store-unique handle and title, a fresh HTML description and SEO
metadata, updates the product, creates a redirect on rename, and removes the
tag so a re-run never reprocesses an item.`,
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rewrite tagged draft products and enforce handle/title uniqueness",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}

		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return fmt.Errorf("API key required: use --api-key or ANTHROPIC_API_KEY")
		}

		client, err := newClient(settings)
		if err != nil {
			return err
		}

		generator, err := NewGenerator(apiKey, settings)
		if err != nil {
			return fmt.Errorf("creating generator: %w", err)
		}

		ledger, err := newLedger(settings.Ledger)
		if err != nil {
			return err
		}

		registry := NewRegistry(ledger)
		minter := NewMinter(registry, generator, settings.BannedBrands)
		workflow := NewWorkflow(client, generator, minter, settings.ProcessingTag)
		pipeline := NewPipeline(client, workflow, registry, settings)

		_, err = pipeline.Run()
		return err
	},
}

var pricesCmd = &cobra.Command{
	Use:   "prices <tag> <multiplier>",
	Short: "Multiply variant prices for every product carrying a tag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}

		multiplier, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("multiplier must be a number, got %q", args[1])
		}

		client, err := newClient(settings)
		if err != nil {
			return err
		}

		updater := NewPriceUpdater(client, time.Duration(settings.PacingMS)*time.Millisecond)
		updated, err := updater.Run(args[0], multiplier)
		if err != nil {
			return err
		}
		log.Printf("Done. Updated %d variant prices.", updated)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify store name and access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := resolveSettings()
		if err != nil {
			return err
		}

		client, err := newClient(settings)
		if err != nil {
			return err
		}

		products, err := client.Ping()
		if err != nil {
			return fmt.Errorf("API connection failed: %w", err)
		}

		log.Printf("✓ API connection successful! Found %d products.", len(products))
		for _, p := range products {
			log.Printf("  ID: %d, Title: %s, Handle: %s", p.ID, p.Title, p.Handle)
		}
		return nil
	},
}

// resolveSettings loads settings (explicit path, or .shopsync/settings.yaml
// materialized on first run) and applies flag/env overrides.
func resolveSettings() (*Settings, error) {
	var settings *Settings
	var err error

	if settingsPath != "" {
		settings, err = loadSettingsRequired(settingsPath)
	} else {
		if err := ensureConfigExists(); err != nil {
			return nil, err
		}
		settings, err = loadSettings(getConfigPath("settings.yaml"))
	}
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	if storeName != "" {
		settings.Store = storeName
	}
	if settings.Store == "" {
		settings.Store = os.Getenv("SHOPIFY_STORE")
	}
	if tagOverride != "" {
		settings.ProcessingTag = tagOverride
	}
	return settings, nil
}

// newClient builds the Shopify client, resolving the access token from flag
// or environment.
func newClient(settings *Settings) (*ShopifyClient, error) {
	if settings.Store == "" {
		return nil, fmt.Errorf("store name required: use --store, settings.yaml, or SHOPIFY_STORE")
	}

	token := accessToken
	if token == "" {
		token = os.Getenv("SHOPIFY_API_TOKEN")
	}
	if token == "" {
		return nil, fmt.Errorf("access token required: use --token or SHOPIFY_API_TOKEN")
	}

	return NewShopifyClient(settings.Store, token, settings.APIVersion), nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "Shopify store subdomain (e.g. myshop)")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", "", "Shopify Admin API access token")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "Path to a settings.yaml (defaults to .shopsync/settings.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	updateCmd.Flags().StringVar(&apiKey, "api-key", "", "Anthropic API key")
	updateCmd.Flags().StringVar(&tagOverride, "tag", "", "Processing tag to select products (default from settings)")

	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(checkCmd)

	cobra.OnInitialize(func() {
		if debugMode {
			SetDebugMode(true)
		}
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
