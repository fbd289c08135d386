package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

var ErrProviderNotFound = errors.New("provider not found")

// Model is one entry of a provider's general file.
type Model struct {
	ID         string `json:"id"`
	Provider   string `json:"provider"`
	Primary    string `json:"primary,omitempty"`
	HasPricing bool   `json:"hasPricing"`
}

// Provider is the view of one general file: reserved keys become metadata,
// everything else is a model entry.
type Provider struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`
	Default     string  `json:"default,omitempty"`
	Models      []Model `json:"models"`

	generalRaw []byte
	pricingRaw []byte
}

// Catalog is the loaded provider/model view of a catalog repository. It is
// reloadable; readers always see a complete snapshot.
type Catalog struct {
	mu         sync.RWMutex
	generalDir string
	pricingDir string
	reserved   map[string]bool
	providers  map[string]*Provider
}

func New(cfg Config) *Catalog {
	return &Catalog{
		generalDir: cfg.GeneralDir,
		pricingDir: cfg.PricingDir,
		reserved:   cfg.ReservedSet(),
		providers:  make(map[string]*Provider),
	}
}

// Load reads every general file and its pricing counterpart from disk and
// replaces the current snapshot.
func (c *Catalog) Load() error {
	matches, err := filepath.Glob(filepath.Join(c.generalDir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan %s: %w", c.generalDir, err)
	}

	providers := make(map[string]*Provider, len(matches))
	for _, path := range matches {
		provider, err := c.loadProvider(path)
		if err != nil {
			return err
		}
		providers[provider.ID] = provider
	}

	c.mu.Lock()
	c.providers = providers
	c.mu.Unlock()
	return nil
}

func (c *Catalog) loadProvider(generalPath string) (*Provider, error) {
	general, err := os.ReadFile(generalPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", generalPath, err)
	}
	root := gjson.ParseBytes(general)
	if !gjson.ValidBytes(general) || !root.IsObject() {
		return nil, fmt.Errorf("parse %s: not a JSON object", generalPath)
	}

	base := filepath.Base(generalPath)
	provider := &Provider{
		ID:         strings.TrimSuffix(base, filepath.Ext(base)),
		generalRaw: general,
	}

	pricingPath := filepath.Join(c.pricingDir, base)
	if pricing, err := os.ReadFile(pricingPath); err == nil && gjson.ValidBytes(pricing) {
		provider.pricingRaw = pricing
	}

	root.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		switch {
		case id == "name":
			provider.Name = value.String()
		case id == "description":
			provider.Description = value.String()
		case id == "default":
			provider.Default = value.String()
		case c.reserved[id]:
			// reserved key with no metadata mapping, ignore
		default:
			provider.Models = append(provider.Models, Model{
				ID:         id,
				Provider:   provider.ID,
				Primary:    value.Get("type.primary").String(),
				HasPricing: provider.pricingRaw != nil && gjson.GetBytes(provider.pricingRaw, escapePath(id)).Exists(),
			})
		}
		return true
	})

	sort.Slice(provider.Models, func(i, j int) bool {
		return provider.Models[i].ID < provider.Models[j].ID
	})
	return provider, nil
}

// Providers returns the loaded providers sorted by ID.
func (c *Catalog) Providers() []Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.providers))
	for id := range c.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	providers := make([]Provider, 0, len(ids))
	for _, id := range ids {
		providers = append(providers, *c.providers[id])
	}
	return providers
}

// Models returns every model across providers, sorted by provider then ID.
func (c *Catalog) Models() []Model {
	var models []Model
	for _, provider := range c.Providers() {
		models = append(models, provider.Models...)
	}
	return models
}

// Merged returns the provider's general document with each model's pricing
// entry injected as a "pricing" member. All bytes of the general document
// outside the injected members are preserved as-is.
func (c *Catalog) Merged(providerID string) ([]byte, error) {
	c.mu.RLock()
	provider, ok := c.providers[providerID]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
	}

	merged := provider.generalRaw
	if provider.pricingRaw == nil {
		return merged, nil
	}

	for _, model := range provider.Models {
		pricing := gjson.GetBytes(provider.pricingRaw, escapePath(model.ID))
		if !pricing.Exists() {
			continue
		}
		var err error
		merged, err = sjson.SetRawBytes(merged, escapePath(model.ID)+".pricing", []byte(pricing.Raw))
		if err != nil {
			return nil, fmt.Errorf("merge pricing for %s: %w", model.ID, err)
		}
	}
	return merged, nil
}

// WatchPaths returns the directories the server should watch for reloads.
func (c *Catalog) WatchPaths() []string {
	return []string{c.generalDir, c.pricingDir}
}

// escapePath makes a model ID safe to use as a single gjson/sjson path
// component; IDs like "gpt-4.1" contain path syntax otherwise.
func escapePath(id string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`.`, `\.`,
		`*`, `\*`,
		`?`, `\?`,
	)
	return replacer.Replace(id)
}
