// Package chat holds parley's boundary to its external collaborators: the
// model catalog (display metadata only) and the chat-completion service.
// Neither participates in authentication; they are deliberately thin.
package chat

import "sort"

// Cost is per-unit display pricing. Nil means the model does not price that
// unit. Values are informational; nothing in the server meters usage.
type Cost struct {
	InputPerMTokens  *float64 `json:"input_per_m_tokens"`
	OutputPerMTokens *float64 `json:"output_per_m_tokens"`
	ImagePerKImages  *float64 `json:"image_per_k_images"`
}

// Model is a catalog entry.
type Model struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Cost        Cost   `json:"cost"`
}

// Catalog is a static, read-only model list.
type Catalog struct {
	byID  map[string]Model
	order []string

	defaultID string
}

// DefaultCatalog returns the built-in model table.
func DefaultCatalog() *Catalog {
	f := func(v float64) *float64 { return &v }

	models := []Model{
		{ID: "openai/gpt-4o-mini", DisplayName: "OpenAI - ChatGPT 4o mini",
			Cost: Cost{InputPerMTokens: f(0.15), OutputPerMTokens: f(0.6), ImagePerKImages: f(7.225)}},
		{ID: "google/gemini-2.0-flash-lite-001", DisplayName: "Google Gemini 2.0 Flash Lite",
			Cost: Cost{InputPerMTokens: f(0.075), OutputPerMTokens: f(0.3)}},
		{ID: "anthropic/claude-3.7-sonnet", DisplayName: "Claude Sonnet 3.7",
			Cost: Cost{InputPerMTokens: f(3), OutputPerMTokens: f(15), ImagePerKImages: f(4.8)}},
		{ID: "anthropic/claude-3.7-sonnet:thinking", DisplayName: "Claude Sonnet 3.7 (thinking)",
			Cost: Cost{InputPerMTokens: f(3), OutputPerMTokens: f(15), ImagePerKImages: f(4.8)}},
		{ID: "meta-llama/llama-3.1-70b-instruct", DisplayName: "Llama 3.1 70B",
			Cost: Cost{InputPerMTokens: f(0.12), OutputPerMTokens: f(0.3)}},
	}

	return NewCatalog(models, "openai/gpt-4o-mini")
}

// NewCatalog builds a catalog from entries, preserving their order.
func NewCatalog(models []Model, defaultID string) *Catalog {
	c := &Catalog{
		byID:      make(map[string]Model, len(models)),
		order:     make([]string, 0, len(models)),
		defaultID: defaultID,
	}
	for _, m := range models {
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		c.byID[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	if _, ok := c.byID[c.defaultID]; !ok && len(c.order) > 0 {
		c.defaultID = c.order[0]
	}
	return c
}

// Get returns the model for id.
func (c *Catalog) Get(id string) (Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// DefaultID returns the model preselected in the UI.
func (c *Catalog) DefaultID() string { return c.defaultID }

// List returns all models in catalog order.
func (c *Catalog) List() []Model {
	out := make([]Model, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// IDs returns the sorted model identifiers (for deterministic logs/tests).
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
