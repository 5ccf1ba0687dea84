package model

import (
	"fmt"
	"sort"
)

// Family identifies the upstream provider family that serves a model.
type Family string

// String returns the family identifier.
func (f Family) String() string { return string(f) }

// Supported provider families.
const (
	FamilyAnthropic Family = "anthropic"
	FamilyOpenAI    Family = "openai"
	FamilyGoogle    Family = "google"
)

// ID is a logical model identifier. IDs are decoupled from the provider's own
// model strings; each adapter owns the table that maps an ID to its wire name.
type ID string

// String returns the logical identifier.
func (id ID) String() string { return string(id) }

// Anthropic Claude models
const (
	ClaudeHaiku45  ID = "claude-haiku-4.5"
	ClaudeSonnet45 ID = "claude-sonnet-4.5"
	ClaudeOpus45   ID = "claude-opus-4.5"
)

// OpenAI GPT models
const (
	GPT4o     ID = "gpt-4o"
	GPT4oMini ID = "gpt-4o-mini"
	GPT5Mini  ID = "gpt-5-mini"
)

// Google Gemini models
const (
	Gemini25Pro       ID = "gemini-2.5-pro"
	Gemini25Flash     ID = "gemini-2.5-flash"
	Gemini25FlashLite ID = "gemini-2.5-flash-lite"

	// Gemini20FlashFree is the experimental free-tier model, billed at zero.
	Gemini20FlashFree ID = "gemini-2.0-flash-free"
)

// Info describes a registered model.
type Info struct {
	ID      ID
	Family  Family
	Pricing Pricing
}

// Model pricing last verified: December 14, 2025
var registry = map[ID]Info{
	ClaudeHaiku45:  {ID: ClaudeHaiku45, Family: FamilyAnthropic, Pricing: Pricing{InputPer1K: 0.001, OutputPer1K: 0.005}},
	ClaudeSonnet45: {ID: ClaudeSonnet45, Family: FamilyAnthropic, Pricing: Pricing{InputPer1K: 0.003, OutputPer1K: 0.015}},
	ClaudeOpus45:   {ID: ClaudeOpus45, Family: FamilyAnthropic, Pricing: Pricing{InputPer1K: 0.005, OutputPer1K: 0.025}},

	GPT4o:     {ID: GPT4o, Family: FamilyOpenAI, Pricing: Pricing{InputPer1K: 0.0025, OutputPer1K: 0.01}},
	GPT4oMini: {ID: GPT4oMini, Family: FamilyOpenAI, Pricing: Pricing{InputPer1K: 0.00015, OutputPer1K: 0.0006}},
	GPT5Mini:  {ID: GPT5Mini, Family: FamilyOpenAI, Pricing: Pricing{InputPer1K: 0.00025, OutputPer1K: 0.002}},

	Gemini25Pro:       {ID: Gemini25Pro, Family: FamilyGoogle, Pricing: Pricing{InputPer1K: 0.00125, OutputPer1K: 0.01}},
	Gemini25Flash:     {ID: Gemini25Flash, Family: FamilyGoogle, Pricing: Pricing{InputPer1K: 0.00015, OutputPer1K: 0.0006}},
	Gemini25FlashLite: {ID: Gemini25FlashLite, Family: FamilyGoogle, Pricing: Pricing{InputPer1K: 0.000075, OutputPer1K: 0.0003}},
	Gemini20FlashFree: {ID: Gemini20FlashFree, Family: FamilyGoogle, Pricing: Pricing{}},
}

// Lookup returns the registered info for id.
func Lookup(id ID) (Info, bool) {
	info, ok := registry[id]
	return info, ok
}

// Valid reports whether id is a member of the enumeration.
func (id ID) Valid() bool {
	_, ok := registry[id]
	return ok
}

// Family returns the provider family for id, or "" if id is not registered.
func (id ID) Family() Family {
	return registry[id].Family
}

// Parse converts s to an ID. Strings outside the enumeration are rejected.
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("unknown model identifier %q", s)
	}
	return id, nil
}

// All returns every registered ID in lexical order.
func All() []ID {
	ids := make([]ID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ByFamily returns the registered IDs served by f, in lexical order.
func ByFamily(f Family) []ID {
	var ids []ID
	for _, id := range All() {
		if registry[id].Family == f {
			ids = append(ids, id)
		}
	}
	return ids
}
