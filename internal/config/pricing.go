package config

import "strings"

// FamilyPricing holds per-million-token prices for one model family,
// together with the identifier patterns that resolve to it.
type FamilyPricing struct {
	// Family is the canonical display name, e.g. "Sonnet 4.5". Costs are
	// grouped under this name everywhere so terminal, HTML, Markdown and
	// JSON output agree.
	Family string

	// Patterns are matched as substrings against the lowercased model
	// identifier. Identifiers embed version and date suffixes
	// ("claude-sonnet-4-5-20250522"), so substring matching keeps those
	// from defeating the lookup.
	Patterns []string

	InputPerMTok      float64
	OutputPerMTok     float64
	CacheWritePerMTok float64
	CacheReadPerMTok  float64
}

// PricingTable maps model identifiers to family rates. Order matters:
// entries are tried top to bottom, most specific pattern first, so
// "sonnet-4-5" wins over the bare "sonnet" fallback.
var PricingTable = []FamilyPricing{
	{
		Family:       "Opus 4.5",
		Patterns:     []string{"opus-4-5", "opus-4.5"},
		InputPerMTok: 5.00, OutputPerMTok: 25.00,
		CacheWritePerMTok: 6.25, CacheReadPerMTok: 0.50,
	},
	{
		Family:       "Opus 4.1",
		Patterns:     []string{"opus-4-1", "opus-4.1"},
		InputPerMTok: 15.00, OutputPerMTok: 75.00,
		CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
	},
	{
		Family:       "Opus",
		Patterns:     []string{"opus"},
		InputPerMTok: 15.00, OutputPerMTok: 75.00,
		CacheWritePerMTok: 18.75, CacheReadPerMTok: 1.50,
	},
	{
		Family:       "Sonnet 4.5",
		Patterns:     []string{"sonnet-4-5", "sonnet-4.5"},
		InputPerMTok: 3.00, OutputPerMTok: 15.00,
		CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
	},
	{
		Family:       "Sonnet",
		Patterns:     []string{"sonnet"},
		InputPerMTok: 3.00, OutputPerMTok: 15.00,
		CacheWritePerMTok: 3.75, CacheReadPerMTok: 0.30,
	},
	{
		Family:       "Haiku 4.5",
		Patterns:     []string{"haiku-4-5", "haiku-4.5"},
		InputPerMTok: 1.00, OutputPerMTok: 5.00,
		CacheWritePerMTok: 1.25, CacheReadPerMTok: 0.10,
	},
	{
		Family:       "Haiku 3.5",
		Patterns:     []string{"haiku-3-5", "haiku-3.5"},
		InputPerMTok: 0.80, OutputPerMTok: 4.00,
		CacheWritePerMTok: 1.00, CacheReadPerMTok: 0.08,
	},
	{
		Family:       "Haiku",
		Patterns:     []string{"haiku"},
		InputPerMTok: 0.80, OutputPerMTok: 4.00,
		CacheWritePerMTok: 1.00, CacheReadPerMTok: 0.08,
	},
}

// ResolveFamily returns the pricing row for a raw model identifier.
// Unknown identifiers return ok=false rather than a sentinel row.
func ResolveFamily(model string) (FamilyPricing, bool) {
	lower := strings.ToLower(model)
	for _, fp := range PricingTable {
		for _, pat := range fp.Patterns {
			if strings.Contains(lower, pat) {
				return fp, true
			}
		}
	}
	return FamilyPricing{}, false
}

// SimplifyModelName collapses a verbose model identifier to its family
// display name. Unrecognized identifiers pass through unchanged.
func SimplifyModelName(model string) string {
	if fp, ok := ResolveFamily(model); ok {
		return fp.Family
	}
	return model
}

// Cost computes the estimated USD cost for one record's token counts.
// ok=false means the model is unknown: the tokens still count toward
// totals, they just contribute nothing to cost.
func Cost(model string, inputTokens, outputTokens, cacheWriteTokens, cacheReadTokens int64) (float64, bool) {
	fp, ok := ResolveFamily(model)
	if !ok {
		return 0, false
	}

	cost := float64(inputTokens) * fp.InputPerMTok / 1_000_000
	cost += float64(outputTokens) * fp.OutputPerMTok / 1_000_000
	cost += float64(cacheWriteTokens) * fp.CacheWritePerMTok / 1_000_000
	cost += float64(cacheReadTokens) * fp.CacheReadPerMTok / 1_000_000
	return cost, true
}

// ApplyPricingOverrides patches the table in place with user-configured
// rates. Called once at startup, before any aggregation runs.
func ApplyPricingOverrides(overrides map[string]ModelPricingOverride) {
	for i := range PricingTable {
		ov, ok := overrides[PricingTable[i].Family]
		if !ok {
			continue
		}
		if ov.InputPerMTok != nil {
			PricingTable[i].InputPerMTok = *ov.InputPerMTok
		}
		if ov.OutputPerMTok != nil {
			PricingTable[i].OutputPerMTok = *ov.OutputPerMTok
		}
		if ov.CacheWritePerMTok != nil {
			PricingTable[i].CacheWritePerMTok = *ov.CacheWritePerMTok
		}
		if ov.CacheReadPerMTok != nil {
			PricingTable[i].CacheReadPerMTok = *ov.CacheReadPerMTok
		}
	}
}
