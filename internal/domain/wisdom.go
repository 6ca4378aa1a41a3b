package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

type Warmth string

const (
	WarmthHigh   Warmth = "high"
	WarmthMedium Warmth = "medium"
	WarmthLow    Warmth = "low"
)

func ValidWarmth(w string) bool {
	switch Warmth(w) {
	case WarmthHigh, WarmthMedium, WarmthLow:
		return true
	}
	return false
}

type NodeTier string

const (
	TierUniversal NodeTier = "universal"
	TierSacred    NodeTier = "sacred"
)

func ValidNodeTier(t string) bool {
	switch NodeTier(t) {
	case TierUniversal, TierSacred:
		return true
	}
	return false
}

// Evidence is one supporting quote with an optional locator (page, URL
// fragment, chapter) pointing back into the source.
type Evidence struct {
	Quote   string `json:"quote"`
	Locator string `json:"locator,omitempty"`
}

// EvidenceList decodes the evidence field of a corpus record. Older packs
// stored evidence as a bare string or a list of strings; both forms are
// accepted and normalized to (quote, locator) pairs with an empty locator.
type EvidenceList []Evidence

func (l *EvidenceList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var quote string
		if err := json.Unmarshal(data, &quote); err != nil {
			return err
		}
		*l = EvidenceList{{Quote: quote}}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	out := make(EvidenceList, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var quote string
			if err := json.Unmarshal(item, &quote); err != nil {
				return err
			}
			out = append(out, Evidence{Quote: quote})
			continue
		}
		var ev Evidence
		if err := json.Unmarshal(item, &ev); err != nil {
			return err
		}
		out = append(out, ev)
	}
	*l = out
	return nil
}

// WisdomNode is a single curated, provenance-tagged knowledge record.
// Nodes are loaded once from a corpus pack and never mutated at runtime.
type WisdomNode struct {
	ID           string         `json:"id"`
	Insight      string         `json:"core_insight"`
	Reflection   string         `json:"ethical_reflection"`
	Evidence     EvidenceList   `json:"evidence,omitempty"`
	Counterpoint string         `json:"counterpoint,omitempty"`
	Posterior    float64        `json:"posterior"`
	Warmth       Warmth         `json:"warmth,omitempty"`
	Tier         NodeTier       `json:"tier,omitempty"`
	SourceType   string         `json:"source_type,omitempty"`
	SourceURI    string         `json:"source_uri,omitempty"`
	Lineage      map[string]any `json:"lineage,omitempty"`
	Timestamp    string         `json:"timestamp,omitempty"`
}

// SearchText returns the node text considered during retrieval: the insight,
// the reflection, and every evidence quote.
func (n WisdomNode) SearchText() string {
	parts := make([]string, 0, 2+len(n.Evidence))
	parts = append(parts, n.Insight, n.Reflection)
	for _, ev := range n.Evidence {
		parts = append(parts, ev.Quote)
	}
	return strings.Join(parts, " ")
}

// PackManifest identifies a loaded corpus pack.
type PackManifest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Nodes       int    `json:"nodes"`
	Questions   int    `json:"questions"`
	Precomputed int    `json:"precomputed"`
}
