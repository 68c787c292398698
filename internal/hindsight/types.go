package hindsight

import "strings"

// Budget is the coarse cost/quality tier accepted by recall and reflect.
type Budget string

const (
	BudgetLow  Budget = "low"
	BudgetMid  Budget = "mid"
	BudgetHigh Budget = "high"
)

// Disposition holds the Big Five traits of a bank plus how strongly they bias opinions.
// Every value lies in [0,1].
type Disposition struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extraversion      float64 `json:"extraversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
	BiasStrength      float64 `json:"bias_strength"`
}

// Bank is a named memory container.
type Bank struct {
	ID          string      `json:"bank_id"`
	Name        string      `json:"name"`
	Background  string      `json:"background"`
	Disposition Disposition `json:"personality"`
	CreatedAt   string      `json:"created_at,omitempty"`
	UpdatedAt   string      `json:"updated_at,omitempty"`
}

// DisplayName falls back to a placeholder for banks created without a name.
func (b Bank) DisplayName() string {
	if strings.TrimSpace(b.Name) == "" {
		return "Unnamed"
	}
	return b.Name
}

// Profile is the identity and disposition of a single bank.
type Profile struct {
	BankID      string      `json:"bank_id"`
	Name        string      `json:"name"`
	Background  string      `json:"background"`
	Disposition Disposition `json:"personality"`
}

// Stats summarizes the contents of a bank.
type Stats struct {
	BankID            string                    `json:"bank_id"`
	TotalMemoryUnits  int                       `json:"total_nodes"`
	TotalLinks        int                       `json:"total_links"`
	TotalDocuments    int                       `json:"total_documents"`
	NodesByFactType   map[string]int            `json:"nodes_by_fact_type"`
	LinksByLinkType   map[string]int            `json:"links_by_link_type"`
	LinksByFactType   map[string]int            `json:"links_by_fact_type"`
	LinksBreakdown    map[string]map[string]int `json:"links_breakdown"`
	PendingOperations int                       `json:"pending_operations"`
	FailedOperations  int                       `json:"failed_operations"`
}

// Memory is one memory unit as returned by the list endpoint.
type Memory struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	Context   string `json:"context,omitempty"`
	Date      string `json:"date,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Created returns the calendar date of the memory, or "unknown".
func (m Memory) Created() string {
	value := m.CreatedAt
	if value == "" {
		value = m.Date
	}
	if value == "" {
		return "unknown"
	}
	day, _, _ := strings.Cut(value, "T")
	return day
}

// Entity is a person, organization or other named thing the bank knows about.
type Entity struct {
	ID            string `json:"id"`
	CanonicalName string `json:"canonical_name"`
	MentionCount  int    `json:"mention_count"`
	FirstSeen     string `json:"first_seen,omitempty"`
	LastSeen      string `json:"last_seen,omitempty"`
}

// Document is source content from which memory units were extracted.
type Document struct {
	ID              string `json:"id"`
	BankID          string `json:"bank_id,omitempty"`
	ContentType     string `json:"content_type,omitempty"`
	ContentHash     string `json:"content_hash,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	UpdatedAt       string `json:"updated_at,omitempty"`
	TextLength      int    `json:"text_length,omitempty"`
	MemoryUnitCount int    `json:"memory_unit_count,omitempty"`
}

// ListOptions filters and pages the memory and document listings.
type ListOptions struct {
	Type   string
	Query  string
	Limit  int
	Offset int
}

// RecallRequest is the body of a recall call.
type RecallRequest struct {
	Query     string   `json:"query"`
	Types     []string `json:"types,omitempty"`
	Budget    Budget   `json:"budget,omitempty"`
	MaxTokens int      `json:"max_tokens"`
	Trace     bool     `json:"trace"`
}

// RecallResult is one ranked memory snippet.
type RecallResult struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Type          string   `json:"type,omitempty"`
	Entities      []string `json:"entities,omitempty"`
	Context       string   `json:"context,omitempty"`
	OccurredStart string   `json:"occurred_start,omitempty"`
	OccurredEnd   string   `json:"occurred_end,omitempty"`
	MentionedAt   string   `json:"mentioned_at,omitempty"`
	DocumentID    string   `json:"document_id,omitempty"`
}

// TypeLabel returns the fact type, or "unknown" when the service omitted it.
func (r RecallResult) TypeLabel() string {
	if r.Type == "" {
		return "unknown"
	}
	return r.Type
}

// RecallResponse carries ranked results and, when requested, a trace.
type RecallResponse struct {
	Results []RecallResult `json:"results"`
	Trace   map[string]any `json:"trace,omitempty"`
}

// ReflectRequest is the body of a reflect call.
type ReflectRequest struct {
	Query   string `json:"query"`
	Budget  Budget `json:"budget,omitempty"`
	Context string `json:"context,omitempty"`
}

// ReflectFact is a fact the generated answer was grounded in.
type ReflectFact struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}

// ReflectResponse is the synthesized answer.
type ReflectResponse struct {
	Text    string        `json:"text"`
	BasedOn []ReflectFact `json:"based_on"`
}

// BasedOnCount reports how many facts grounded the answer.
func (r ReflectResponse) BasedOnCount() int {
	return len(r.BasedOn)
}
