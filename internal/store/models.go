package store

// Chat roles. The Gemini SDK uses the same strings, so messages translate
// to provider turns without mapping.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// EmotionScore is one emotion detected in a dream with its intensity.
type EmotionScore struct {
	Name  string `json:"name"`
	Value int    `json:"value"` // intensity from 1 to 100
}

// DreamAnalysis is the structured interpretation produced for one dream.
// It is created once per entry and never modified afterwards.
type DreamAnalysis struct {
	Title          string         `json:"title"`
	Summary        string         `json:"summary"`
	Interpretation string         `json:"interpretation"`
	Mood           string         `json:"mood"`
	Emotions       []EmotionScore `json:"emotions"` // usually 5, not enforced
	Keywords       []string       `json:"keywords"` // usually 3-5, not enforced
}

// ChatMessage is one turn of the Dream Guide conversation. History grows
// only by append; messages are never mutated or reordered. Timestamps may
// run slightly out of order because user turns are recorded before the
// provider round-trip completes.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"` // milliseconds since epoch
}

// DreamEntry is one journaled dream, the unit of persistence.
type DreamEntry struct {
	ID           string         `json:"id"`
	Date         string         `json:"date"` // RFC 3339
	OriginalText string         `json:"originalText"`
	Analysis     *DreamAnalysis `json:"analysis"`
	ImageURL     string         `json:"imageUrl,omitempty"` // data URI, empty when generation failed
	ChatHistory  []ChatMessage  `json:"chatHistory"`
}
