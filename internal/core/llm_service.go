package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"dreamweaver.app/journal/internal/config"
	"dreamweaver.app/journal/internal/store"
)

const (
	analysisSystemInstruction = "You are an expert Jungian dream interpreter and psychologist. " +
		"Analyze the user's dream description. " +
		"Provide a title, a short summary, a deeper psychological interpretation, " +
		"the dominant mood, and a list of 5 key emotions with intensity scores (1-100) present in the dream. " +
		"Also extract 3-5 keywords."

	// The SDK exposes no image config, so the square 1:1 framing is asked
	// for in the prompt itself.
	imagePromptTemplate = "A surreal, artistic, and dreamlike digital painting representing this dream: %q. " +
		"The mood is %s. High quality, ethereal lighting, abstract but recognizable forms, " +
		"mystical atmosphere, 4k resolution, cinematic composition, square 1:1 aspect ratio."

	chatFallbackReply = "I'm having trouble connecting to the dream realm right now."
)

// analysisSchema constrains the analysis model to emit only JSON matching
// store.DreamAnalysis.
var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":          {Type: genai.TypeString},
		"summary":        {Type: genai.TypeString},
		"interpretation": {Type: genai.TypeString},
		"mood":           {Type: genai.TypeString},
		"emotions": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":  {Type: genai.TypeString},
					"value": {Type: genai.TypeInteger, Description: "Intensity from 1 to 100"},
				},
			},
		},
		"keywords": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
}

// LLMService wraps the Gemini client behind the three journal operations:
// dream analysis, dream imagery and the Dream Guide chat.
type LLMService struct {
	client *genai.Client
	cfg    *config.Config
	log    zerolog.Logger
}

func NewLLMService(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*LLMService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &LLMService{client: client, cfg: cfg, log: log}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.log.Warn().Err(err).Msg("error closing GenAI client")
		}
	}
}

// AnalyzeDream classifies a free-text dream description into a structured
// analysis. The request asks for schema-constrained JSON output; anything
// that still fails to parse is a ProviderError. No retries, a single
// failure propagates.
func (s *LLMService) AnalyzeDream(ctx context.Context, dreamText string) (*store.DreamAnalysis, error) {
	model := s.client.GenerativeModel(s.cfg.AnalysisModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(analysisSystemInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = analysisSchema

	resp, err := model.GenerateContent(ctx, genai.Text(dreamText))
	if err != nil {
		return nil, &ProviderError{Op: "analysis", Err: err}
	}

	raw := textFromResponse(resp)
	if raw == "" {
		return nil, &ProviderError{Op: "analysis", Err: errors.New("model returned no text")}
	}

	var analysis store.DreamAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, &ProviderError{Op: "analysis", Err: fmt.Errorf("response did not match the analysis shape: %w", err)}
	}
	return &analysis, nil
}

// GenerateDreamImage asks for a single illustrative image of the dream and
// returns it as a browser-renderable data URI. A response without an
// inline image yields "", nil; call errors are reported so the caller can
// decide to degrade.
func (s *LLMService) GenerateDreamImage(ctx context.Context, dreamText, mood string) (string, error) {
	model := s.client.GenerativeModel(s.cfg.ImageModel)
	prompt := fmt.Sprintf(imagePromptTemplate, dreamText, mood)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", &ProviderError{Op: "image", Err: err}
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			uri := fmt.Sprintf("data:%s;base64,%s", blob.MIMEType, base64.StdEncoding.EncodeToString(blob.Data))
			return uri, nil
		}
	}
	return "", nil
}

// DreamChat sends one Dream Guide turn. history carries only turns settled
// before this call; newMessage must not appear in it. The session is
// rebuilt per call from that history plus a system instruction grounded in
// the entry's analysis. An empty reply becomes a fixed fallback string,
// not an error.
func (s *LLMService) DreamChat(ctx context.Context, history []store.ChatMessage, newMessage string, analysis *store.DreamAnalysis) (string, error) {
	model := s.client.GenerativeModel(s.cfg.ChatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatSystemInstruction(analysis))},
	}

	session := model.StartChat()
	for _, msg := range history {
		session.History = append(session.History, &genai.Content{
			Role:  msg.Role,
			Parts: []genai.Part{genai.Text(msg.Text)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(newMessage))
	if err != nil {
		return "", &ProviderError{Op: "chat", Err: err}
	}

	reply := textFromResponse(resp)
	if reply == "" {
		s.log.Warn().Msg("chat response held no text, using fallback reply")
		return chatFallbackReply, nil
	}
	return reply, nil
}

func chatSystemInstruction(analysis *store.DreamAnalysis) string {
	return fmt.Sprintf(
		"You are a wise and empathetic Dream Guide. "+
			"You are currently discussing a specific dream with the user.\n\n"+
			"Here is the analysis of the dream you are discussing:\n"+
			"Title: %s\n"+
			"Summary: %s\n"+
			"Interpretation: %s\n"+
			"Mood: %s\n\n"+
			"Answer the user's questions about this dream, explore deeper meanings, "+
			"and provide psychological insights based on Jungian archetypes if relevant. "+
			"Keep responses concise (under 100 words) but insightful.",
		analysis.Title, analysis.Summary, analysis.Interpretation, analysis.Mood,
	)
}

// textFromResponse concatenates the text parts of the first candidate.
func textFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return b.String()
}
