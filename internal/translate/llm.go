package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"pdf-translator/internal/logger"
)

// BatchSeparator is the delimiter used to separate text blocks in a batch for translation
const BatchSeparator = "\n---BLOCK_SEPARATOR---\n"

const (
	// llmMaxItems bounds texts per chat completion so the model keeps the
	// separators intact.
	llmMaxItems = 30
	// llmMaxChars bounds the combined prompt payload per call.
	llmMaxChars = 4000
)

// chatModel is the slice of eino's chat-model surface the provider uses.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

// LLMConfig configures the chat-model translation provider.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// LLMProvider translates through an OpenAI-compatible chat model, packing
// texts into one prompt with block separators and splitting the completion
// back by index.
type LLMProvider struct {
	model     chatModel
	modelName string
}

// NewLLMProvider creates a chat-model translation provider.
func NewLLMProvider(ctx context.Context, cfg LLMConfig) (*LLMProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm provider requires an API key")
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  cfg.Model,
		APIKey: cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		chatModelConfig.BaseURL = cfg.BaseURL
	}

	cm, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	return &LLMProvider{model: cm, modelName: cfg.Model}, nil
}

// Name identifies the provider.
func (p *LLMProvider) Name() string { return "llm" }

// Limits returns the chat-model request ceilings.
func (p *LLMProvider) Limits() (maxItems, maxChars int) {
	return llmMaxItems, llmMaxChars
}

// Translate packs texts into one separator-delimited prompt and realigns the
// completion by index.
func (p *LLMProvider) Translate(ctx context.Context, texts []string, targetLang string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batchText := strings.Join(texts, BatchSeparator)

	logger.Debug("calling chat model",
		logger.String("model", p.modelName),
		logger.Int("items", len(texts)),
		logger.Int("textLen", len(batchText)))

	var content string
	err := withRetry(ctx, DefaultMaxRetries, func() error {
		resp, err := p.model.Generate(ctx, []*schema.Message{
			schema.SystemMessage(buildSystemPrompt(targetLang)),
			schema.UserMessage(buildUserPrompt(batchText, targetLang)),
		})
		if err != nil {
			return err
		}
		if resp == nil || resp.Content == "" {
			return fmt.Errorf("chat model returned empty completion")
		}
		content = resp.Content
		return nil
	})
	if err != nil {
		return nil, err
	}

	return splitTranslatedText(content, len(texts)), nil
}

// splitTranslatedText splits the completion by BatchSeparator and ensures the
// number of parts matches the expected count: short results are padded with
// empty strings, excess parts are merged into the last slot since the
// separator may legitimately appear in translated content.
func splitTranslatedText(translatedText string, expectedCount int) []string {
	parts := strings.Split(translatedText, BatchSeparator)

	if len(parts) == expectedCount {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}

	if len(parts) < expectedCount {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		for len(parts) < expectedCount {
			parts = append(parts, "")
		}
		return parts
	}

	result := make([]string, expectedCount)
	for i := 0; i < expectedCount-1; i++ {
		result[i] = strings.TrimSpace(parts[i])
	}
	remaining := parts[expectedCount-1:]
	result[expectedCount-1] = strings.TrimSpace(strings.Join(remaining, BatchSeparator))
	return result
}

// buildSystemPrompt creates the system prompt for document text translation
func buildSystemPrompt(targetLang string) string {
	return fmt.Sprintf(`You are a professional translator specializing in academic and technical documents.
Your task is to translate text extracted from documents into the language with code %q.

CRITICAL RULES:
1. Translate the text content accurately into the target language.
2. Preserve any mathematical formulas, symbols, or special characters exactly as they are.
3. Do not add any explanations or notes - output only the translated text.
4. IMPORTANT: The input may contain multiple text blocks separated by "%s".
5. You MUST preserve these separators in your output exactly as they appear.
6. Each block should be translated independently but the separators must remain intact.
7. Do not merge blocks or remove separators.`, targetLang, BatchSeparator)
}

// buildUserPrompt creates the user prompt with the content to translate
func buildUserPrompt(batchText, targetLang string) string {
	return fmt.Sprintf(`Translate the following text into the language with code %q.
If there are multiple blocks separated by "%s", translate each block separately and keep the separators in your output.

%s`, targetLang, BatchSeparator, batchText)
}
