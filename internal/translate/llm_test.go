package translate

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// fakeChatModel answers Generate with a scripted completion.
type fakeChatModel struct {
	reply string
	err   error
	got   []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func TestLLMProviderTranslateSplitsBySeparator(t *testing.T) {
	cm := &fakeChatModel{reply: "Bonjour" + BatchSeparator + "Au revoir"}
	p := &LLMProvider{model: cm, modelName: "test-model"}

	out, err := p.Translate(context.Background(), []string{"Hello", "Goodbye"}, "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(out) != 2 || out[0] != "Bonjour" || out[1] != "Au revoir" {
		t.Errorf("out = %v", out)
	}

	if len(cm.got) != 2 {
		t.Fatalf("got %d messages, want system + user", len(cm.got))
	}
	if cm.got[0].Role != schema.System {
		t.Errorf("first message role = %q, want system", cm.got[0].Role)
	}
	if !strings.Contains(cm.got[1].Content, "Hello"+BatchSeparator+"Goodbye") {
		t.Errorf("user prompt missing separator-joined payload: %q", cm.got[1].Content)
	}
	if !strings.Contains(cm.got[1].Content, `"fr"`) {
		t.Errorf("user prompt missing target language: %q", cm.got[1].Content)
	}
}

func TestSplitTranslatedText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
		want     []string
	}{
		{
			name:     "exact count",
			text:     "one" + BatchSeparator + "two" + BatchSeparator + "three",
			expected: 3,
			want:     []string{"one", "two", "three"},
		},
		{
			name:     "short result padded with empties",
			text:     "one" + BatchSeparator + "two",
			expected: 4,
			want:     []string{"one", "two", "", ""},
		},
		{
			name:     "excess parts merged into the last slot",
			text:     "one" + BatchSeparator + "two" + BatchSeparator + "three",
			expected: 2,
			want:     []string{"one", "two" + BatchSeparator + "three"},
		},
		{
			name:     "whitespace trimmed",
			text:     "  one  " + BatchSeparator + "\ttwo\n",
			expected: 2,
			want:     []string{"one", "two"},
		},
		{
			name:     "single block",
			text:     "only",
			expected: 1,
			want:     []string{"only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitTranslatedText(tt.text, tt.expected)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("part %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLLMProviderEmptyInput(t *testing.T) {
	p := &LLMProvider{model: &fakeChatModel{}, modelName: "test-model"}
	out, err := p.Translate(context.Background(), nil, "fr")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != nil {
		t.Errorf("out = %v, want nil", out)
	}
}

func TestNewLLMProviderRequiresAPIKey(t *testing.T) {
	_, err := NewLLMProvider(context.Background(), LLMConfig{Model: "gpt-4o-mini"})
	if err == nil {
		t.Fatal("expected error without API key")
	}
}
