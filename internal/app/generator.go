package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/phuslu/log"

	"polyi/internal/ai"
	"polyi/internal/pkg/textproc"
)

// Sampling used on the retrieval-augmented path. Fixed, not request-tunable:
// low temperature keeps the model close to the provided context.
var ragSampling = ai.SampleOptions{
	MaxTokens:     256,
	Temperature:   0.3,
	TopP:          0.9,
	RepeatPenalty: 1.1,
}

const (
	plainTopP          = 0.95
	plainRepeatPenalty = 1.1
)

const ragPromptKo = `당신은 분당융합기술교육원의 공식 AI 상담원입니다.
**반드시 한국어로만** 답변하세요.
제공된 문맥 정보만을 사용해 정확하고 간결하게 답하세요.
정보가 없으면 "해당 내용은 현재 자료에 없습니다. 교학처(031-696-8803)로 문의해 주세요."라고 안내하세요.

[문맥]
%s

질문: %s
답변(한국어): `

const ragPromptEn = `Context from Bundang Polytechnic documents:

%s

Answer in English only, concisely, based only on the context. If unknown, suggest contacting the admin office (031-696-8803).

Question: %s
Answer:`

const plainPromptKo = `당신은 분당융합기술교육원을 안내하는 친절한 챗봇 Poly-i입니다.
사용자의 질문에 정확하고 간결하게 한국어로 답변하세요.
모르는 내용은 지어내지 말고 "해당 정보는 가지고 있지 않습니다. 교학처(031-696-8803)로 문의해 주세요."라고 안내하세요.

사용자: %s
답변:`

const plainPromptEn = `You are Poly-i, a friendly chatbot for Bundang Polytechnic.
Answer the user's question accurately and concisely in English.
If you do not have the information, do not make it up; say so and suggest contacting the admin office (031-696-8803).

User: %s
Response:`

const (
	unavailableMsgKo = "죄송합니다. 모델 로드 중입니다. 다시 시도해주세요."
	unavailableMsgEn = "Sorry, the model is not ready. Please try again."
)

// GenerateResult is what the generator hands back to the router. Unavailable
// distinguishes "the model could not answer" from "the model said nothing
// useful"; the router degrades differently for each.
type GenerateResult struct {
	Text        string
	TokensUsed  int
	Unavailable bool
}

// Generator renders the language-keyed prompt template and invokes the
// completion capability. A nil completer means the capability is absent; the
// generator then reports unavailability instead of failing.
type Generator struct {
	completer ai.Completer
}

func NewGenerator(completer ai.Completer) *Generator {
	return &Generator{completer: completer}
}

// Available reports whether a completion capability was configured.
func (g *Generator) Available() bool { return g.completer != nil }

// ModelName names the underlying model for response tagging.
func (g *Generator) ModelName() string {
	if g.completer == nil {
		return "unavailable"
	}
	return g.completer.Model()
}

// Answer renders the prompt for the language and context and runs the
// completion. contextChunks empty selects the no-context template variant.
// Never returns an error: capability failures come back as Unavailable with a
// deterministic localized message.
func (g *Generator) Answer(ctx context.Context, query string, contextChunks []string, language string, opts ai.SampleOptions) *GenerateResult {
	if g.completer == nil {
		return &GenerateResult{Text: unavailableMessage(language), Unavailable: true}
	}

	prompt := renderPrompt(query, contextChunks, language)
	completion, err := g.completer.Complete(ctx, prompt, opts)
	if err != nil {
		log.Warn().Err(err).Msg("completion call failed")
		return &GenerateResult{Text: unavailableMessage(language), Unavailable: true}
	}
	return &GenerateResult{Text: completion.Text, TokensUsed: completion.TokensUsed}
}

func renderPrompt(query string, contextChunks []string, language string) string {
	if len(contextChunks) == 0 {
		if language == LangEnglish {
			return fmt.Sprintf(plainPromptEn, query)
		}
		return fmt.Sprintf(plainPromptKo, query)
	}

	contextBlock := strings.Join(contextChunks, "\n\n")
	if language == LangEnglish {
		return fmt.Sprintf(ragPromptEn, contextBlock, query)
	}
	// Korean context goes through the same cleaning as ingestion so the
	// prompt does not carry PDF extraction artifacts.
	return fmt.Sprintf(ragPromptKo, textproc.Normalize(contextBlock), query)
}

func unavailableMessage(language string) string {
	if language == LangEnglish {
		return unavailableMsgEn
	}
	return unavailableMsgKo
}
