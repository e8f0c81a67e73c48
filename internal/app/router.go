package app

import (
	"context"
	"strings"

	"github.com/phuslu/log"

	"polyi/internal/ai"
	"polyi/internal/model"
)

const (
	defaultMaxTokens   = 256
	defaultTemperature = 0.7

	// rag_document answers return raw context; cap the length so a model
	// outage does not dump whole pages at the caller.
	maxRawContextChars = 1000
)

const (
	errorMsgKo = "오류가 발생했습니다. 잠시 후 다시 시도하시거나 교학처(031-696-8803)로 문의해 주세요."
	errorMsgEn = "Something went wrong. Please try again later or contact the admin office (031-696-8803)."
)

// domainKeywords is the broader institution vocabulary behind the classify
// step: a hit routes the query to retrieval, a miss to plain generation.
var domainKeywords = map[string][]string{
	LangKorean: {
		"학과", "학과소개", "모집", "입학", "서류", "전형", "면접", "필기",
		"교육비", "훈련", "장려금", "취업", "취업현황", "교학처", "연락처",
		"위치", "주소", "주차", "식당", "캠퍼스", "교수", "교수님",
		"수료", "과정", "커리큘럼", "수강", "모집요강",
	},
	LangEnglish: {
		"admission", "apply", "application", "tuition", "course", "curriculum",
		"campus", "professor", "employment", "certificate", "polytechnic",
	},
}

// Retriever is the index-search dependency as the router sees it.
// *index.Store satisfies it.
type Retriever interface {
	Ready() bool
	Search(ctx context.Context, query string, k int) ([]model.RetrievedDocument, error)
}

// GenerateInput carries one /generate request into the router.
type GenerateInput struct {
	Prompt      string
	UserID      string
	MaxTokens   int
	Temperature float64
	Language    string
}

// Router picks the answer strategy for a query: keyword shortcut first, then
// a coarse domain classification deciding between retrieval-augmented and
// plain generation. Every path ends in a response record; the router never
// returns an error to its caller.
type Router struct {
	keywords  *KeywordTable
	retriever Retriever
	generator *Generator
	topK      int
}

func NewRouter(keywords *KeywordTable, retriever Retriever, generator *Generator, topK int) *Router {
	if topK <= 0 {
		topK = 3
	}
	return &Router{
		keywords:  keywords,
		retriever: retriever,
		generator: generator,
		topK:      topK,
	}
}

// ModelAvailable reports whether a completion model backs this router.
func (r *Router) ModelAvailable() bool { return r.generator.Available() }

// ModelName names the completion model, or "unavailable" without one.
func (r *Router) ModelName() string { return r.generator.ModelName() }

// Handle runs the routing state machine for one request. An unexpected panic
// degrades to a source=error record instead of aborting the request.
func (r *Router) Handle(ctx context.Context, in GenerateInput) (answer *model.Answer) {
	language := normalizeLanguage(in.Language)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("prompt", in.Prompt).Msgf("router panic: %v", rec)
			answer = &model.Answer{
				Response: errorMessage(language),
				Model:    r.generator.ModelName(),
				Language: language,
				Source:   model.SourceError,
				UserID:   in.UserID,
				Error:    "internal error",
			}
		}
	}()

	prompt := strings.TrimSpace(in.Prompt)

	// Keyword shortcut runs before anything else: zero model cost, near-zero
	// latency.
	if canned, ok := r.keywords.Match(prompt, language); ok {
		log.Info().Str("source", model.SourceKeyword).Msg("keyword hit")
		return &model.Answer{
			Response: canned,
			Model:    "keyword-matcher",
			Language: language,
			Source:   model.SourceKeyword,
			UserID:   in.UserID,
		}
	}

	if isDomainQuery(prompt, language) && r.retriever.Ready() {
		if answer := r.ragAnswer(ctx, prompt, language, in.UserID); answer != nil {
			return answer
		}
		// retrieval came up empty or the model had nothing: fall through
	}

	return r.plainAnswer(ctx, prompt, language, in)
}

// ragAnswer runs retrieval and context-conditioned generation. A nil return
// means the caller should fall back to plain generation.
func (r *Router) ragAnswer(ctx context.Context, prompt, language, userID string) *model.Answer {
	docs, err := r.retriever.Search(ctx, prompt, r.topK)
	if err != nil {
		log.Warn().Err(err).Msg("retrieval failed, falling back to plain generation")
		return nil
	}
	if len(docs) == 0 {
		log.Info().Msg("retrieval miss, falling back to plain generation")
		return nil
	}

	contextChunks := make([]string, len(docs))
	for i, d := range docs {
		contextChunks[i] = d.Content
	}

	result := r.generator.Answer(ctx, prompt, contextChunks, language, ragSampling)
	if result.Unavailable {
		// Model missing but retrieval worked: answer with the documents
		// themselves rather than nothing.
		log.Warn().Msg("completion unavailable, answering with raw context")
		return &model.Answer{
			Response:  truncate(strings.Join(contextChunks, "\n\n"), maxRawContextChars),
			Model:     r.generator.ModelName(),
			Language:  language,
			Source:    model.SourceRAGDocument,
			Documents: docs,
			UserID:    userID,
		}
	}
	if result.Text == "" {
		log.Info().Msg("model produced no answer from context, falling back")
		return nil
	}
	return &model.Answer{
		Response:   result.Text,
		TokensUsed: result.TokensUsed,
		Model:      r.generator.ModelName(),
		Language:   language,
		Source:     model.SourceRAGLLM,
		Documents:  docs,
		UserID:     userID,
	}
}

func (r *Router) plainAnswer(ctx context.Context, prompt, language string, in GenerateInput) *model.Answer {
	opts := ai.SampleOptions{
		MaxTokens:     in.MaxTokens,
		Temperature:   in.Temperature,
		TopP:          plainTopP,
		RepeatPenalty: plainRepeatPenalty,
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = defaultTemperature
	}

	result := r.generator.Answer(ctx, prompt, nil, language, opts)
	answer := &model.Answer{
		Response:   result.Text,
		TokensUsed: result.TokensUsed,
		Model:      r.generator.ModelName(),
		Language:   language,
		Source:     model.SourceLLM,
		UserID:     in.UserID,
	}
	if result.Unavailable {
		answer.Error = "model_not_loaded"
	}
	return answer
}

func isDomainQuery(prompt, language string) bool {
	lowered := strings.ToLower(prompt)
	keywords, ok := domainKeywords[language]
	if !ok {
		keywords = domainKeywords[LangKorean]
	}
	for _, k := range keywords {
		if strings.Contains(lowered, k) {
			return true
		}
	}
	return false
}

func normalizeLanguage(language string) string {
	if language == LangEnglish {
		return LangEnglish
	}
	return LangKorean
}

func errorMessage(language string) string {
	if language == LangEnglish {
		return errorMsgEn
	}
	return errorMsgKo
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
