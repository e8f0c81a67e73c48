package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyi/internal/ai"
	"polyi/internal/index"
	"polyi/internal/model"
)

type fakeRetriever struct {
	ready     bool
	docs      []model.RetrievedDocument
	err       error
	calls     int
	panicking bool
}

func (f *fakeRetriever) Ready() bool { return f.ready }

func (f *fakeRetriever) Search(_ context.Context, _ string, _ int) ([]model.RetrievedDocument, error) {
	f.calls++
	if f.panicking {
		panic("boom")
	}
	return f.docs, f.err
}

func newTestRouter(retriever Retriever, completer ai.Completer) *Router {
	return NewRouter(DefaultKeywordTable(), retriever, NewGenerator(completer), 3)
}

func TestRouterKeywordShortCircuit(t *testing.T) {
	retriever := &fakeRetriever{ready: true}
	completer := &fakeCompleter{text: "ignored"}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "주차", UserID: "u1", Language: LangKorean})

	assert.Equal(t, model.SourceKeyword, answer.Source)
	assert.Zero(t, answer.TokensUsed)
	assert.Contains(t, answer.Response, "주차")
	assert.Equal(t, "u1", answer.UserID)
	assert.Equal(t, LangKorean, answer.Language)

	// neither the retriever nor the model may be touched on this path
	assert.Zero(t, retriever.calls)
	assert.Zero(t, completer.calls)
}

func TestRouterRagPath(t *testing.T) {
	docs := []model.RetrievedDocument{
		{Content: "교수진 소개 내용", Metadata: model.ChunkMeta{File: "manual.pdf", Page: 2}, Score: 0.9},
	}
	retriever := &fakeRetriever{ready: true, docs: docs}
	completer := &fakeCompleter{text: "교수진 안내입니다", tokens: 20}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "교수 소개 해줘", Language: LangKorean})

	assert.Equal(t, model.SourceRAGLLM, answer.Source)
	assert.Equal(t, "교수진 안내입니다", answer.Response)
	assert.Equal(t, 20, answer.TokensUsed)
	require.Len(t, answer.Documents, 1)
	assert.Equal(t, 2, answer.Documents[0].Metadata.Page)
	assert.Equal(t, 1, retriever.calls)
	assert.Equal(t, 1, completer.calls)
}

func TestRouterRagDocumentWhenModelUnavailable(t *testing.T) {
	docs := []model.RetrievedDocument{
		{Content: "수료 기준은 출석률입니다", Metadata: model.ChunkMeta{File: "manual.pdf", Page: 3}},
	}
	retriever := &fakeRetriever{ready: true, docs: docs}
	router := newTestRouter(retriever, nil)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "수료 기준 알려줘", Language: LangKorean})

	assert.Equal(t, model.SourceRAGDocument, answer.Source)
	assert.Contains(t, answer.Response, "수료 기준")
	require.Len(t, answer.Documents, 1)
}

func TestRouterRetrievalMissFallsBackToLLM(t *testing.T) {
	retriever := &fakeRetriever{ready: true}
	completer := &fakeCompleter{text: "일반 답변", tokens: 5}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "교육비 관련 질문", Language: LangKorean})

	assert.Equal(t, model.SourceLLM, answer.Source)
	assert.Equal(t, "일반 답변", answer.Response)
	assert.Equal(t, 1, retriever.calls)
	assert.Equal(t, 1, completer.calls)
}

func TestRouterEmptyModelAnswerFallsBackToLLM(t *testing.T) {
	docs := []model.RetrievedDocument{{Content: "내용", Metadata: model.ChunkMeta{Page: 1}}}
	retriever := &fakeRetriever{ready: true, docs: docs}
	completer := &fakeCompleter{text: ""}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "모집요강 알려줘", Language: LangKorean})

	assert.Equal(t, model.SourceLLM, answer.Source)
	// once with context, once without
	assert.Equal(t, 2, completer.calls)
}

func TestRouterUninitializedIndexGoesToLLM(t *testing.T) {
	retriever := &fakeRetriever{ready: false}
	completer := &fakeCompleter{text: "llm 답변", tokens: 8}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "모집 일정 알려줘", Language: LangKorean})

	assert.Equal(t, model.SourceLLM, answer.Source)
	assert.Zero(t, retriever.calls)
	assert.Equal(t, 1, completer.calls)
}

func TestRouterGeneralQuerySkipsRetrieval(t *testing.T) {
	retriever := &fakeRetriever{ready: true}
	completer := &fakeCompleter{text: "15도입니다"}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "오늘 날씨 어때", Language: LangKorean})

	assert.Equal(t, model.SourceLLM, answer.Source)
	assert.Zero(t, retriever.calls)
}

func TestRouterModelNotLoaded(t *testing.T) {
	retriever := &fakeRetriever{ready: false}
	router := newTestRouter(retriever, nil)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "아무거나 말해줘", Language: LangKorean})

	assert.Equal(t, model.SourceLLM, answer.Source)
	assert.Equal(t, "model_not_loaded", answer.Error)
	assert.Equal(t, unavailableMsgKo, answer.Response)
}

func TestRouterPanicDegradesToError(t *testing.T) {
	retriever := &fakeRetriever{ready: true, panicking: true}
	completer := &fakeCompleter{text: "unused"}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "입학 문의", UserID: "u9", Language: LangKorean})

	require.NotNil(t, answer)
	assert.Equal(t, model.SourceError, answer.Source)
	assert.Equal(t, "internal error", answer.Error)
	assert.Equal(t, "u9", answer.UserID)
	assert.NotEmpty(t, answer.Response)
}

func TestRouterDefaultsLanguageToKorean(t *testing.T) {
	retriever := &fakeRetriever{ready: false}
	completer := &fakeCompleter{text: "ok"}
	router := newTestRouter(retriever, completer)

	answer := router.Handle(context.Background(), GenerateInput{Prompt: "hello there"})
	assert.Equal(t, LangKorean, answer.Language)
}

// End-to-end over a real index: a query matching one section of a small
// corpus comes back with that section's provenance.
func TestRouterAgainstBuiltIndex(t *testing.T) {
	ctx := context.Background()
	docs := []model.Document{
		{Text: "입학 전형은 서류 평가와 면접으로 진행됩니다", File: model.StaticFile, Page: 1},
		{Text: "담당 교수는 인공지능 분야의 김철수 교수입니다", File: model.StaticFile, Page: 2},
		{Text: "수료 기준은 전체 출석률 80% 이상입니다", File: model.StaticFile, Page: 3},
	}
	store := index.NewStore()
	_, err := store.Rebuild(ctx, docs, ai.NewHashingEmbedder(256), index.BuildOptions{ChunkSize: 50, ChunkOverlap: 5})
	require.NoError(t, err)

	completer := &fakeCompleter{text: "김철수 교수가 담당합니다", tokens: 15}
	router := newTestRouter(store, completer)

	answer := router.Handle(ctx, GenerateInput{Prompt: "인공지능 담당 교수 김철수", Language: LangKorean})

	assert.Equal(t, model.SourceRAGLLM, answer.Source)
	require.NotEmpty(t, answer.Documents)
	assert.Equal(t, 2, answer.Documents[0].Metadata.Page)
}
