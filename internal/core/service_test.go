package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type stubLLM struct {
	reply       string
	err         error
	prompts     []string
	hadDeadline bool
	panicValue  interface{}
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	_, s.hadDeadline = ctx.Deadline()
	if s.panicValue != nil {
		panic(s.panicValue)
	}
	return s.reply, s.err
}

func (s *stubLLM) Model() string { return "stub-model" }

func newTestService(t *testing.T, llm LLMClient, settings ClassifierSettings) *ClassificationService {
	t.Helper()
	svc, err := NewClassificationService(llm, settings, nil, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewClassificationService_ValidatesDependencies(t *testing.T) {
	_, err := NewClassificationService(nil, ClassifierSettings{}, nil, zap.NewNop())
	require.Error(t, err)

	_, err = NewClassificationService(&stubLLM{}, ClassifierSettings{PromptTemplate: "no slot"}, nil, zap.NewNop())
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "classifier.prompt_template", cfgErr.Key)
}

func TestClassify_RoundTrip(t *testing.T) {
	llm := &stubLLM{reply: "CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Obrigado, vamos verificar."}
	svc := newTestService(t, llm, ClassifierSettings{})

	result := svc.Classify(context.Background(), "Preciso de uma atualização do meu chamado #123")

	assert.Equal(t, CategoryProductive, result.Category)
	assert.Equal(t, "Obrigado, vamos verificar.", result.SuggestedResponse)
	assert.Equal(t, "stub-model", result.ModelUsed)
	assert.NotEmpty(t, result.ProcessingID)
	assert.False(t, result.Failed())

	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Preciso de uma atualização do meu chamado #123")
}

func TestClassify_NeverFails(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		err        error
		panicValue interface{}
	}{
		{name: "service error", err: errors.New("quota exceeded")},
		{name: "panicking service", panicValue: "nil candidate"},
		{name: "single line", reply: "CATEGORIA: Produtivo"},
		{name: "malformed prefixes", reply: "Categoria - Produtivo\nResposta - Ok"},
		{name: "unknown label", reply: "CATEGORIA: Spam\nRESPOSTA_SUGERIDA: Ok"},
		{name: "empty reply", reply: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &stubLLM{reply: tt.reply, err: tt.err, panicValue: tt.panicValue}, ClassifierSettings{})

			var result ClassificationResult
			require.NotPanics(t, func() {
				result = svc.Classify(context.Background(), "qualquer coisa")
			})

			assert.Equal(t, CategoryError, result.Category)
			assert.Equal(t, "could not process the request, try again later", result.SuggestedResponse)
			assert.True(t, result.Failed())
		})
	}
}

func TestClassify_LogsCauseWithoutSurfacingIt(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc, err := NewClassificationService(
		&stubLLM{err: errors.New("invalid api key")},
		ClassifierSettings{FailureMessage: "tente novamente mais tarde"},
		nil,
		zap.New(core),
	)
	require.NoError(t, err)

	result := svc.Classify(context.Background(), "Olá")

	assert.Equal(t, "tente novamente mais tarde", result.SuggestedResponse)
	assert.NotContains(t, result.SuggestedResponse, "api key")
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "invalid api key")
}

func TestInvoke_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		llm     *stubLLM
		content EmailContent
		kind    ErrorKind
		calls   int
	}{
		{name: "empty content", llm: &stubLLM{}, content: "", kind: ErrorKindInvalidContent, calls: 0},
		{name: "service failure", llm: &stubLLM{err: context.DeadlineExceeded}, content: "x", kind: ErrorKindService, calls: 1},
		{name: "malformed reply", llm: &stubLLM{reply: "nothing useful"}, content: "x", kind: ErrorKindMalformedReply, calls: 1},
		{name: "client panic", llm: &stubLLM{panicValue: "nil candidate"}, content: "x", kind: ErrorKindService, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.llm, ClassifierSettings{})

			result, err := svc.Invoke(context.Background(), tt.content)

			var classErr *ClassificationError
			require.ErrorAs(t, err, &classErr)
			assert.Equal(t, tt.kind, classErr.Kind)
			assert.Empty(t, result.Category)
			assert.NotEmpty(t, result.ProcessingID)
			assert.Len(t, tt.llm.prompts, tt.calls)
		})
	}
}

func TestInvoke_AppliesTimeout(t *testing.T) {
	reply := "CATEGORIA: Improdutivo\nRESPOSTA_SUGERIDA: Obrigado!"

	llm := &stubLLM{reply: reply}
	svc := newTestService(t, llm, ClassifierSettings{Timeout: time.Minute})
	_, err := svc.Invoke(context.Background(), "Feliz natal")
	require.NoError(t, err)
	assert.True(t, llm.hadDeadline)

	llm = &stubLLM{reply: reply}
	svc = newTestService(t, llm, ClassifierSettings{})
	_, err = svc.Invoke(context.Background(), "Feliz natal")
	require.NoError(t, err)
	assert.False(t, llm.hadDeadline)
}

func TestInvoke_TruncatesLongContent(t *testing.T) {
	llm := &stubLLM{reply: "CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Ok."}
	svc := newTestService(t, llm, ClassifierSettings{
		PromptTemplate: "EMAIL<%s>",
		MaxContentSize: 5,
	})

	_, err := svc.Invoke(context.Background(), EmailContent(strings.Repeat("a", 20)))
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasPrefix(llm.prompts[0], "EMAIL<aaaaa\n[... Content truncated"))
}

func TestFailureResult(t *testing.T) {
	svc := newTestService(t, &stubLLM{}, ClassifierSettings{})

	result := svc.FailureResult()
	assert.Equal(t, CategoryError, result.Category)
	assert.Equal(t, DefaultFailureMessage, result.SuggestedResponse)
}

func TestProcessingIDIsInjectable(t *testing.T) {
	orig := newProcessingID
	t.Cleanup(func() { newProcessingID = orig })
	newProcessingID = func() string { return "fixed-id" }

	svc := newTestService(t, &stubLLM{reply: "CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Ok."}, ClassifierSettings{})
	result := svc.Classify(context.Background(), "x")
	assert.Equal(t, "fixed-id", result.ProcessingID)
}
