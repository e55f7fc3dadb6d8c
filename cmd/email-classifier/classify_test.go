package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikey/llm-email-classifier/internal/core"
	"github.com/mikey/llm-email-classifier/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLLM struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubLLM) Model() string { return "stub-model" }

func newTestDeps(t *testing.T, llm *stubLLM) (*core.ContentResolver, *core.ClassificationService) {
	t.Helper()
	tp := utils.NewTextProcessor(zap.NewNop())
	service, err := core.NewClassificationService(llm, core.ClassifierSettings{}, tp, zap.NewNop())
	require.NoError(t, err)
	return core.NewContentResolver(nil, tp, zap.NewNop()), service
}

func TestRunClassifyText(t *testing.T) {
	llm := &stubLLM{reply: "CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Vamos verificar."}
	resolver, service := newTestDeps(t, llm)

	var out bytes.Buffer
	err := runClassify(context.Background(), &out, strings.NewReader(""),
		classifyOptions{text: "Qual o status do chamado?"}, resolver, service)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Category: Produtivo")
	assert.Contains(t, out.String(), "Suggested response: Vamos verificar.")
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Qual o status do chamado?")
}

func TestRunClassifyFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "email.txt")
	require.NoError(t, os.WriteFile(path, []byte("Feliz natal!"), 0o600))

	llm := &stubLLM{reply: "CATEGORIA: Improdutivo\nRESPOSTA_SUGERIDA: Obrigado!"}
	resolver, service := newTestDeps(t, llm)

	var out bytes.Buffer
	err := runClassify(context.Background(), &out, strings.NewReader(""),
		classifyOptions{file: path, jsonOutput: true}, resolver, service)
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	assert.Equal(t, "Improdutivo", body["category"])
	assert.Equal(t, "Obrigado!", body["suggested_response"])
	assert.Equal(t, "stub-model", body["model"])
	assert.NotEmpty(t, body["processing_id"])
}

func TestRunClassifyStdin(t *testing.T) {
	llm := &stubLLM{reply: "CATEGORIA: Improdutivo\nRESPOSTA_SUGERIDA: Obrigado!"}
	resolver, service := newTestDeps(t, llm)

	var out bytes.Buffer
	err := runClassify(context.Background(), &out, strings.NewReader("Bom dia a todos"),
		classifyOptions{}, resolver, service)
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "Bom dia a todos")
}

func TestRunClassifyRejectsUnsupportedFile(t *testing.T) {
	llm := &stubLLM{}
	resolver, service := newTestDeps(t, llm)

	err := runClassify(context.Background(), &bytes.Buffer{}, strings.NewReader(""),
		classifyOptions{file: "email.docx"}, resolver, service)

	var formatErr *core.UnsupportedFormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Empty(t, llm.prompts)
}

func TestRunClassifyEmptyInput(t *testing.T) {
	llm := &stubLLM{}
	resolver, service := newTestDeps(t, llm)

	err := runClassify(context.Background(), &bytes.Buffer{}, strings.NewReader(""),
		classifyOptions{}, resolver, service)

	var inputErr *core.InputError
	assert.True(t, errors.As(err, &inputErr))
	assert.Empty(t, llm.prompts)
}

func TestRunClassifyServiceFailure(t *testing.T) {
	llm := &stubLLM{err: errors.New("quota exceeded")}
	resolver, service := newTestDeps(t, llm)

	var out bytes.Buffer
	err := runClassify(context.Background(), &out, strings.NewReader(""),
		classifyOptions{text: "texto"}, resolver, service)

	assert.ErrorIs(t, err, errClassificationFailed)
	assert.Contains(t, out.String(), "Category: Erro")
	assert.Contains(t, out.String(), core.DefaultFailureMessage)
}
