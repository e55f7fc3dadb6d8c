package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRuntime struct {
	body    []byte
	err     error
	request *bedrockruntime.InvokeModelInput
}

func (f *fakeRuntime) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.request = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestGenerateClaude(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"completion":"CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Ok."}`)}
	client := NewBedrockClient(runtime, "anthropic.claude-v2", 500, 0.1, 0.9, zap.NewNop())

	text, err := client.Generate(context.Background(), "classify this")
	require.NoError(t, err)
	assert.Equal(t, "CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Ok.", text)
	assert.Equal(t, "anthropic.claude-v2", client.Model())

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(runtime.request.Body, &payload))
	assert.Equal(t, "\n\nHuman: classify this\n\nAssistant:", payload["prompt"])
	assert.EqualValues(t, 500, payload["max_tokens_to_sample"])
}

func TestGenerateTitan(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"results":[{"outputText":"reply"}]}`)}
	client := NewBedrockClient(runtime, "amazon.titan-text-express-v1", 100, 0, 1, zap.NewNop())

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "reply", text)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(runtime.request.Body, &payload))
	assert.Equal(t, "prompt", payload["inputText"])
}

func TestGenerateTitanEmpty(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"results":[]}`)}
	client := NewBedrockClient(runtime, "amazon.titan-text-express-v1", 100, 0, 1, zap.NewNop())

	_, err := client.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateGenericFallsBackToRawBody(t *testing.T) {
	runtime := &fakeRuntime{body: []byte(`{"unknown":"shape"}`)}
	client := NewBedrockClient(runtime, "meta.llama3", 100, 0, 1, zap.NewNop())

	text, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, `{"unknown":"shape"}`, text)
}

func TestGenerateInvokeError(t *testing.T) {
	runtime := &fakeRuntime{err: errors.New("throttled")}
	client := NewBedrockClient(runtime, "anthropic.claude-v2", 100, 0, 1, zap.NewNop())

	_, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
