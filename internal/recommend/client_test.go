package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cazuela-chapina/cazuela/internal/catalog"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

func TestClientComplete(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Prueba el tamal colorado."}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "sk-test", 5*time.Second)
	reply, err := client.Complete(context.Background(), "eres un asistente", "¿qué me recomiendas?")
	require.NoError(t, err)

	assert.Equal(t, "Prueba el tamal colorado.", reply)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestClientSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "", time.Second)
	_, err := client.Complete(context.Background(), "sys", "user")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClientRejectsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", "", time.Second)
	_, err := client.Complete(context.Background(), "sys", "user")
	assert.Error(t, err)
}

type staticMenu struct{ products []catalog.Product }

func (m *staticMenu) List(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	return m.products, nil
}

type recordingCompleter struct {
	system string
	user   string
}

func (c *recordingCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	c.system = system
	c.user = user
	return "ok", nil
}

func ptr[T any](v T) *T { return &v }

func TestRecommendIncludesMenuSnapshot(t *testing.T) {
	menu := &staticMenu{products: []catalog.Product{
		{Name: "Tamal colorado", Kind: catalog.KindTamal, BasePrice: ptr(12.5), Available: true},
		{Name: "Agotado", Kind: catalog.KindTamal, Available: false},
	}}
	completer := &recordingCompleter{}
	svc := NewService(menu, completer)

	reply, err := svc.Recommend(context.Background(), "¿algo picante?")
	require.NoError(t, err)

	assert.Equal(t, "ok", reply)
	assert.Contains(t, completer.system, "Tamal colorado")
	assert.NotContains(t, completer.system, "Agotado")
	assert.Equal(t, "¿algo picante?", completer.user)
}

func TestRecommendRejectsEmptyPrompt(t *testing.T) {
	svc := NewService(&staticMenu{}, &recordingCompleter{})
	_, err := svc.Recommend(context.Background(), "   ")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
