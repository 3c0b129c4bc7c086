package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-engine/internal/core/allergen"
	"recipe-engine/internal/core/catalog"
	"recipe-engine/internal/core/portion"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/infrastructure/config"
	"recipe-engine/internal/pkg/common"
)

type fakeRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeRecorder) ObserveAssistant(operation, model, status string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, operation+"/"+model+"/"+status)
}

// chatServer 模擬 chat completions 端點，回傳固定內容並記錄請求
func chatServer(t *testing.T, status int, content string, seen *common.ChatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "chatcmpl-1",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	cfg := config.Default()
	cfg.Assistant.Enabled = true
	cfg.Assistant.APIKey = "test-key"
	cfg.Assistant.BaseURL = baseURL
	cfg.Assistant.Timeout = 5 * time.Second
	c := NewClient(cfg.Assistant, cfg.Queue, opts...)
	t.Cleanup(c.Close)
	return c
}

func TestClient_Disabled(t *testing.T) {
	cfg := config.Default()
	c := NewClient(cfg.Assistant, cfg.Queue)
	defer c.Close()

	assert.False(t, c.Enabled())
	_, err := c.Reply(context.Background(), Brief{Message: "bonjour"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestClient_Reply(t *testing.T) {
	var seen common.ChatRequest
	srv := chatServer(t, http.StatusOK, "  Salut Amina ! On prépare la Harira ?  ", &seen)
	rec := &fakeRecorder{}
	c := newClient(t, srv.URL, WithRecorder(rec))

	profile := session.Profile{Name: "Amina", Servings: 2, Allergies: []string{"gluten"}}
	history := []session.Turn{
		{Role: session.RoleUser, Content: "bonjour"},
		{Role: session.RoleAssistant, Content: "Salut !"},
	}
	reply, err := c.Reply(context.Background(), Brief{
		Message:   "j'ai envie d'une harira",
		Profile:   profile,
		History:   history,
		Mentioned: "Harira",
	})
	require.NoError(t, err)
	assert.Equal(t, "Salut Amina ! On prépare la Harira ?", reply)

	require.Len(t, seen.Messages, 4)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Contains(t, seen.Messages[0].Content[0].Text, "Amina")
	assert.Contains(t, seen.Messages[0].Content[0].Text, "gluten")
	assert.Contains(t, seen.Messages[0].Content[0].Text, "Harira")
	assert.Equal(t, "assistant", seen.Messages[2].Role)
	assert.Equal(t, "j'ai envie d'une harira", seen.Messages[3].Content[0].Text)
	assert.Equal(t, "llama-3.3-70b-versatile", seen.Model)

	assert.Equal(t, []string{"reply/llama-3.3-70b-versatile/success"}, rec.calls)
	assert.EqualValues(t, 1, c.QueueStatus().ProcessedCount)
}

func TestClient_APIError(t *testing.T) {
	srv := chatServer(t, http.StatusTooManyRequests, "", nil)
	rec := &fakeRecorder{}
	c := newClient(t, srv.URL, WithRecorder(rec))

	_, err := c.Reply(context.Background(), Brief{Message: "bonjour"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, []string{"reply/llama-3.3-70b-versatile/error"}, rec.calls)
}

func TestClient_IdentifyIngredients(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
		wantErr bool
	}{
		{name: "plain array", content: `["poulet", "citron", " "]`, want: []string{"poulet", "citron"}},
		{name: "fenced", content: "Voici:\n```json\n[\"tomate\", \"oignon\"]\n```", want: []string{"tomate", "oignon"}},
		{name: "prose around", content: `Je vois ["oeuf"] dans le frigo.`, want: []string{"oeuf"}},
		{name: "wrapped object", content: `{ingredients: ["lait", "beurre"]}`, want: []string{"lait", "beurre"}},
		{name: "not json", content: "aucun ingrédient", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen common.ChatRequest
			srv := chatServer(t, http.StatusOK, tt.content, &seen)
			c := newClient(t, srv.URL)

			got, err := c.IdentifyIngredients(context.Background(), "data:image/jpeg;base64,AAAA")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			require.Len(t, seen.Messages, 1)
			require.Len(t, seen.Messages[0].Content, 2)
			assert.Equal(t, "image_url", seen.Messages[0].Content[1].Type)
			assert.Equal(t, "data:image/jpeg;base64,AAAA", seen.Messages[0].Content[1].ImageURL.URL)
			assert.Equal(t, config.Default().Assistant.VisionModel, seen.Model)
		})
	}
}

func TestSystemPrompt(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	quiche, err := cat.Get("Quiche Lorraine")
	require.NoError(t, err)

	scaled := portion.New(4).Scale(quiche, 2)
	report := allergen.Default().Check(quiche, []string{"lactose"})

	prompt := systemPrompt(Brief{
		Profile:    session.Profile{Servings: 2, City: "Lyon"},
		Stressed:   true,
		QuickIdeas: []string{"Kefta", "Omelette"},
		Recipe:     &scaled,
		Allergens:  &report,
	})
	assert.Contains(t, prompt, "Ville: Lyon")
	assert.Contains(t, prompt, "Kefta, Omelette")
	assert.Contains(t, prompt, "Quiche Lorraine pour 2 personnes")
	assert.Contains(t, prompt, "creme_kg")
	assert.NotContains(t, prompt, "sans confirmer")
}

func TestQueue(t *testing.T) {
	t.Run("runs jobs", func(t *testing.T) {
		q := NewQueue(2, 4)
		defer q.Close()

		got, err := q.Do(context.Background(), func(ctx context.Context) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.EqualValues(t, 1, q.Status().ProcessedCount)
	})

	t.Run("rejects when full", func(t *testing.T) {
		q := NewQueue(1, 1)
		defer q.Close()

		release := make(chan struct{})
		started := make(chan struct{})
		blocking := func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "", nil
		}
		first, err := q.Enqueue(context.Background(), blocking)
		require.NoError(t, err)
		<-started

		_, err = q.Enqueue(context.Background(), func(ctx context.Context) (string, error) { return "", nil })
		require.NoError(t, err, "one slot is buffered while the worker is busy")

		_, err = q.Enqueue(context.Background(), func(ctx context.Context) (string, error) { return "", nil })
		assert.ErrorIs(t, err, ErrQueueFull)

		close(release)
		<-first
	})

	t.Run("closed", func(t *testing.T) {
		q := NewQueue(1, 1)
		q.Close()

		_, err := q.Enqueue(context.Background(), func(ctx context.Context) (string, error) { return "", nil })
		assert.ErrorIs(t, err, ErrQueueClosed)
	})

	t.Run("cancelled caller", func(t *testing.T) {
		q := NewQueue(1, 1)
		defer q.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := q.Do(ctx, func(ctx context.Context) (string, error) { return "late", nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}
