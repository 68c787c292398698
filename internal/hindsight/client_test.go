package hindsight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL + "/", APIKey: "secret", HTTPClient: server.Client()})
	require.NoError(t, err)
	return client
}

func TestNewRejectsInvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "ftp://example.com", "://bad"} {
		_, err := New(Config{BaseURL: raw})
		assert.Error(t, err, "base url %q", raw)
	}
}

func TestListBanks(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/default/banks", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"banks":[{"bank_id":"a","name":"Alice","personality":{"openness":0.7}},{"bank_id":"b","name":""}]}`))
	})

	banks, err := client.ListBanks(context.Background())
	require.NoError(t, err)
	require.Len(t, banks, 2)
	assert.Equal(t, "a", banks[0].ID)
	assert.Equal(t, "Alice", banks[0].DisplayName())
	assert.InDelta(t, 0.7, banks[0].Disposition.Openness, 1e-9)
	assert.Equal(t, "Unnamed", banks[1].DisplayName())
}

func TestListMemoriesSendsPaging(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/default/banks/a/memories/list", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		assert.Equal(t, "world", r.URL.Query().Get("type"))
		assert.False(t, r.URL.Query().Has("q"))
		_, _ = w.Write([]byte(`{"items":[{"id":"m1","type":"world","text":"Alice works at Google","created_at":"2024-01-15T10:30:00Z"}],"total":1,"limit":100,"offset":0}`))
	})

	memories, err := client.ListMemories(context.Background(), "a", ListOptions{Type: "world", Limit: 100})
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "2024-01-15", memories[0].Created())
	assert.Equal(t, "unknown", Memory{}.Created())
}

func TestListEntitiesAndDocuments(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/default/banks/a/entities":
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"items":[{"id":"e1","canonical_name":"Alice","mention_count":4}]}`))
		case "/v1/default/banks/a/documents":
			assert.Equal(t, "notes", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`{"items":[{"id":"session_1","content_type":"text/plain","memory_unit_count":15}],"total":1}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	entities, err := client.ListEntities(context.Background(), "a", 100)
	require.NoError(t, err)
	require.Len(t, entities, 1)
	assert.Equal(t, "Alice", entities[0].CanonicalName)
	assert.Equal(t, 4, entities[0].MentionCount)

	docs, err := client.ListDocuments(context.Background(), "a", ListOptions{Query: "notes", Limit: 100})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "text/plain", docs[0].ContentType)
}

func TestRecallPostsRequest(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/default/banks/a/memories/recall", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello", payload["query"])
		assert.Equal(t, "mid", payload["budget"])
		assert.EqualValues(t, 4096, payload["max_tokens"])
		assert.Equal(t, false, payload["trace"])
		_, _ = w.Write([]byte(`{"results":[{"id":"1","text":"one","type":"world"},{"id":"2","text":"two"}]}`))
	})

	resp, err := client.Recall(context.Background(), "a", RecallRequest{Query: "hello", Budget: BudgetMid, MaxTokens: 4096})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "world", resp.Results[0].TypeLabel())
	assert.Equal(t, "unknown", resp.Results[1].TypeLabel())
}

func TestRecallRejectsEmptyQueryLocally(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	})
	_, err := client.Recall(context.Background(), "a", RecallRequest{Query: "  "})
	assert.Error(t, err)
}

func TestReflect(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/default/banks/a/reflect", r.URL.Path)
		_, _ = w.Write([]byte(`{"text":"Alice enjoys hiking.","based_on":[{"text":"Alice went hiking"},{"text":"Alice likes mountains"}]}`))
	})

	resp, err := client.Reflect(context.Background(), "a", ReflectRequest{Query: "what does alice like?", Budget: BudgetMid})
	require.NoError(t, err)
	assert.Equal(t, "Alice enjoys hiking.", resp.Text)
	assert.Equal(t, 2, resp.BasedOnCount())
}

func TestProfileAndStats(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/default/banks/a/profile":
			_, _ = w.Write([]byte(`{"bank_id":"a","name":"Alice","background":"engineer","personality":{"openness":0.5,"bias_strength":0.2}}`))
		case "/v1/default/banks/a/stats":
			_, _ = w.Write([]byte(`{"bank_id":"a","total_nodes":12,"total_links":30,"total_documents":2,"nodes_by_fact_type":{"world":10,"opinion":2},"pending_operations":1,"failed_operations":0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	profile, err := client.GetProfile(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "engineer", profile.Background)
	assert.InDelta(t, 0.2, profile.Disposition.BiasStrength, 1e-9)

	stats, err := client.GetStats(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalMemoryUnits)
	assert.Equal(t, 10, stats.NodesByFactType["world"])
	assert.Equal(t, 1, stats.PendingOperations)
}

func TestUpdateBankNameAndBackground(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/v1/default/banks/a":
			var payload map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Renamed", payload["name"])
			_, _ = w.Write([]byte(`{"bank_id":"a","name":"Renamed","background":""}`))
		case r.Method == http.MethodPost && r.URL.Path == "/v1/default/banks/a/background":
			var payload map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "likes tea", payload["content"])
			assert.Equal(t, true, payload["update_personality"])
			_, _ = w.Write([]byte(`{"background":"likes tea","personality":{"agreeableness":0.9}}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/default/banks/a/profile":
			_, _ = w.Write([]byte(`{"bank_id":"a","name":"Renamed","background":"old"}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	profile, err := client.UpdateBankName(context.Background(), "a", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.Name)

	profile, err = client.AddBackground(context.Background(), "a", "likes tea", true)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.Name)
	assert.Equal(t, "likes tea", profile.Background)
	assert.InDelta(t, 0.9, profile.Disposition.Agreeableness, 1e-9)
}

func TestErrorStatusBecomesAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"bank not found"}`))
	})

	_, err := client.GetStats(context.Background(), "missing")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "bank not found")
	assert.True(t, IsNotFound(err))
}

func TestBankIDIsEscaped(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/default/banks/team%2Falpha/profile", r.URL.EscapedPath())
		_, _ = w.Write([]byte(`{"bank_id":"team/alpha"}`))
	})

	profile, err := client.GetProfile(context.Background(), "team/alpha")
	require.NoError(t, err)
	assert.Equal(t, "team/alpha", profile.BankID)
}

func TestDecodeFailureIsWrapped(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.ListBanks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list banks: decode response")
}
