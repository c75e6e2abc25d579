package languagetool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "software": {"name": "LanguageTool", "version": "6.4"},
  "language": {"name": "English (US)", "code": "en-US"},
  "matches": [
    {
      "message": "Possible spelling mistake found.",
      "shortMessage": "Spelling mistake",
      "replacements": [{"value": "The"}, {"value": "Tea"}, {"value": "Ten"}],
      "offset": 0,
      "length": 3,
      "context": {"text": "Teh cat sat.", "offset": 0, "length": 3},
      "rule": {"id": "MORFOLOGIK_RULE_EN_US", "category": {"id": "TYPOS", "name": "Possible Typo"}}
    }
  ]
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return srv, NewClient("http://"+u.Hostname(), port)
}

func TestNewClient_Endpoint(t *testing.T) {
	assert.Equal(t, "http://localhost:8081/v2/check", NewClient("localhost", 8081).Endpoint())
	assert.Equal(t, "https://lt.example.com:443/v2/check", NewClient("https://lt.example.com/", 443).Endpoint())
}

func TestClient_Check(t *testing.T) {
	var got url.Values
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/check", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		got = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleResponse))
	})

	resp, err := client.Check(context.Background(), Request{
		Text:               "Teh cat sat.",
		Language:           "en-US",
		Level:              LevelPicky,
		DisabledRules:      []string{"WHITESPACE_RULE", "EN_QUOTES"},
		DisabledCategories: []string{"STYLE"},
	})
	require.NoError(t, err)

	t.Run("Form fields", func(t *testing.T) {
		assert.Equal(t, "Teh cat sat.", got.Get("text"))
		assert.Equal(t, "en-US", got.Get("language"))
		assert.Equal(t, "picky", got.Get("level"))
		assert.Equal(t, "WHITESPACE_RULE,EN_QUOTES", got.Get("disabledRules"))
		assert.Equal(t, "STYLE", got.Get("disabledCategories"))
	})

	t.Run("Decoded match", func(t *testing.T) {
		assert.Equal(t, "en-US", resp.Language)
		require.Len(t, resp.Matches, 1)
		m := resp.Matches[0]
		assert.Equal(t, 0, m.Offset)
		assert.Equal(t, 3, m.Length)
		assert.Equal(t, "Spelling mistake", m.ShortMessage)
		assert.Equal(t, "Possible spelling mistake found.", m.Message)
		assert.Equal(t, []string{"The", "Tea", "Ten"}, m.Replacements)
		assert.Equal(t, "MORFOLOGIK_RULE_EN_US", m.RuleID)
		assert.Equal(t, "TYPOS", m.CategoryID)
		assert.Equal(t, "Teh cat sat.", m.Context)
	})
}

func TestClient_Check_ConvertsUTF16Offsets(t *testing.T) {
	// "😀 Teh": the emoji is two UTF-16 units and four bytes.
	body := `{"matches":[{"message":"m","offset":3,"length":3,"rule":{"id":"R"}}]}`
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	resp, err := client.Check(context.Background(), Request{Text: "😀 Teh", Language: "en-US"})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, 5, resp.Matches[0].Offset)
	assert.Equal(t, 3, resp.Matches[0].Length)
	assert.Equal(t, "Teh", "😀 Teh"[5:8])
}

func TestClient_Check_OffsetInsideSurrogatePair(t *testing.T) {
	body := `{"matches":[{"message":"m","offset":1,"length":1,"rule":{"id":"R"}}]}`
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})

	resp, err := client.Check(context.Background(), Request{Text: "😀", Language: "en-US"})
	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, -1, resp.Matches[0].Offset)
}

func TestClient_Check_TruncatesReplacements(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"matches":[{"message":"m","offset":0,"length":1,"rule":{"id":"R"},"replacements":[`)
	for i := 0; i < 8; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"value":"r` + strconv.Itoa(i) + `"}`)
	}
	sb.WriteString(`]}]}`)
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sb.String()))
	})

	resp, err := client.Check(context.Background(), Request{Text: "a", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r0", "r1", "r2", "r3", "r4"}, resp.Matches[0].Replacements)
}

func TestClient_Check_Failures(t *testing.T) {
	t.Run("Non-2xx status", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Error: language code 'xx' unknown", http.StatusBadRequest)
		})
		_, err := client.Check(context.Background(), Request{Text: "a", Language: "xx"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "(400)")
		assert.Contains(t, err.Error(), "unknown")
	})

	t.Run("Schema mismatch", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"matches":[{"message":"m","offset":-4,"length":1,"rule":{"id":"R"}}]}`))
		})
		_, err := client.Check(context.Background(), Request{Text: "a", Language: "en"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation")
	})

	t.Run("Missing matches", func(t *testing.T) {
		_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"software":{}}`))
		})
		_, err := client.Check(context.Background(), Request{Text: "a", Language: "en"})
		require.Error(t, err)
	})

	t.Run("Unreachable server", func(t *testing.T) {
		srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
		srv.Close()
		_, err := client.Check(context.Background(), Request{Text: "a", Language: "en"})
		require.Error(t, err)
	})
}
