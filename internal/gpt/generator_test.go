package gpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottocart/internal/logger"
)

func quietLog() *logger.Logger { return logger.New(logger.LevelOff, nil) }

// setupServer returns a chat endpoint that always answers with reply.
func setupServer(t *testing.T, reply string, seen *payload) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		if r.Header.Get("api-key") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		resp := apiResponse{Choices: []choice{{}}}
		resp.Choices[0].Message.Role = RoleAssistant
		resp.Choices[0].Message.Content = reply
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	var seen payload
	srv := setupServer(t, `{"title":"Mojito","ingredients":["Mint","Lime","","Rum"],"shopping_list":["Mint","Soda Water"]}`, &seen)
	gen := NewGenerator(NewClient(srv.URL, "secret", quietLog()), quietLog())

	recipe, err := gen.Generate(context.Background(), "a mojito")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if recipe.Title != "Mojito" {
		t.Errorf("Title = %q", recipe.Title)
	}
	if _, err := uuid.Parse(recipe.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", recipe.ID, err)
	}
	if got := strings.Join(recipe.Ingredients, ","); got != "Mint,Lime,Rum" {
		t.Errorf("Ingredients = %s", got)
	}
	if got := len(recipe.IngredientUniverse()); got != 4 {
		t.Errorf("universe size = %d, want 4", got)
	}

	if seen.ResponseFormat == nil || seen.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format not requested: %+v", seen.ResponseFormat)
	}
	if len(seen.Messages) != 2 || seen.Messages[0].Role != RoleSystem || seen.Messages[1].Content != "a mojito" {
		t.Errorf("unexpected messages: %+v", seen.Messages)
	}
}

func TestGenerateStripsFence(t *testing.T) {
	srv := setupServer(t, "```json\n{\"title\":\"Toast\",\"ingredients\":[\"Bread\"]}\n```", nil)
	gen := NewGenerator(NewClient(srv.URL, "secret", quietLog()), quietLog())

	recipe, err := gen.Generate(context.Background(), "toast")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if recipe.Title != "Toast" || len(recipe.Ingredients) != 1 {
		t.Errorf("unexpected recipe: %+v", recipe)
	}
	if recipe.ShoppingList == nil {
		t.Error("ShoppingList should be empty, not nil")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		key   string
	}{
		{"not json", "sure! here is a recipe", "secret"},
		{"no ingredients", `{"title":"Air","ingredients":[],"shopping_list":[]}`, "secret"},
		{"unauthorized", `{"title":"x","ingredients":["y"]}`, "wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := setupServer(t, tt.reply, nil)
			gen := NewGenerator(NewClient(srv.URL, tt.key, quietLog()), quietLog())
			if _, err := gen.Generate(context.Background(), "anything"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{}\n```":            `{}`,
		"  {}  ":                  `{}`,
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChatEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", quietLog(), WithBearerAuth())
	if _, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err != ErrEmptyReply {
		t.Fatalf("err = %v, want ErrEmptyReply", err)
	}
}

func TestClientModelAndBearerAuth(t *testing.T) {
	var gotAuth, gotKey string
	var body payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test", quietLog(), WithModel("gpt-4o-mini"), WithBearerAuth())
	if _, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}); err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if gotAuth != "Bearer sk-test" || gotKey != "" {
		t.Errorf("auth headers: Authorization=%q api-key=%q", gotAuth, gotKey)
	}
	if body.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", body.Model)
	}
}

func TestGenerateUntitledKeepsRequestRunes(t *testing.T) {
	srv := setupServer(t, `{"ingredients":["Sugar","Eggs"]}`, nil)
	gen := NewGenerator(NewClient(srv.URL, "secret", quietLog()), quietLog())

	request := strings.Repeat("é", 60)
	recipe, err := gen.Generate(context.Background(), request)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !utf8.ValidString(recipe.Title) {
		t.Fatalf("title is not valid UTF-8: %q", recipe.Title)
	}
	if want := strings.Repeat("é", 37) + "..."; recipe.Title != want {
		t.Fatalf("Title = %q, want %q", recipe.Title, want)
	}
}
