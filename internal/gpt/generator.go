package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeGenerator = (*Generator)(nil)

// chatter is the part of Client the generator needs.
type chatter interface {
	ChatJSON(ctx context.Context, messages []Message) (string, error)
}

// generatedRecipe is the JSON the model returns.
type generatedRecipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	ShoppingList []string `json:"shopping_list"`
}

// Generator turns a free-form request ("a spicy margarita") into a Recipe.
type Generator struct {
	client chatter
	log    *logger.Logger
}

// NewGenerator creates a recipe generator backed by the given Client.
func NewGenerator(client *Client, log *logger.Logger) *Generator {
	return &Generator{client: client, log: log}
}

// Generate asks the model for a recipe and assigns it a fresh ID.
func (g *Generator) Generate(ctx context.Context, request string) (*domain.Recipe, error) {
	messages := []Message{
		{Role: RoleSystem, Content: PromptGenerateRecipe},
		{Role: RoleUser, Content: request},
	}

	raw, err := g.client.ChatJSON(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("generating recipe: %w", err)
	}

	raw = stripCodeFence(raw)

	var out generatedRecipe
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		g.log.Error("gpt: failed to parse recipe JSON: %v\nraw: %s", err, truncate(raw, 400))
		return nil, fmt.Errorf("parsing generated recipe: %w", err)
	}

	recipe := &domain.Recipe{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(out.Title),
		Ingredients:  cleanNames(out.Ingredients),
		ShoppingList: cleanNames(out.ShoppingList),
	}
	if recipe.Title == "" {
		recipe.Title = truncate(request, 40)
	}
	if len(recipe.IngredientUniverse()) == 0 {
		return nil, fmt.Errorf("generated recipe %q has no ingredients", recipe.Title)
	}

	g.log.Info("gpt: generated recipe %q (%d ingredients)", recipe.Title, len(recipe.IngredientUniverse()))
	return recipe, nil
}

// cleanNames drops blank entries. Names are otherwise kept as given so
// the catalog sees exactly what the recipe shows.
func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, n := range in {
		if strings.TrimSpace(n) == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		// Remove opening fence line.
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		// Remove closing fence.
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}
