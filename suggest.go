package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestFoodRequest is the request body for POST /api/foods/suggest.
type suggestFoodRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// foodSuggestion is the catalog entry the model proposes. Confidence is 1-5
// indicating how accurate the estimate is.
type foodSuggestion struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Calories   float64 `json:"calories"`
	Confidence int     `json:"confidence"`
}

const foodSystemPrompt = `You are a nutrition assistant. The user describes one food or drink portion that belongs to the %q category of a meal (main, dessert or beverage). Return a JSON object with:
- "name" (string, short title case name including the portion, e.g. "Green Curry Chicken (1 bowl)")
- "calories" (number, total kcal for the described portion)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food or drink at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI client ──────────────────────────────────────────────────── */

// callOpenAI sends a chat completion request and returns the content of the
// first choice. baseURL excludes the /v1 suffix.
func callOpenAI(ctx context.Context, messages []openai.ChatCompletionMessage, baseURL string) (string, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimSuffix(baseURL, "/") + "/v1"
	config.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	client := openai.NewClientWithConfig(config)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openai.GPT4oMini,
		Messages:    messages,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFood handles POST /api/foods/suggest. It asks the model to estimate
// the calories of a described food so the client can prefill POST /api/foods.
// Nothing is saved here.
func (h *Handler) suggestFood(c *gin.Context) {
	var req suggestFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}
	if req.Category == "" {
		req.Category = categoryMain
	}
	var probe foodCatalog
	if probe.table(req.Category) == nil {
		apiError(c, http.StatusBadRequest, "category must be one of: "+strings.Join(foodCategories, ", "))
		return
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(foodSystemPrompt, req.Category)},
		{Role: openai.ChatMessageRoleUser, Content: req.Description},
	}

	content, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL)
	if err != nil {
		log.Printf("[suggestFood] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Check if the AI returned an "unrecognized" error
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggestFood] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var suggestion foodSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		log.Printf("[suggestFood] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	suggestion.Name = strings.TrimSpace(suggestion.Name)
	suggestion.Category = req.Category

	// A usable suggestion must fit the catalog: a name and non-negative calories.
	if validateFoodEntry(suggestion.Category, suggestion.Name, suggestion.Calories) != nil {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, suggestion)
}
