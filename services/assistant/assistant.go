package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"travel-assistant/models/itinerary"

	"google.golang.org/genai"
)

// DayPlan is one suggested day of an itinerary.
type DayPlan struct {
	DayNumber int             `json:"day_number"`
	Theme     string          `json:"theme"`
	Spots     []SuggestedSpot `json:"spots"`
}

// SuggestedSpot is one stop within a suggested day.
type SuggestedSpot struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Timing   string `json:"timing"`
}

// Suggestion is the full generated plan for an itinerary.
type Suggestion struct {
	Destination string    `json:"destination"`
	Summary     string    `json:"summary"`
	Days        []DayPlan `json:"days"`
}

// SuggestDayPlans asks Gemini for a day-by-day plan matching the itinerary's
// destination, budget and duration, constrained to the user's interests.
func SuggestDayPlans(ctx context.Context, it *itinerary.Itinerary, interests []string) (*Suggestion, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("API_KEY not found in environment variables")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	interestLine := "general sightseeing"
	if len(interests) > 0 {
		interestLine = strings.Join(interests, ", ")
	}

	prompt := fmt.Sprintf(`Plan a %d-day trip to %s for a %s traveler with a budget of %s USD.
The traveler is interested in: %s.

Return ONLY valid JSON in this exact format:
{
  "destination": string,
  "summary": string,              // one-sentence trip summary
  "days": [
    {
      "day_number": number,       // starting from 1
      "theme": string,            // short theme for the day
      "spots": [
        {
          "name": string,         // real place name
          "location": string,     // area or neighborhood
          "timing": string        // MORNING, AFTERNOON or EVENING
        }
      ]
    }
  ]
}

Suggest 2-4 spots per day. Use real, well-known places in %s.`,
		it.TotalDays(), it.Destination, it.TripType, it.Budget, interestLine, it.Destination)

	content := &genai.Content{
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	result, err := client.Models.GenerateContent(
		ctx,
		"gemini-2.5-flash-lite",
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.4)),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate day plans: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	responseText := result.Candidates[0].Content.Parts[0].Text
	if responseText == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	jsonText := extractJSONFromMarkdown(responseText)

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(jsonText), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, response: %s", err, jsonText)
	}

	return &suggestion, nil
}

// extractJSONFromMarkdown extracts JSON content from markdown code blocks
func extractJSONFromMarkdown(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") && strings.HasSuffix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") && strings.HasSuffix(text, "```") {
		lines := strings.Split(text, "\n")
		if len(lines) > 1 {
			return strings.Join(lines[1:len(lines)-1], "\n")
		}
	}

	return text
}
