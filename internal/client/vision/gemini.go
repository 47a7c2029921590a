// Package vision analyzes food-label images with the Gemini API and turns
// the model's structured output into a domain Analysis.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"

	"github.com/aislescan/aislescan/internal/client/api"
	"github.com/aislescan/aislescan/internal/core/domain"
)

const defaultModel = "gemini-2.5-flash"

// generator is the slice of the Gemini client the analyzer uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Analyzer sends a label photo plus the user's dietary context to Gemini
// and parses the schema-constrained JSON it returns.
type Analyzer struct {
	models generator
	model  string
}

// New creates an Analyzer. It returns a configuration error when the API
// key is empty so callers can surface a setup problem instead of a
// confusing network failure later.
func New(ctx context.Context, apiKey string) (*Analyzer, error) {
	if apiKey == "" {
		return nil, api.NewError(api.KindConfiguration, "Gemini API key is not configured, set GEMINI_API_KEY")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, api.WrapError(api.KindConfiguration, err, "creating Gemini client")
	}
	return &Analyzer{models: client.Models, model: defaultModel}, nil
}

// Analyze reads the image at path and asks the model for a structured
// nutrition analysis tailored to the given profile. Every failure mode, a
// missing file, a transport error, malformed model output, an out-of-range
// score, collapses into a single analysis failure: a partial analysis is
// never returned.
func (a *Analyzer) Analyze(ctx context.Context, imagePath string, profile domain.Profile) (*domain.Analysis, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return nil, api.WrapError(api.KindAnalysisFailed, err, "reading image")
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeTypeFor(imagePath)),
			genai.NewPartFromText(buildPrompt(profile)),
		}, genai.RoleUser),
	}

	resp, err := a.models.GenerateContent(ctx, a.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema(),
		Temperature:      genai.Ptr[float32](0.7),
	})
	if err != nil {
		return nil, api.WrapError(api.KindAnalysisFailed, err, "calling Gemini")
	}

	var analysis domain.Analysis
	if err := json.Unmarshal([]byte(resp.Text()), &analysis); err != nil {
		return nil, api.WrapError(api.KindAnalysisFailed, err, "parsing model response")
	}
	if err := analysis.Validate(); err != nil {
		return nil, api.WrapError(api.KindAnalysisFailed, err, "validating model response")
	}
	return &analysis, nil
}

// mimeTypeFor guesses the image MIME type from the file extension,
// defaulting to JPEG.
func mimeTypeFor(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "heic":
		return "image/heic"
	case "heif":
		return "image/heif"
	default:
		return "image/jpeg"
	}
}

// buildPrompt renders the analysis instructions with the user's dietary
// context so the model weighs allergens and goals in its pros and cons.
func buildPrompt(profile domain.Profile) string {
	var ctx strings.Builder
	ctx.WriteString("User Profile:\n")
	if profile.Goal != "" {
		fmt.Fprintf(&ctx, "- Health Goal: %s\n", profile.Goal.Label())
	}
	if len(profile.Allergies) > 0 {
		fmt.Fprintf(&ctx, "- Allergies: %s\n", strings.Join(profile.Allergies, ", "))
	}
	if len(profile.DietaryRestrictions) > 0 {
		fmt.Fprintf(&ctx, "- Dietary Restrictions: %s\n", strings.Join(profile.DietaryRestrictions, ", "))
	}
	userContext := ctx.String()
	if userContext == "User Profile:\n" {
		userContext = "No user profile information available."
	}

	return fmt.Sprintf(`You are a nutrition expert analyzing a food product label. Analyze the ingredients list and nutrition facts panel in this image.

%s

Please provide a comprehensive analysis of this food product. Extract all visible information including:
- Product name
- Ingredients list
- Nutrition facts (calories, macronutrients, vitamins, minerals, etc.)
- Any allergen warnings or dietary information

Then provide:
1. A brief summary of the product
2. Pros (positive aspects based on nutrition science)
3. Cons (negative aspects, potential health concerns, allergens based on user profile)
4. Scores out of 10 for:
   - Health: Overall nutritional value and healthiness
   - Fulfilling: How satiating/nutritious this product is
   - Taste: Estimated taste quality (based on ingredients and typical formulations)

Be specific and consider the user's profile when identifying pros and cons.`, userContext)
}

// analysisSchema constrains the model output to the exact Analysis shape,
// with every field required and scores bounded to [0,10].
func analysisSchema() *genai.Schema {
	scoreSchema := func(name string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeInteger,
			Minimum:     genai.Ptr(0.0),
			Maximum:     genai.Ptr(10.0),
			Description: name + " score out of 10",
		}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"productName": {
				Type:        genai.TypeString,
				Description: "The name of the product as shown on the label",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief summary of the product and its nutritional profile",
			},
			"pros": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of positive aspects of this product",
			},
			"cons": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of negative aspects, health concerns, or issues based on user profile",
			},
			"scores": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"health":     scoreSchema("Health"),
					"fulfilling": scoreSchema("Fulfilling"),
					"taste":      scoreSchema("Taste"),
				},
				Required: []string{"health", "fulfilling", "taste"},
			},
		},
		Required: []string{"productName", "summary", "pros", "cons", "scores"},
	}
}
