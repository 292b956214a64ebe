// Package gemini categorizes products with Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/pricetrack"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Categorizer implements pricetrack.Categorizer at compile time.
var _ pricetrack.Categorizer = (*Categorizer)(nil)

// Categorizer implements pricetrack.Categorizer using Google Gemini.
type Categorizer struct {
	client *genai.Client
	model  string
}

// NewCategorizer creates a new Categorizer. An empty model means DefaultModel.
func NewCategorizer(client *genai.Client, model string) *Categorizer {
	if model == "" {
		model = DefaultModel
	}
	return &Categorizer{client: client, model: model}
}

// Categorize asks Gemini for the product's category and subcategory.
func (c *Categorizer) Categorize(ctx context.Context, title, brand, url string) (*pricetrack.Category, error) {
	if title == "" {
		return nil, pricetrack.Errorf(pricetrack.EINVALID, "product title required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: BuildCategorizePrompt(title, brand, url)}},
		}},
		BuildConfig(),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, pricetrack.Errorf(pricetrack.EINTERNAL, "gemini returned nil result")
	}

	return ParseCategoryResponse(result.Text())
}

// BuildConfig returns the GenerateContentConfig for categorization calls.
// The response is constrained to a JSON object whose category is one of
// pricetrack.Categories.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You categorize fashion and retail products for a wishlist. Choose the single best category. Use \"" + pricetrack.DefaultCategory + "\" when nothing else fits. The subcategory is a short noun phrase such as \"Dresses\" or \"Sneakers\".",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category":    {Type: genai.TypeString, Enum: pricetrack.Categories},
				"subcategory": {Type: genai.TypeString},
			},
			Required: []string{"category"},
		},
	}
}

// BuildCategorizePrompt builds the user prompt describing the product.
// Empty brand and url are omitted.
func BuildCategorizePrompt(title, brand, url string) string {
	var sb strings.Builder
	sb.WriteString("<product>\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", title)
	if brand != "" {
		fmt.Fprintf(&sb, "<brand>%s</brand>\n", brand)
	}
	if url != "" {
		fmt.Fprintf(&sb, "<url>%s</url>\n", url)
	}
	sb.WriteString("</product>\n\n")
	fmt.Fprintf(&sb, "Categories: %s", strings.Join(pricetrack.Categories, ", "))
	return sb.String()
}

// ParseCategoryResponse decodes a JSON categorization response. Markdown
// code fences around the JSON are tolerated. Returns EINVALID if the
// category is not one of pricetrack.Categories.
func ParseCategoryResponse(text string) (*pricetrack.Category, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var cat pricetrack.Category
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &cat); err != nil {
		return nil, pricetrack.Errorf(pricetrack.EINVALID, "malformed categorization response: %v", err)
	}
	cat.Name = strings.TrimSpace(cat.Name)
	cat.Subcategory = strings.TrimSpace(cat.Subcategory)
	if !pricetrack.IsCategory(cat.Name) {
		return nil, pricetrack.Errorf(pricetrack.EINVALID, "unknown category %q", cat.Name)
	}
	return &cat, nil
}
