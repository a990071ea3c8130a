package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

const completionsTool = "offer_completions"

const systemPrompt = `You are an autocomplete engine embedded in a text editor used to write
clinical notes. Given the line the user is typing, predict how the user will
finish it. Each completion must be the complete line: it starts with the exact
text typed so far and continues it with a few words. Never repeat the typed
text without continuing it. Offer distinct completions, most likely first.`

// completionsInput is the input of the tool the model is required to call.
type completionsInput struct {
	Completions []string `json:"completions" jsonschema:"description=Completions of the line, most likely first. Each begins with the typed text."`
}

// generateSchema generates the tool input schema for the given type.
func generateSchema[T any]() anthropic.ToolInputSchemaParam {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return anthropic.ToolInputSchemaParam{
		Properties: schema.Properties,
	}
}

var completionsSchema = generateSchema[completionsInput]()

// AnthropicGenerator generates completions with a Claude model. The model is
// forced to answer by calling a tool whose input is the list of completions,
// which keeps the output machine readable.
type AnthropicGenerator struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicGenerator returns a generator using client, which is typically
// created with anthropic.NewClient() and reads ANTHROPIC_API_KEY from the
// environment.
func NewAnthropicGenerator(client *anthropic.Client) *AnthropicGenerator {
	return &AnthropicGenerator{
		client:    client,
		model:     anthropic.ModelClaude4Sonnet20250514,
		maxTokens: 512,
	}
}

// SetModel sets the model used for generation.
func (g *AnthropicGenerator) SetModel(model string) {
	g.model = anthropic.Model(model)
}

// Generate implements Generator.
func (g *AnthropicGenerator) Generate(ctx context.Context, input string, n int) ([]string, error) {
	prompt := fmt.Sprintf("Offer up to %d completions of this line:\n%s", n, input)
	message, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    []anthropic.TextBlockParam{{Type: "text", Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Tools: []anthropic.ToolUnionParam{{
			OfTool: &anthropic.ToolParam{
				Name:        completionsTool,
				Description: anthropic.String("Offer completions of the line being typed."),
				InputSchema: completionsSchema,
			},
		}},
		ToolChoice: anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: completionsTool},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	for _, content := range message.Content {
		if content.Type == "tool_use" && content.Name == completionsTool {
			return parseCompletions(input, content.Input, n)
		}
	}
	return nil, errors.New("anthropic: response did not offer completions")
}

// parseCompletions decodes the tool input into at most n completions. Blank
// completions, completions which merely repeat the input, and duplicates are
// dropped. Only the first line of a multi-line completion is kept.
func parseCompletions(input string, raw json.RawMessage, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	var in completionsInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("anthropic: decoding completions: %w", err)
	}

	seen := make(map[string]struct{}, len(in.Completions))
	completions := make([]string, 0, n)
	for _, c := range in.Completions {
		if len(completions) == n {
			break
		}
		if i := strings.IndexByte(c, '\n'); i >= 0 {
			c = c[:i]
		}
		c = strings.TrimRight(c, " \t\r")
		if strings.TrimSpace(c) == "" || c == input {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		completions = append(completions, c)
	}
	return completions, nil
}
