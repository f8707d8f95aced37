package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient implements Client using the official SDK's Responses API
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a completion client with the given API key
func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}
}

// Complete sends one completion request and returns the generated text
// and, when the model produced one, the generated image.
func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (*Result, error) {
	params := responses.ResponseNewParams{
		Model: req.Model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: buildInput(req.Items),
		},
	}

	if req.MaxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(req.MaxOutputTokens)
	}

	if req.EnableTools {
		params.Tools = []responses.ToolUnionParam{
			{OfWebSearchPreview: &responses.WebSearchToolParam{
				Type: responses.WebSearchToolTypeWebSearchPreview,
			}},
			{OfImageGeneration: &responses.ToolImageGenerationParam{}},
		}
	}

	switch req.ReasoningEffort {
	case "medium":
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffortMedium}
	case "high":
		params.Reasoning = shared.ReasoningParam{Effort: shared.ReasoningEffortHigh}
	}

	resp, err := c.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}

	result := &Result{Text: resp.OutputText()}
	for _, item := range resp.Output {
		if item.Type == "image_generation_call" {
			call := item.AsImageGenerationCall()
			if call.Result != "" {
				result.ImageBase64 = call.Result
				break
			}
		}
	}
	return result, nil
}

// buildInput converts role-tagged items to Responses API input items.
// History and system items are plain text; the current user turn may be
// a multi-part item combining text and inline base64 images.
func buildInput(items []Item) []responses.ResponseInputItemUnionParam {
	input := make([]responses.ResponseInputItemUnionParam, 0, len(items))
	for _, item := range items {
		if len(item.Images) == 0 {
			input = append(input, responses.ResponseInputItemParamOfMessage(item.Text, sdkRole(item.Role)))
			continue
		}

		parts := responses.ResponseInputMessageContentListParam{}
		if strings.TrimSpace(item.Text) != "" {
			parts = append(parts, responses.ResponseInputContentParamOfInputText(item.Text))
		}
		for _, b64 := range item.Images {
			parts = append(parts, responses.ResponseInputContentUnionParam{
				OfInputImage: &responses.ResponseInputImageParam{
					Detail:   responses.ResponseInputImageDetailAuto,
					ImageURL: openai.String("data:image/jpeg;base64," + b64),
				},
			})
		}
		input = append(input, responses.ResponseInputItemUnionParam{
			OfMessage: &responses.EasyInputMessageParam{
				Role: sdkRole(item.Role),
				Content: responses.EasyInputMessageContentUnionParam{
					OfInputItemContentList: parts,
				},
			},
		})
	}
	return input
}

func sdkRole(r Role) responses.EasyInputMessageRole {
	switch r {
	case RoleSystem:
		return responses.EasyInputMessageRoleSystem
	case RoleAssistant:
		return responses.EasyInputMessageRoleAssistant
	default:
		return responses.EasyInputMessageRoleUser
	}
}
