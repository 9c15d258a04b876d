package insight

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

var novaModels = map[string]string{
	"nova-lite": "us.amazon.nova-2-lite-v1:0",
}

// ConverseAPI is the slice of the Bedrock runtime client NovaGenerator uses.
type ConverseAPI interface {
	Converse(ctx context.Context, in *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// NovaGenerator completes prompts with Amazon Nova through Bedrock Converse.
type NovaGenerator struct {
	modelID string
	client  ConverseAPI
}

// NewNovaGenerator loads the default AWS config and creates a Bedrock client.
func NewNovaGenerator(ctx context.Context, model string) (*NovaGenerator, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return NewNovaGeneratorWithClient(model, bedrockruntime.NewFromConfig(cfg)), nil
}

func NewNovaGeneratorWithClient(model string, client ConverseAPI) *NovaGenerator {
	modelID := novaModels[model]
	if modelID == "" {
		modelID = novaModels["nova-lite"]
	}
	return &NovaGenerator{modelID: modelID, client: client}
}

func (g *NovaGenerator) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := g.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(g.modelID),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: p.System},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: p.User},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(p.MaxTokens)),
			Temperature: aws.Float32(float32(p.Temperature)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Bedrock Converse error: %w", err)
	}
	return extractNovaText(resp), nil
}

func extractNovaText(resp *bedrockruntime.ConverseOutput) string {
	if resp == nil || resp.Output == nil {
		return ""
	}
	msg, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	for _, block := range msg.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok {
			return tb.Value
		}
	}
	return ""
}
