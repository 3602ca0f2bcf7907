package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"
	"github.com/aws/smithy-go/auth/bearer"

	"pagesummarizer/internal/domain/apperror"
	"pagesummarizer/internal/domain/entity"
)

// bedrockCompleter calls the Bedrock Converse API with a bearer token.
type bedrockCompleter struct {
	client *bedrockruntime.Client
}

func newBedrockCompleter(ctx context.Context, httpClient *http.Client, settings entity.SummarizationSettings) (*bedrockCompleter, error) {
	if settings.Region == "" {
		return nil, apperror.Config("Bedrock region is missing. Please set region in the settings.", nil)
	}

	sdkConfig, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(settings.Region),
		config.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, apperror.Config("Failed to load AWS config", err)
	}

	sdkConfig.BearerAuthTokenProvider = bearer.NewTokenCache(bearer.StaticTokenProvider{
		Token: bearer.Token{Value: settings.APIKey},
	})
	sdkConfig.AuthSchemePreference = []string{"httpBearerAuth"}
	// One attempt per call.
	sdkConfig.Retryer = func() aws.Retryer { return aws.NopRetryer{} }

	client := bedrockruntime.NewFromConfig(sdkConfig, func(o *bedrockruntime.Options) {
		if settings.EndpointURL != "" && settings.EndpointURL != entity.DefaultEndpointURL {
			o.BaseEndpoint = aws.String(settings.EndpointURL)
		}
	})

	return &bedrockCompleter{client: client}, nil
}

func (c *bedrockCompleter) Complete(ctx context.Context, req chatRequest) (string, error) {
	resp, err := c.client.Converse(ctx, buildConverseInput(req))
	if err != nil {
		return "", mapBedrockError(err)
	}
	return parseConverseOutput(resp)
}

func buildConverseInput(req chatRequest) *bedrockruntime.ConverseInput {
	return &bedrockruntime.ConverseInput{
		ModelId: aws.String(req.Model),
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: req.User},
				},
			},
		},
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: req.System},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(req.MaxTokens)),
			Temperature: aws.Float32(float32(req.Temperature)),
		},
	}
}

func parseConverseOutput(resp *bedrockruntime.ConverseOutput) (string, error) {
	messageOutput, ok := resp.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", apperror.Format(msgInvalidFormat, fmt.Errorf("unexpected bedrock response output type: %T", resp.Output))
	}

	var texts []string
	for _, block := range messageOutput.Value.Content {
		textBlock, ok := block.(*types.ContentBlockMemberText)
		if !ok {
			continue
		}
		if text := strings.TrimSpace(textBlock.Value); text != "" {
			texts = append(texts, text)
		}
	}

	if len(texts) == 0 {
		return "", apperror.Format(msgInvalidFormat, errors.New("no text content in bedrock response"))
	}
	return strings.Join(texts, " "), nil
}

func mapBedrockError(err error) error {
	var respErr *awshttp.ResponseError
	if !errors.As(err, &respErr) {
		return apperror.Network(err)
	}

	detail := ""
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		detail = apiErr.ErrorMessage()
	}

	switch status := respErr.HTTPStatusCode(); status {
	case http.StatusForbidden:
		// Bedrock rejects bad bearer tokens with 403.
		return apperror.Auth()
	default:
		return apperror.FromStatus(status, detail)
	}
}
