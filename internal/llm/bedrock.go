package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go"

	"github.com/sevigo/audit-warden/internal/config"
	"github.com/sevigo/audit-warden/internal/core"
)

// bedrockConverser is the part of the Bedrock runtime client the backend uses.
type bedrockConverser interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// BedrockBackend sends conversations through the Bedrock Converse API.
type BedrockBackend struct {
	client bedrockConverser
	logger *slog.Logger
}

// NewBedrockBackend resolves AWS credentials once. Explicit keys take
// precedence over the default credential chain.
func NewBedrockBackend(ctx context.Context, cfg config.AIConfig, logger *slog.Logger) (*BedrockBackend, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info("bedrock backend configured", "region", cfg.AWSRegion, "static_credentials", cfg.AWSAccessKey != "")
	return &BedrockBackend{
		client: bedrockruntime.NewFromConfig(awsCfg),
		logger: logger,
	}, nil
}

func (b *BedrockBackend) Name() string { return config.ProviderBedrock }

func (b *BedrockBackend) Converse(ctx context.Context, req *core.ConverseRequest) (*core.ConverseResponse, error) {
	out, err := b.client.Converse(ctx, toConverseInput(req))
	if err != nil {
		return nil, classifyBedrockError(err)
	}
	return fromConverseOutput(out)
}

func toConverseInput(req *core.ConverseRequest) *bedrockruntime.ConverseInput {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(req.ModelID),
	}

	for _, m := range req.Messages {
		msg := types.Message{Role: types.ConversationRoleUser}
		if m.Role == core.RoleAssistant {
			msg.Role = types.ConversationRoleAssistant
		}
		for _, block := range m.Content {
			msg.Content = append(msg.Content, &types.ContentBlockMemberText{Value: block.Text})
		}
		input.Messages = append(input.Messages, msg)
	}

	for _, s := range req.System {
		input.System = append(input.System, &types.SystemContentBlockMemberText{Value: s})
	}

	inf := req.Inference
	if inf.MaxTokens != nil || inf.Temperature != nil || inf.TopP != nil {
		ic := &types.InferenceConfiguration{}
		if inf.MaxTokens != nil {
			ic.MaxTokens = aws.Int32(int32(*inf.MaxTokens))
		}
		if inf.Temperature != nil {
			ic.Temperature = aws.Float32(float32(*inf.Temperature))
		}
		if inf.TopP != nil {
			ic.TopP = aws.Float32(float32(*inf.TopP))
		}
		input.InferenceConfig = ic
	}

	if req.ReasoningBudget > 0 {
		input.AdditionalModelRequestFields = document.NewLazyDocument(map[string]any{
			"thinking": map[string]any{
				"type":          "enabled",
				"budget_tokens": req.ReasoningBudget,
			},
		})
	}
	return input
}

func fromConverseOutput(out *bedrockruntime.ConverseOutput) (*core.ConverseResponse, error) {
	if out == nil {
		return nil, fmt.Errorf("%w: empty converse output", core.ErrUnexpectedResponse)
	}
	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, fmt.Errorf("%w: converse output carries no message", core.ErrUnexpectedResponse)
	}
	if out.Usage == nil {
		return nil, fmt.Errorf("%w: converse output carries no usage", core.ErrUnexpectedResponse)
	}

	resp := &core.ConverseResponse{
		Usage: core.Usage{
			InputTokens:  int(aws.ToInt32(out.Usage.InputTokens)),
			OutputTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
		},
	}
	for _, block := range msg.Value.Content {
		switch b := block.(type) {
		case *types.ContentBlockMemberText:
			resp.Content = append(resp.Content, core.ContentBlock{Text: b.Value})
		case *types.ContentBlockMemberReasoningContent:
			rt, ok := b.Value.(*types.ReasoningContentBlockMemberReasoningText)
			if !ok || aws.ToString(rt.Value.Text) == "" {
				continue
			}
			resp.Content = append(resp.Content, core.ContentBlock{Reasoning: aws.ToString(rt.Value.Text)})
		}
	}
	return resp, nil
}

// classifyBedrockError wraps err with core.ErrBackend and, for client errors
// other than timeouts and throttling, with core.ErrPermanent.
func classifyBedrockError(err error) error {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		if isPermanentStatus(respErr.HTTPStatusCode()) {
			return fmt.Errorf("%w: %w: %w", core.ErrBackend, core.ErrPermanent, err)
		}
		return fmt.Errorf("%w: %w", core.ErrBackend, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultClient {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ModelTimeoutException", "ModelNotReadyException":
		default:
			return fmt.Errorf("%w: %w: %w", core.ErrBackend, core.ErrPermanent, err)
		}
	}
	return fmt.Errorf("%w: %w", core.ErrBackend, err)
}

func isPermanentStatus(status int) bool {
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return false
	}
	return status >= 400 && status < 500
}
