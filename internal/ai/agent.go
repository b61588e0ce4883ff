package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"

	"farmagestion/internal/core"
)

// AgentService turns a natural-language sale description into a structured
// SaleProposal resolved later against the live collections.
type AgentService interface {
	ProposeSale(ctx context.Context, event, clientList, catalog string) (*core.SaleProposal, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// ProposeSale asks the model to map an event like "sold 3 boxes of
// paracetamol to María, card, 10% off" onto the client list and product
// catalog. The response is constrained to the SaleProposal JSON schema and
// normalized/validated before being returned.
func (a *Agent) ProposeSale(ctx context.Context, event, clientList, catalog string) (*core.SaleProposal, error) {
	prompt := fmt.Sprintf(`You are the sales assistant of a small pharmacy.
Your goal is to interpret a sale described in natural language and propose a structured sale record.
Rules:
1. The client MUST be one from the client list below; reference it by its exact name or document id.
2. Every product MUST be one from the catalog below; reference it by its exact name or reference code.
3. Quantities are positive integers.
4. payment_method is one of: cash, transfer, card, other. Use "cash" when unspecified.
5. discount_percent is "0" unless a discount was explicitly mentioned.
6. Provide a confidence score (0.0-1.0) and explain your reasoning.

Clients:
%s

Catalog:
%s

Event: %s`, clientList, catalog, event)

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "sale_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposed pharmacy sale transaction"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var proposal core.SaleProposal
	if err := json.Unmarshal([]byte(content), &proposal); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	proposal.Normalize()
	if err := proposal.Validate(); err != nil {
		return nil, fmt.Errorf("proposal validation failed: %w", err)
	}
	return &proposal, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.SaleProposal
	return reflector.Reflect(v)
}
