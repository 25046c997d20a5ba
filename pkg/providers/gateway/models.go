package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/hermes/pkg/providers"
)

// ListModels fetches the gateway's model discovery endpoint and returns one
// descriptor per advertised model.
//
// The gateway reports only model ids; display names and context-window sizes
// are left zero for the catalog service to fill in from its heuristics.
func (p *Provider) ListModels(ctx context.Context) ([]providers.ModelDescriptor, error) {
	url := fmt.Sprintf("%s/v1/models", p.GetConfig().BaseURL)

	var resp GatewayModelsResponse
	if err := p.DoJSONRequest(ctx, "GET", url, nil, &resp, p.headers()); err != nil {
		return nil, err
	}

	models := make([]providers.ModelDescriptor, 0, len(resp.Data))
	for _, m := range resp.Data {
		if m.ID == "" {
			continue
		}
		models = append(models, providers.ModelDescriptor{
			ID:       m.ID,
			Provider: providers.ProviderGateway,
		})
	}

	slog.Debug("gateway models discovered",
		"provider", p.GetName(),
		"count", len(models),
	)

	return models, nil
}
