package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/lobami/campaign-analytics/internal/models"
)

// Search runs a tenant-scoped text query over indexed campaigns. The
// company filter is part of the query itself so search can never cross
// tenants.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, companyID uint, from, size int) (int64, []models.Campaign, error) {
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []any{
					map[string]any{"term": map[string]any{"company_id": companyID}},
				},
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     query,
						"fields":    []string{"name^2", "campaign_type"},
						"fuzziness": "AUTO",
					},
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Campaign `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	campaigns := make([]models.Campaign, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		campaigns[i] = hit.Source
	}
	return r.Hits.Total.Value, campaigns, nil
}

// IndexCampaign upserts one campaign document keyed by its name.
func IndexCampaign(ctx context.Context, es *elasticsearch.Client, index string, campaign *models.Campaign) error {
	data, err := json.Marshal(campaign)
	if err != nil {
		return fmt.Errorf("index: marshal campaign: %w", err)
	}
	res, err := es.Index(
		index,
		bytes.NewReader(data),
		es.Index.WithDocumentID(campaign.Name),
		es.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index: %s", res.Status())
	}
	return nil
}

// DeleteCampaign removes a campaign document; a missing document is fine.
func DeleteCampaign(ctx context.Context, es *elasticsearch.Client, index, name string) error {
	res, err := es.Delete(index, name, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete: %s", res.Status())
	}
	return nil
}
