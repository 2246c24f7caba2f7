package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"disasterprep/config"
	"disasterprep/domain"
	"disasterprep/model"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		URLToImage  string    `json:"urlToImage"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// NewsClient pulls raw headlines from the NewsAPI aggregator.
type NewsClient struct {
	http     *resty.Client
	apiKey   string
	query    string
	pageSize int
	logger   *zap.Logger
}

func NewNewsClient(cfg config.News, logger *zap.Logger) (*NewsClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("news: api key is required")
	}
	size := cfg.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	return &NewsClient{
		http:     newHTTPClient(cfg.BaseURL, defaultTimeout),
		apiKey:   cfg.APIKey,
		query:    cfg.Query,
		pageSize: size,
		logger:   logger,
	}, nil
}

// Fetch returns the latest headlines for the configured query, unfiltered.
func (n *NewsClient) Fetch(ctx context.Context) ([]model.ClimateNews, error) {
	resp, err := n.http.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", n.apiKey).
		SetQueryParams(map[string]string{
			"q":        n.query,
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": strconv.Itoa(n.pageSize),
		}).
		Get("/v2/everything")
	if err := checkResponse("news", resp, err); err != nil {
		n.logger.Error("news fetch failed", zap.Error(err))
		return nil, err
	}

	var raw newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, domain.Upstream("news", fmt.Errorf("decode response: %w", err))
	}
	if raw.Status != "" && raw.Status != "ok" {
		return nil, domain.Upstream("news", fmt.Errorf("%s: %s", raw.Code, raw.Message))
	}

	items := make([]model.ClimateNews, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		items = append(items, model.ClimateNews{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			ImageURL:    a.URLToImage,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}
	return items, nil
}
