package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"disasterprep/config"
	"disasterprep/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Video struct {
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ChannelTitle string    `json:"channelTitle"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	PublishedAt  time.Time `json:"publishedAt"`
	URL          string    `json:"url"`
}

type ytThumb struct {
	URL string `json:"url"`
}

type ytSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
			Thumbnails   struct {
				Default ytThumb `json:"default"`
				Medium  ytThumb `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// YouTubeClient searches videos through the YouTube Data API.
type YouTubeClient struct {
	http       *resty.Client
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

func NewYouTubeClient(cfg config.YouTube, logger *zap.Logger) (*YouTubeClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("youtube: api key is required")
	}
	max := cfg.MaxResults
	if max <= 0 {
		max = 5
	}
	return &YouTubeClient{
		http:       newHTTPClient(cfg.BaseURL, defaultTimeout),
		apiKey:     cfg.APIKey,
		maxResults: max,
		logger:     logger,
	}, nil
}

func (y *YouTubeClient) Search(ctx context.Context, query string) ([]Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.Validation("query is required")
	}

	resp, err := y.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part":       "snippet",
			"type":       "video",
			"q":          query,
			"maxResults": strconv.Itoa(y.maxResults),
			"key":        y.apiKey,
		}).
		Get("/youtube/v3/search")
	if err := checkResponse("youtube", resp, err); err != nil {
		y.logger.Warn("youtube search failed", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	var raw ytSearchResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, domain.Upstream("youtube", fmt.Errorf("decode response: %w", err))
	}
	videos := make([]Video, 0, len(raw.Items))
	for _, it := range raw.Items {
		if it.ID.VideoID == "" {
			continue
		}
		thumb := it.Snippet.Thumbnails.Medium.URL
		if thumb == "" {
			thumb = it.Snippet.Thumbnails.Default.URL
		}
		videos = append(videos, Video{
			VideoID:      it.ID.VideoID,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			ChannelTitle: it.Snippet.ChannelTitle,
			ThumbnailURL: thumb,
			PublishedAt:  it.Snippet.PublishedAt,
			URL:          "https://www.youtube.com/watch?v=" + it.ID.VideoID,
		})
	}
	return videos, nil
}
