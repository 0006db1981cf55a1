package quran

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hamzaoui/ayahreels/internal/models"
)

// Client talks to the alquran.cloud text API: chapter metadata and per-surah
// verse text.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Chapter is one surah's metadata.
type Chapter struct {
	Number        int    `json:"number"`
	Name          string `json:"name"`
	EnglishName   string `json:"englishName"`
	NumberOfAyahs int    `json:"numberOfAyahs"`
}

type surahListResponse struct {
	Code int       `json:"code"`
	Data []Chapter `json:"data"`
}

type surahResponse struct {
	Code int `json:"code"`
	Data struct {
		Chapter
		Ayahs []struct {
			NumberInSurah int    `json:"numberInSurah"`
			Text          string `json:"text"`
		} `json:"ayahs"`
	} `json:"data"`
}

// ListChapters returns the full chapter list.
func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	var body surahListResponse
	if err := c.get(ctx, c.baseURL+"/surah", &body); err != nil {
		return nil, err
	}
	if body.Code != 200 {
		return nil, fmt.Errorf("text provider returned code %d", body.Code)
	}
	return body.Data, nil
}

// FetchVerses returns the verse texts for [from, to] of one surah, in
// canonical verse order.
func (c *Client) FetchVerses(ctx context.Context, surah, from, to int) ([]models.VerseRequest, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("invalid ayah range %d-%d", from, to)
	}

	var body surahResponse
	if err := c.get(ctx, fmt.Sprintf("%s/surah/%d", c.baseURL, surah), &body); err != nil {
		return nil, err
	}
	if body.Code != 200 {
		return nil, fmt.Errorf("text provider returned code %d for surah %d", body.Code, surah)
	}

	if to > body.Data.NumberOfAyahs {
		return nil, fmt.Errorf("surah %d has %d ayahs, requested up to %d", surah, body.Data.NumberOfAyahs, to)
	}

	verses := make([]models.VerseRequest, 0, to-from+1)
	for _, ayah := range body.Data.Ayahs {
		if ayah.NumberInSurah < from || ayah.NumberInSurah > to {
			continue
		}
		verses = append(verses, models.VerseRequest{
			Surah: surah,
			Ayah:  ayah.NumberInSurah,
			Text:  ayah.Text,
		})
	}

	if len(verses) != to-from+1 {
		return nil, fmt.Errorf("text provider returned %d of %d requested verses", len(verses), to-from+1)
	}
	return verses, nil
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("text provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("text provider returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode text provider response: %w", err)
	}
	return nil
}
