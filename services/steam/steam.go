package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	apperr "Abuze/pkg/errors"
)

// Dead by Daylight's Steam app id; the hub only cares about hours in it.
const dbdAppID = 381210

const defaultBaseURL = "http://api.steampowered.com"

var ErrNoSteamID = apperr.New(apperr.ErrCodeValidation, "no Steam ID provided")

// Client queries the Steam Web API for a linked account's playtime.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBaseURL exists for tests pointing at a stub server.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type ownedGamesResponse struct {
	Response struct {
		Games []struct {
			AppID           int `json:"appid"`
			PlaytimeForever int `json:"playtime_forever"`
		} `json:"games"`
	} `json:"response"`
}

// Hours returns the rounded hours the account has in Dead by Daylight, 0
// when the game is absent or the profile's game list is private.
func (c *Client) Hours(ctx context.Context, steamID string) (int, error) {
	if steamID == "" {
		return 0, ErrNoSteamID
	}

	endpoint := fmt.Sprintf(
		"%s/IPlayerService/GetOwnedGames/v0001/?key=%s&steamid=%s&format=json",
		c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(steamID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.ErrCodeInternalError, "error building Steam request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.ErrCodeInternalError, "error calling Steam API")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperr.New(apperr.ErrCodeInternalError,
			fmt.Sprintf("Steam API returned status %d", resp.StatusCode))
	}

	var payload ownedGamesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, apperr.Wrap(err, apperr.ErrCodeInternalError, "error decoding Steam response")
	}

	for _, game := range payload.Response.Games {
		if game.AppID == dbdAppID {
			return int(math.Round(float64(game.PlaytimeForever) / 60)), nil
		}
	}
	return 0, nil
}
