package steam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultBaseURL = "https://api.steampowered.com"

var ErrEmptyResponse = errors.New("steam api returned an empty response")

type Client struct {
	baseURL string
	apiKey  string
	http    *fasthttp.Client

	defaultTimeout time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithMaxConnsPerHost(n int) Option {
	return func(c *Client) { c.http.MaxConnsPerHost = n }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:        defaultBaseURL,
		apiKey:         apiKey,
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveVanity maps a vanity profile name to an account identity. A nil
// error with an empty SteamID means the service answered but found no match.
func (c *Client) ResolveVanity(ctx context.Context, vanity string) (*VanityResult, error) {
	var env vanityEnvelope
	q := url.Values{"vanityurl": {vanity}}
	if err := c.get(ctx, "/ISteamUser/ResolveVanityURL/v0001/", q, &env); err != nil {
		return nil, err
	}
	if env.Response == nil {
		return nil, ErrEmptyResponse
	}
	return env.Response, nil
}

// PlayerSummary fetches presence, visibility and lobby state for one account.
func (c *Client) PlayerSummary(ctx context.Context, steamID string) (*PlayerSummary, error) {
	var env summariesEnvelope
	q := url.Values{"steamids": {steamID}}
	if err := c.get(ctx, "/ISteamUser/GetPlayerSummaries/v0002/", q, &env); err != nil {
		return nil, err
	}
	if env.Response == nil || len(env.Response.Players) == 0 {
		return nil, ErrEmptyResponse
	}
	return &env.Response.Players[0], nil
}

// OwnedGames probes the account's game library, including played free games.
// A nil GameCount means the library section is not visible to the bot.
func (c *Client) OwnedGames(ctx context.Context, steamID string) (*OwnedGames, error) {
	var env ownedGamesEnvelope
	q := url.Values{"steamid": {steamID}, "include_played_free_games": {"1"}}
	if err := c.get(ctx, "/IPlayerService/GetOwnedGames/v0001/", q, &env); err != nil {
		return nil, err
	}
	if env.Response == nil {
		return nil, ErrEmptyResponse
	}
	return env.Response, nil
}

// get performs one GET with the api key mixed into the query. Calls are
// single-attempt: a failed lookup surfaces to the caller, it is not retried.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	query.Set("key", c.apiKey)
	uri := c.baseURL + path + "?" + query.Encode()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(uri)

	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return fmt.Errorf("steam api error: status=%d", status)
	}
	body := resp.Body()
	if len(body) == 0 {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	if dl, ok := ctx.Deadline(); ok {
		clientDL := time.Now().Add(c.defaultTimeout)
		if dl.Before(clientDL) {
			return dl
		}
		return clientDL
	}
	return time.Now().Add(c.defaultTimeout)
}
