package lrshttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-flashcards/pkg/xapi"
	"golang.org/x/oauth2/clientcredentials"
)

// Client posts statements to a Learning Record Store.
type Client struct {
	http     *http.Client
	endpoint string
	user     string
	pass     string
}

type Config struct {
	Endpoint string // e.g. https://lrs.example.com/xapi

	// OAuth2 client credentials. When TokenURL is empty, Basic auth with
	// Username/Password is used instead.
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string

	Username string
	Password string

	Timeout time.Duration
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		h = cc.Client(context.Background())
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{
		http:     h,
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		user:     cfg.Username,
		pass:     cfg.Password,
	}
}

// PostStatements sends a batch and returns the ids the LRS stored.
func (c *Client) PostStatements(ctx context.Context, sts []xapi.Statement) ([]string, error) {
	if c.endpoint == "" {
		return nil, errors.New("lrs endpoint not configured")
	}
	body, err := json.Marshal(sts)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/statements", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Experience-API-Version", xapi.Version)
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, fmt.Errorf("post statements: %s", res.Status)
	}
	var ids []string
	if res.StatusCode == http.StatusNoContent {
		return ids, nil
	}
	if err := json.NewDecoder(res.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decode statement ids: %w", err)
	}
	return ids, nil
}
