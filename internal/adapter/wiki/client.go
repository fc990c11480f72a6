// Package wiki is a minimal MediaWiki action API client: bot login,
// file upload and page edit.
package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"github.com/heartmarshall/terminology-bot/internal/config"
)

// ErrAPI is returned for MediaWiki API-level failures.
var ErrAPI = errors.New("wiki: api error")

// Client talks to one MediaWiki instance. It logs in lazily and keeps the
// session cookie and CSRF token for later calls.
type Client struct {
	apiURL     string
	user       string
	password   string
	httpClient *http.Client
	log        *slog.Logger

	mu        sync.Mutex
	csrfToken string
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.WikiConfig, logger *slog.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("wiki: cookie jar: %w", err)
	}
	return &Client{
		apiURL:     cfg.APIURL,
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout, Jar: jar},
		log:        logger.With("adapter", "wiki"),
	}, nil
}

// apiError is the error object MediaWiki returns with HTTP 200.
type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type tokensResponse struct {
	Query struct {
		Tokens struct {
			LoginToken string `json:"logintoken"`
			CSRFToken  string `json:"csrftoken"`
		} `json:"tokens"`
	} `json:"query"`
	Error *apiError `json:"error"`
}

type loginResponse struct {
	Login struct {
		Result string `json:"result"`
		Reason string `json:"reason"`
	} `json:"login"`
	Error *apiError `json:"error"`
}

type resultResponse struct {
	Upload *struct {
		Result string `json:"result"`
	} `json:"upload"`
	Edit *struct {
		Result string `json:"result"`
	} `json:"edit"`
	Error *apiError `json:"error"`
}

// Login authenticates with a bot password and fetches a CSRF token.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.login(ctx)
}

func (c *Client) login(ctx context.Context) error {
	var tokens tokensResponse
	if err := c.get(ctx, url.Values{"action": {"query"}, "meta": {"tokens"}, "type": {"login"}}, &tokens); err != nil {
		return fmt.Errorf("wiki: login token: %w", err)
	}
	if tokens.Error != nil {
		return fmt.Errorf("%w: %s: %s", ErrAPI, tokens.Error.Code, tokens.Error.Info)
	}

	var login loginResponse
	err := c.postForm(ctx, url.Values{
		"action":     {"login"},
		"lgname":     {c.user},
		"lgpassword": {c.password},
		"lgtoken":    {tokens.Query.Tokens.LoginToken},
	}, &login)
	if err != nil {
		return fmt.Errorf("wiki: login: %w", err)
	}
	if login.Login.Result != "Success" {
		return fmt.Errorf("%w: login %s: %s", ErrAPI, login.Login.Result, login.Login.Reason)
	}

	var csrf tokensResponse
	if err := c.get(ctx, url.Values{"action": {"query"}, "meta": {"tokens"}}, &csrf); err != nil {
		return fmt.Errorf("wiki: csrf token: %w", err)
	}
	if csrf.Query.Tokens.CSRFToken == "" {
		return fmt.Errorf("%w: empty csrf token", ErrAPI)
	}

	c.csrfToken = csrf.Query.Tokens.CSRFToken
	c.log.InfoContext(ctx, "wiki login", slog.String("user", c.user))
	return nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.csrfToken == "" {
		if err := c.login(ctx); err != nil {
			return "", err
		}
	}
	return c.csrfToken, nil
}

// Upload stores a file under filename, replacing any previous version.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader, comment string) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fields := map[string]string{
		"action":         "upload",
		"format":         "json",
		"filename":       filename,
		"comment":        comment,
		"ignorewarnings": "1",
		"token":          token,
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("wiki: upload form: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("wiki: upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("wiki: upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("wiki: upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, &body)
	if err != nil {
		return fmt.Errorf("wiki: create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp resultResponse
	if err := c.do(req, &resp); err != nil {
		return fmt.Errorf("wiki: upload %s: %w", filename, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: upload %s: %s: %s", ErrAPI, filename, resp.Error.Code, resp.Error.Info)
	}
	if resp.Upload == nil || resp.Upload.Result != "Success" {
		return fmt.Errorf("%w: upload %s: unexpected result", ErrAPI, filename)
	}

	c.log.InfoContext(ctx, "wiki upload", slog.String("filename", filename))
	return nil
}

// Edit replaces the whole text of page title.
func (c *Client) Edit(ctx context.Context, title, text, summary string) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	var resp resultResponse
	err = c.postForm(ctx, url.Values{
		"action":  {"edit"},
		"title":   {title},
		"text":    {text},
		"summary": {summary},
		"bot":     {"1"},
		"token":   {token},
	}, &resp)
	if err != nil {
		return fmt.Errorf("wiki: edit %s: %w", title, err)
	}
	if resp.Error != nil {
		return fmt.Errorf("%w: edit %s: %s: %s", ErrAPI, title, resp.Error.Code, resp.Error.Info)
	}
	if resp.Edit == nil || resp.Edit.Result != "Success" {
		return fmt.Errorf("%w: edit %s: unexpected result", ErrAPI, title)
	}

	c.log.InfoContext(ctx, "wiki edit", slog.String("title", title))
	return nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
