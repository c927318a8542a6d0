package pastebin

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the paste creation endpoint.
	DefaultAPIURL = "https://pastebin.com/api/api_post.php"

	// DefaultBaseURL prefixes every paste URL the service returns.
	DefaultBaseURL = "https://pastebin.com"

	// LiveErrorPrefix is the text the live service puts in front of its
	// error messages. See WithErrorPrefix.
	LiveErrorPrefix = "Bad API request, "
)

// Known error bodies, matched as whole strings.
const (
	msgInvalidKey    = "invalid api_dev_key"
	msgBlockedIP     = "IP blocked"
	msgInvalidFormat = "invalid api_paste_format"
)

// Client is a Pastebin API client. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	apiURL      string
	baseURL     string
	errorPrefix string
	httpClient  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIURL sets the endpoint pastes are posted to.
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
	}
}

// WithBaseURL sets the prefix that marks a response body as a paste URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout. By default there is none.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithErrorPrefix strips prefix from error bodies before they are matched
// against the known messages. Without it, only exact bodies such as
// "invalid api_dev_key" are recognized and a prefixed body is reported
// as ErrUnknown with the text intact.
func WithErrorPrefix(prefix string) Option {
	return func(c *Client) {
		c.errorPrefix = prefix
	}
}

// New creates a new Pastebin client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		apiURL:     DefaultAPIURL,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload creates a paste and returns its URL. Content is validated
// locally first; ErrEmptyPasteContent and ErrPasteTooBig are returned
// without contacting the service. Exactly one request is made otherwise,
// and it is never retried.
func (c *Client) Upload(ctx context.Context, apiKey, content string, opts ...PasteOption) (string, error) {
	form, err := BuildRequest(apiKey, content, opts...)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", transportError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	return c.classify(string(body))
}

// classify maps a response body to a paste URL or an *Error. The status
// code plays no part: the service signals everything through the body.
func (c *Client) classify(body string) (string, error) {
	if strings.HasPrefix(body, c.baseURL) {
		return body, nil
	}

	reason := body
	if c.errorPrefix != "" {
		reason = strings.TrimPrefix(body, c.errorPrefix)
	}

	switch reason {
	case msgInvalidKey:
		return "", &Error{Code: ErrInvalidKey, Message: body}
	case msgBlockedIP:
		return "", &Error{Code: ErrBlockedIP, Message: body}
	case msgInvalidFormat:
		return "", &Error{Code: ErrInvalidPasteFormat, Message: body}
	default:
		return "", &Error{Code: ErrUnknown, Message: body}
	}
}

func transportError(err error) *Error {
	return &Error{Code: ErrUnknown, Message: err.Error(), Err: err}
}
