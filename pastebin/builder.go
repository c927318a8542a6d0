package pastebin

import (
	"context"
)

var defaultClient = New()

// Builder captures every attribute of a paste up front so the upload can
// be triggered later with Execute.
type Builder struct {
	client  *Client
	apiKey  string
	content string
	opts    []PasteOption
}

// NewBuilder bundles a credential, content and optional attributes.
func NewBuilder(apiKey, content string, opts ...PasteOption) *Builder {
	return &Builder{
		client:  defaultClient,
		apiKey:  apiKey,
		content: content,
		opts:    opts,
	}
}

// Client sets the client used by Execute. It returns b for chaining.
func (b *Builder) Client(c *Client) *Builder {
	b.client = c
	return b
}

// Execute uploads the paste and returns its URL.
func (b *Builder) Execute() (string, error) {
	return b.ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller-supplied context.
func (b *Builder) ExecuteContext(ctx context.Context) (string, error) {
	return b.client.Upload(ctx, b.apiKey, b.content, b.opts...)
}
