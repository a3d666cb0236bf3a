// Package proxy exposes endpoints of external REST APIs as named tools, as
// described by the apis section of the configuration.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JhonesBR/go-ledger/internal/config"
	"github.com/gofiber/fiber/v3/client"
	"go.uber.org/zap"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrMissingParameter = errors.New("missing required parameter")
)

// UpstreamError is returned when the external API could not be reached or
// answered with a non-2xx status.
type UpstreamError struct {
	Tool   string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("api request for %s failed: %v", e.Tool, e.Err)
	}
	return fmt.Sprintf("api request for %s failed: status %d: %s", e.Tool, e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type Tool struct {
	Name        string
	Description string
	Parameters  []config.ParameterConfig

	method  string
	url     string
	headers map[string]string
}

type Client struct {
	http  *client.Client
	log   *zap.Logger
	tools map[string]Tool
	order []string
}

type Option func(*Client)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func New(apis []config.APIConfig, opts ...Option) *Client {
	c := &Client{
		http:  client.New(),
		log:   zap.NewNop(),
		tools: map[string]Tool{},
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, api := range apis {
		base := strings.TrimRight(api.BaseURL, "/")
		for _, ep := range api.Endpoints {
			headers := map[string]string{}
			for k, v := range api.Headers {
				headers[k] = v
			}
			for k, v := range ep.Headers {
				headers[k] = v
			}

			path := ep.Path
			if path != "" && !strings.HasPrefix(path, "/") {
				path = "/" + path
			}

			c.tools[ep.ToolName] = Tool{
				Name:        ep.ToolName,
				Description: ep.Description,
				Parameters:  ep.Parameters,
				method:      strings.ToUpper(ep.Method),
				url:         base + path,
				headers:     headers,
			}
			c.order = append(c.order, ep.ToolName)
		}
	}
	return c
}

// Tools lists the configured tools in configuration order.
func (c *Client) Tools() []Tool {
	out := make([]Tool, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.tools[name])
	}
	return out
}

func (c *Client) Has(name string) bool {
	_, ok := c.tools[name]
	return ok
}

// Call forwards args to the endpoint behind tool name. GET endpoints get
// the arguments as query parameters, POST endpoints as a JSON body. The
// decoded JSON response is returned, or the raw body when it is not JSON.
func (c *Client) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := c.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	params, err := tool.arguments(args)
	if err != nil {
		return nil, err
	}

	cfg := client.Config{Ctx: ctx, Header: tool.headers}
	var resp *client.Response
	switch tool.method {
	case "GET":
		query := make(map[string]string, len(params))
		for k, v := range params {
			query[k] = fmt.Sprint(v)
		}
		cfg.Param = query
		resp, err = c.http.Get(tool.url, cfg)
	case "POST":
		cfg.Body = params
		resp, err = c.http.Post(tool.url, cfg)
	default:
		return nil, fmt.Errorf("unsupported http method %s for tool %s", tool.method, name)
	}
	if err != nil {
		c.log.Warn("proxy request failed", zap.String("tool", name), zap.Error(err))
		return nil, &UpstreamError{Tool: name, Err: err}
	}
	defer resp.Close()

	body := resp.Body()
	if status := resp.StatusCode(); status < 200 || status > 299 {
		c.log.Warn("proxy upstream error", zap.String("tool", name), zap.Int("status", status))
		return nil, &UpstreamError{Tool: name, Status: status, Body: string(body)}
	}

	var out any
	if err := json.Unmarshal(body, &out); err != nil {
		return string(body), nil
	}
	return out, nil
}

// arguments fills declared defaults and rejects missing required ones.
func (t Tool) arguments(args map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(args)+len(t.Parameters))
	for k, v := range args {
		out[k] = v
	}
	for _, p := range t.Parameters {
		if _, ok := out[p.Name]; ok {
			continue
		}
		switch {
		case p.Default != "":
			out[p.Name] = p.Default
		case p.Required:
			return nil, fmt.Errorf("%w: %s", ErrMissingParameter, p.Name)
		}
	}
	return out, nil
}
