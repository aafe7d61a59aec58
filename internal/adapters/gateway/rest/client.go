// Package rest talks to the annotation backend over its JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/bnema/zoommark/internal/domain"
	"github.com/bnema/zoommark/internal/ports"
)

const (
	maxResponseBytes = 1 << 20
	csrfCookieName   = "csrftoken"
	csrfHeader       = "X-CSRFToken"
	requestIDHeader  = "X-Request-ID"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
}

type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	// RateLimit is the sustained number of requests per second. Zero
	// disables limiting.
	RateLimit float64
	Burst     int
	Logger    *zap.Logger
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	requestTimeout time.Duration
	limiter        *rate.Limiter
	logger         *zap.Logger
}

var _ ports.Gateway = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	baseURL, err := normalizeBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		copied := *opts.HTTPClient
		httpClient = &copied
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		requestTimeout: opts.RequestTimeout,
		limiter:        limiter,
		logger:         logger,
	}, nil
}

func (c *Client) ListImages(ctx context.Context) ([]domain.ImageSummary, error) {
	var payload []imageSummaryDTO
	if _, err := c.do(ctx, call{op: "list images", method: http.MethodGet, path: "api/gallery/"}, &payload); err != nil {
		return nil, err
	}

	images := make([]domain.ImageSummary, 0, len(payload))
	for _, entry := range payload {
		images = append(images, entry.toDomain())
	}
	return images, nil
}

func (c *Client) GetImage(ctx context.Context, id domain.ImageID) (domain.Image, error) {
	if strings.TrimSpace(string(id)) == "" {
		return domain.Image{}, domain.ErrNoImageSelected
	}

	var payload imageDTO
	_, err := c.do(ctx, call{
		op:       "get image",
		method:   http.MethodGet,
		path:     "api/images/" + url.PathEscape(string(id)) + "/",
		notFound: domain.ErrImageNotFound,
	}, &payload)
	if err != nil {
		return domain.Image{}, err
	}
	return payload.toDomain(id), nil
}

func (c *Client) GetMarkerDetail(ctx context.Context, id domain.MarkerID) (domain.MarkerDetail, error) {
	if strings.TrimSpace(string(id)) == "" {
		return domain.MarkerDetail{}, errors.New("marker id is required")
	}

	var payload markerDetailDTO
	_, err := c.do(ctx, call{
		op:       "get marker detail",
		method:   http.MethodGet,
		path:     "api/markers/" + url.PathEscape(string(id)) + "/",
		notFound: domain.ErrMarkerNotFound,
	}, &payload)
	if err != nil {
		return domain.MarkerDetail{}, err
	}
	return payload.toDomain(), nil
}

func (c *Client) PostChatMessage(ctx context.Context, id domain.MarkerID, user, text string) (domain.ChatMessage, error) {
	if strings.TrimSpace(string(id)) == "" {
		return domain.ChatMessage{}, errors.New("marker id is required")
	}

	sent := chatMessageDTO{User: user, Text: text}
	var payload chatMessageDTO
	status, err := c.do(ctx, call{
		op:       "post chat message",
		method:   http.MethodPost,
		path:     "api/markers/" + url.PathEscape(string(id)) + "/chat/",
		body:     sent,
		notFound: domain.ErrMarkerNotFound,
	}, &payload)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if status == http.StatusNoContent {
		payload = sent
	}
	return domain.ChatMessage{User: payload.User, Text: payload.Text}, nil
}

func (c *Client) PostMarker(ctx context.Context, imageID domain.ImageID, marker domain.NewMarker) (domain.Marker, error) {
	if strings.TrimSpace(string(imageID)) == "" {
		return domain.Marker{}, domain.ErrNoImageSelected
	}

	var payload markerDTO
	status, err := c.do(ctx, call{
		op:     "post marker",
		method: http.MethodPost,
		path:   "api/images/" + url.PathEscape(string(imageID)) + "/markers/",
		body: newMarkerDTO{
			Title:       marker.Title,
			Description: marker.Description,
			X:           marker.X,
			Y:           marker.Y,
			User:        marker.User,
		},
		notFound: domain.ErrImageNotFound,
	}, &payload)
	if err != nil {
		return domain.Marker{}, err
	}
	if status == http.StatusNoContent {
		return domain.Marker{}, errors.New("post marker: response carried no marker")
	}
	return payload.toDomain(), nil
}

type call struct {
	op       string
	method   string
	path     string
	body     any
	notFound error
}

// do runs one request and decodes a 2xx body into out. It returns the
// response status code.
func (c *Client) do(ctx context.Context, req call, out any) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	if err := c.limiter.Wait(requestCtx); err != nil {
		return 0, fmt.Errorf("%s: wait for rate limiter: %w", req.op, err)
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", req.op, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(requestCtx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return 0, fmt.Errorf("create %s request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)
	if isUnsafeMethod(req.method) {
		if token := c.csrfToken(httpReq.URL); token != "" {
			httpReq.Header.Set(csrfHeader, token)
		}
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("op", req.op),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return 0, fmt.Errorf("%s: %w", req.op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("api request",
		zap.String("op", req.op),
		zap.String("method", req.method),
		zap.String("path", httpReq.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode == http.StatusNotFound && req.notFound != nil {
		return resp.StatusCode, fmt.Errorf("%s: %w", req.op, req.notFound)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp.StatusCode, &StatusError{
			Op:         req.op,
			StatusCode: resp.StatusCode,
			Detail:     decodeDetail(resp.Body),
		}
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", req.op, err)
	}
	return resp.StatusCode, nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.requestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func (c *Client) csrfToken(u *url.URL) string {
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

func isUnsafeMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// decodeDetail extracts a readable message from an error body: either the
// "detail" field or the first field error.
func decodeDetail(body io.Reader) string {
	var payload map[string]json.RawMessage
	if err := json.NewDecoder(io.LimitReader(body, maxResponseBytes)).Decode(&payload); err != nil {
		return ""
	}

	if raw, ok := payload["detail"]; ok {
		var detail string
		if err := json.Unmarshal(raw, &detail); err == nil {
			return detail
		}
	}

	fields := make([]string, 0, len(payload))
	for field := range payload {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		var messages []string
		if err := json.Unmarshal(payload[field], &messages); err == nil && len(messages) > 0 {
			return field + ": " + strings.Join(messages, " ")
		}
	}
	return ""
}

func normalizeBaseURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	return parsed.String(), nil
}
