package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/models"
	"github.com/VasupariSaikumar/EmployerReportsViewer/internal/client/query"
	"github.com/google/uuid"
)

const restPrefix = "/rest/v1"

// maxErrorBody caps how much of a failed response is read for the message.
const maxErrorBody = 4 << 10

// RESTClient reads rows through the PostgREST API.
type RESTClient struct {
	id        string
	baseURL   *url.URL
	key       string
	http      *http.Client
	transport *http.Transport
}

func NewRESTClient(endpoint, secretKey string, t Timeouts) (*RESTClient, error) {
	base, err := restBaseURL(endpoint)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   t.Connect,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   t.Connect,
		ResponseHeaderTimeout: t.Socket,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          10,
		ForceAttemptHTTP2:     true,
	}

	return &RESTClient{
		id:        newID(),
		baseURL:   base,
		key:       secretKey,
		transport: transport,
		http: &http.Client{
			Transport: transport,
			Timeout:   t.Request,
		},
	}, nil
}

// restBaseURL appends /rest/v1 unless endpoint already ends with it.
func restBaseURL(endpoint string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedEndpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %q", ErrUnsupportedEndpoint, endpoint)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if !strings.HasSuffix(u.Path, restPrefix) {
		u.Path += restPrefix
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func (c *RESTClient) ID() string {
	return c.id
}

func (c *RESTClient) Endpoint() string {
	return c.baseURL.Redacted()
}

func (c *RESTClient) Select(ctx context.Context, q *query.Query) ([]models.AttendanceRecord, error) {
	u := *c.baseURL
	u.Path += "/" + q.Table
	u.RawQuery = q.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Client-Info", userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	var records []models.AttendanceRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		// a body cut off by the overall deadline surfaces here
		if ctx.Err() != nil {
			return nil, mapTransportError(ctx.Err())
		}
		if isTimeout(err) {
			return nil, mapTransportError(err)
		}
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if records == nil {
		records = []models.AttendanceRecord{}
	}
	return records, nil
}

func (c *RESTClient) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

// postgrestError is the JSON body PostgREST sends with a failed request.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(body))
	var pe postgrestError
	if json.Unmarshal(body, &pe) == nil && pe.Message != "" {
		msg = pe.Message
		if pe.Code != "" {
			msg = pe.Code + " " + msg
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		kind = ErrUnauthorized
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusGatewayTimeout:
		kind = ErrTimeout
	case resp.StatusCode >= 500:
		kind = ErrUnavailable
	default:
		kind = ErrBadResponse
	}
	return fmt.Errorf("%w: HTTP %d: %s", kind, resp.StatusCode, msg)
}
