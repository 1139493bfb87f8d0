package netatmo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the production Netatmo API endpoint.
	DefaultBaseURL = "https://api.netatmo.com"

	tokenPath        = "/oauth2/token"
	stationsDataPath = "/api/getstationsdata"
	getMeasurePath   = "/api/getmeasure"

	// scaleMax requests raw samples rather than aggregated buckets.
	scaleMax = "max"
)

// APIError is a structured error payload returned by the Netatmo API.
type APIError struct {
	Code    int
	Message string
}

func (e APIError) Error() string {
	return fmt.Sprintf("netatmo api error %d: %s", e.Code, e.Message)
}

// HTTPStatusError reports a non-2xx response without a decodable error body.
type HTTPStatusError struct {
	Status int
	Body   string
}

func (e HTTPStatusError) Error() string {
	return fmt.Sprintf("netatmo http %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// Client talks to the Netatmo weather station API. One Client holds one
// authenticated session: the token is exchanged eagerly in Connect and
// refreshed in place once it expires. Auth failures are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
	config     *oauth2.Config

	mu    sync.Mutex
	token *oauth2.Token
}

// Connect performs the password-grant token exchange and returns a ready
// client. An empty baseURL selects DefaultBaseURL.
func Connect(ctx context.Context, baseURL string, creds *Credentials) (*Client, error) {
	if creds == nil {
		return nil, ErrNoCredentials
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	scope := creds.Scope
	if scope == "" {
		scope = DefaultScope
	}

	httpClient := &http.Client{Timeout: 15 * time.Second}
	config := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: baseURL + tokenPath,
			// Netatmo wants client credentials in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: strings.Fields(scope),
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	token, err := config.PasswordCredentialsToken(ctx, creds.Username, creds.Password)
	if err != nil {
		tokenFailures.Inc()
		return nil, tokenError(err)
	}
	tokenExchanges.Inc()

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		config:     config,
		token:      token,
	}, nil
}

// Stations fetches the account's station listing, in the order the API
// returns it.
func (c *Client) Stations(ctx context.Context) ([]Station, error) {
	var body struct {
		Devices []Station `json:"devices"`
	}
	if err := c.getJSON(ctx, stationsDataPath, nil, &body); err != nil {
		return nil, err
	}
	return body.Devices, nil
}

// Measure fetches the max-resolution series for one metric type between two
// epochs, both inclusive. stationID addresses the owning station; moduleID
// selects the device within it and equals stationID when the station itself
// is measured. Points come back sorted ascending by time.
func (c *Client) Measure(ctx context.Context, stationID, moduleID, metric string, begin, end int64) ([]Point, error) {
	params := url.Values{}
	params.Set("device_id", stationID)
	params.Set("module_id", moduleID)
	params.Set("scale", scaleMax)
	params.Set("type", metric)
	params.Set("date_begin", strconv.FormatInt(begin, 10))
	params.Set("date_end", strconv.FormatInt(end, 10))
	params.Set("optimize", "false")

	var body map[string][]*float64
	if err := c.getJSON(ctx, getMeasurePath, params, &body); err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(body))
	for stamp, values := range body {
		ts, err := strconv.ParseInt(stamp, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("measure timestamp %q: %w", stamp, err)
		}
		points = append(points, Point{Time: ts, Values: values})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Time < points[j].Time })
	return points, nil
}

// accessToken returns a valid bearer token, refreshing the stored one when
// it has expired.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token.Valid() {
		return c.token.AccessToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	token, err := c.config.TokenSource(ctx, c.token).Token()
	if err != nil {
		tokenFailures.Inc()
		return "", tokenError(err)
	}
	c.token = token
	tokenExchanges.Inc()
	return token.AccessToken, nil
}

// tokenError unwraps oauth2 retrieval errors into something readable.
func tokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		body := strings.TrimSpace(string(retrieveErr.Body))
		return fmt.Errorf("token exchange failed %d: %s", retrieveErr.Response.StatusCode, body)
	}
	return err
}

// getJSON performs an authenticated GET and decodes the "body" member of the
// API's response wrapper into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	accessToken, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	apiRequests.WithLabelValues(path).Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErrors.WithLabelValues(path).Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErrors.WithLabelValues(path).Inc()
		data, _ := io.ReadAll(resp.Body)
		var failure struct {
			Error struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(data, &failure); err == nil && failure.Error.Message != "" {
			return APIError{Code: failure.Error.Code, Message: failure.Error.Message}
		}
		return HTTPStatusError{Status: resp.StatusCode, Body: string(data)}
	}

	var wrapper struct {
		Body   json.RawMessage `json:"body"`
		Status string          `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&wrapper); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if out == nil || len(wrapper.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(wrapper.Body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
