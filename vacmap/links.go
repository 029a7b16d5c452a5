package vacmap

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LinkProvider resolves the ordered download-link list for a device. The
// first entry carrying a map URL locates the map blob; the next such entry
// locates the path blob.
type LinkProvider interface {
	MapLinks(ctx context.Context, deviceID string) ([]DownloadLink, error)
}

const (
	tokenPath       = "/v1.0/token?grant_type=1"
	realtimeMapPath = "/v1.0/users/sweepers/file/%s/realtime-map"
	signMethod      = "HMAC-SHA256"
)

// CloudClient obtains signed download URLs from the vendor cloud API. Every
// request carries an HMAC-SHA256 signature over the client id, access
// token, millisecond timestamp, request nonce and canonical request string.
type CloudClient struct {
	Server    string
	ClientID  string
	SecretKey string

	client *http.Client
	// now and nonce are swappable for deterministic signing tests.
	now   func() time.Time
	nonce func() string
}

// NewCloudClient creates a cloud API client for the given data-center
// endpoint, e.g. "https://openapi.tuyaeu.com".
func NewCloudClient(server, clientID, secretKey string) *CloudClient {
	return &CloudClient{
		Server:    strings.TrimRight(server, "/"),
		ClientID:  clientID,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: DefaultFetchTimeout},
		now:       time.Now,
		nonce:     uuid.NewString,
	}
}

// WithClient overrides the HTTP client (useful for testing).
func (c *CloudClient) WithClient(client *http.Client) *CloudClient {
	c.client = client
	return c
}

// MapLinks fetches the ordered download-link list for a device.
func (c *CloudClient) MapLinks(ctx context.Context, deviceID string) ([]DownloadLink, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf(realtimeMapPath, deviceID)
	body, err := c.request(ctx, path, token)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Success bool           `json:"success"`
		Msg     string         `json:"msg"`
		Result  []DownloadLink `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing link response: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("link request rejected: %s", resp.Msg)
	}
	if len(resp.Result) == 0 {
		return nil, fmt.Errorf("link response carries no entries")
	}
	return resp.Result, nil
}

// token obtains an access token via the token grant endpoint.
func (c *CloudClient) token(ctx context.Context) (string, error) {
	body, err := c.request(ctx, tokenPath, "")
	if err != nil {
		return "", err
	}

	var resp struct {
		Success bool   `json:"success"`
		Msg     string `json:"msg"`
		Result  struct {
			AccessToken string `json:"access_token"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if !resp.Success || resp.Result.AccessToken == "" {
		return "", fmt.Errorf("token request rejected: %s", resp.Msg)
	}
	return resp.Result.AccessToken, nil
}

// request performs a signed GET against the cloud API.
func (c *CloudClient) request(ctx context.Context, path, accessToken string) ([]byte, error) {
	url := c.Server + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	t := strconv.FormatInt(c.now().UnixMilli(), 10)
	nonce := c.nonce()
	sts := stringToSign(http.MethodGet, nil, path)

	req.Header.Set("client_id", c.ClientID)
	req.Header.Set("sign", sign(c.SecretKey, c.ClientID, accessToken, t, nonce, sts))
	req.Header.Set("t", t)
	req.Header.Set("sign_method", signMethod)
	req.Header.Set("nonce", nonce)
	if accessToken != "" {
		req.Header.Set("access_token", accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return body, nil
}

// stringToSign builds the canonical request string:
// method, SHA256 of the body, an empty headers block, and the request path.
func stringToSign(method string, body []byte, path string) string {
	sum := sha256.Sum256(body)
	return method + "\n" + hex.EncodeToString(sum[:]) + "\n" + "\n" + path
}

// sign computes the uppercase hex HMAC-SHA256 signature over
// clientID + accessToken + t + nonce + stringToSign.
func sign(secret, clientID, accessToken, t, nonce, sts string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(clientID + accessToken + t + nonce + sts))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}
