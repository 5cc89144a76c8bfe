package machine

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vendstack/kiosk-backend/pkg/config"
	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/pagination"
)

const errorBodyReadLimit int64 = 4096

var errBaseURLRequired = errors.New("machine base url is required")

// Client wraps the vending backend that owns products, denomination inventory
// and the purchase/change-making logic.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the vending backend client from configuration.
func NewClient(cfg config.MachineConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}
	if cfg.InsecureTLS {
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// CatalogProducts lists the storefront catalog. The backend answers with
// either a bare array or an items/totalItems envelope; both are accepted.
func (c *Client) CatalogProducts(ctx context.Context) ([]Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/vending-machine/products", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	list, err := decodeProductList(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}
	return list.Items, nil
}

// Purchase submits one purchase attempt. The backend is the authority on
// stock and payment sufficiency; a rejection carries its message verbatim.
func (c *Client) Purchase(ctx context.Context, req PurchaseRequest) (*Transaction, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal purchase request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/vending-machine/purchase"), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build purchase request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute purchase request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return nil, purchaseError(resp)
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode purchase response")
	}
	return &tx, nil
}

// purchaseError maps a non-201 purchase response. Client-side statuses are
// business rejections (insufficient payment, out of stock) whose message is
// shown to the user; everything else is a dependency fault.
func purchaseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		message := strings.TrimSpace(body.Message)
		if message == "" {
			message = "payment rejected"
		}
		return pkgerrors.New(pkgerrors.CodePaymentRejected, message)
	}

	return pkgerrors.Wrap(
		pkgerrors.CodeDependency,
		fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
		"purchase request failed",
	)
}

// Ping probes the backend with a catalog request so readiness checks can see
// whether the machine is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.CatalogProducts(ctx)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus ...int) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build backend request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute backend request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found on vending backend")
	}
	if !statusAccepted(resp.StatusCode, wantStatus) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
			fmt.Sprintf("%s %s failed", method, path),
		)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read backend response")
	}
	return raw, nil
}

func statusAccepted(status int, accepted []int) bool {
	for _, want := range accepted {
		if status == want {
			return true
		}
	}
	return false
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func pageQuery(params pagination.Params) string {
	params = pagination.Normalize(params)
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("limit", strconv.Itoa(params.Limit))
	return q.Encode()
}

// decodeProductList accepts both of the backend's list shapes.
func decodeProductList(raw []byte) (*ProductList, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Product
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, err
		}
		return &ProductList{Items: items, TotalItems: len(items)}, nil
	}
	var list ProductList
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
