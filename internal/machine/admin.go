package machine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/vendstack/kiosk-backend/pkg/errors"
	"github.com/vendstack/kiosk-backend/pkg/pagination"
)

// ListProducts lists the admin product table with page/limit pagination.
func (c *Client) ListProducts(ctx context.Context, params pagination.Params) (*ProductList, error) {
	body, err := c.do(ctx, http.MethodGet, "/products?"+pageQuery(params), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	list, err := decodeProductList(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product list")
	}
	return list, nil
}

// GetProduct fetches one product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode product")
	}
	return &product, nil
}

// CreateProduct creates a product from its writable fields.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	body, err := c.do(ctx, http.MethodPost, "/products", input, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode created product")
	}
	return &product, nil
}

// UpdateProduct replaces a product's writable fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) (*Product, error) {
	body, err := c.do(ctx, http.MethodPut, "/products/"+url.PathEscape(id), input, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode updated product")
	}
	return &product, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), nil, http.StatusOK)
	return err
}

// ListInventory lists the denomination stock table.
func (c *Client) ListInventory(ctx context.Context, params pagination.Params) ([]InventoryItem, error) {
	body, err := c.do(ctx, http.MethodGet, "/inventory?"+pageQuery(params), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []InventoryItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode inventory list")
		}
		return items, nil
	}

	var list struct {
		Items []InventoryItem `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode inventory list")
	}
	return list.Items, nil
}

// GetInventory fetches one inventory entry by id.
func (c *Client) GetInventory(ctx context.Context, id string) (*InventoryItem, error) {
	body, err := c.do(ctx, http.MethodGet, "/inventory/"+url.PathEscape(id), nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var item InventoryItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode inventory item")
	}
	return &item, nil
}

// CreateInventory creates an inventory entry from its writable fields.
func (c *Client) CreateInventory(ctx context.Context, input InventoryInput) (*InventoryItem, error) {
	body, err := c.do(ctx, http.MethodPost, "/inventory", input, http.StatusCreated, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var item InventoryItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode created inventory item")
	}
	return &item, nil
}

// UpdateInventory replaces an inventory entry's writable fields.
func (c *Client) UpdateInventory(ctx context.Context, id string, input InventoryInput) (*InventoryItem, error) {
	body, err := c.do(ctx, http.MethodPut, "/inventory/"+url.PathEscape(id), input, http.StatusOK)
	if err != nil {
		return nil, err
	}
	var item InventoryItem
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode updated inventory item")
	}
	return &item, nil
}

// DeleteInventory removes an inventory entry.
func (c *Client) DeleteInventory(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/inventory/"+url.PathEscape(id), nil, http.StatusOK)
	return err
}

// UploadImage streams a product image to the backend as multipart form data
// under the field name the backend expects.
func (c *Client) UploadImage(ctx context.Context, filename string, file io.Reader) (*ImageUploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build multipart form")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "copy image payload")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalize multipart form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/images/upload"), &buf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute upload request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))),
			"image upload failed",
		)
	}

	var result ImageUploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode upload response")
	}
	return &result, nil
}
