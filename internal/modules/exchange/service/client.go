package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"

	"pairs_engine/internal/models"
)

// Client talks to the Binance USD-M futures REST API.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	apiSecret string
}

func New(baseURL, apiKey, apiSecret string) *Client {
	if baseURL == "" {
		baseURL = "https://fapi.binance.com"
	}
	return &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		baseURL:   baseURL,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}
}

func (c *Client) sign(query string) string {
	h := hmac.New(sha256.New, []byte(c.apiSecret))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

// do performs one request and decodes the body into out. Signed requests get
// timestamp + signature appended to the query string and the API key header.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, signed bool, out any) error {
	if params == nil {
		params = url.Values{}
	}
	query := params.Encode()
	if signed {
		if c.apiKey == "" || c.apiSecret == "" {
			return models.Executionf("api creds empty")
		}
		params.Set("timestamp", strconv.FormatInt(time.Now().UTC().UnixMilli(), 10))
		query = params.Encode()
		query += "&signature=" + c.sign(query)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+query, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if signed {
		req.Header.Set("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		var apiErr struct {
			Code int    `json:"code"`
			Msg  string `json:"msg"`
		}
		if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Msg != "" {
			return models.Executionf("binance %d (%d): %s", resp.StatusCode, apiErr.Code, apiErr.Msg)
		}
		return models.Executionf("binance http %d: %s", resp.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
