// Package deid proxies text to an external de-identification API. The
// service is a black box here: text in, redacted text out.
package deid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultInfoTypes is the fixed list of information categories the redaction
// service is asked to remove: person names, dates, contact information,
// identifiers, financial data, and network addresses.
var DefaultInfoTypes = []string{
	"PERSON_NAME",
	"DATE",
	"DATE_OF_BIRTH",
	"PHONE_NUMBER",
	"EMAIL_ADDRESS",
	"STREET_ADDRESS",
	"MEDICAL_RECORD_NUMBER",
	"US_SOCIAL_SECURITY_NUMBER",
	"CREDIT_CARD_NUMBER",
	"IP_ADDRESS",
	"URL",
}

// ErrNotConfigured means no redaction endpoint is set; the endpoint responds
// with a client error rather than failing at startup.
var ErrNotConfigured = errors.New("de-identification service not configured")

const (
	requestTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client calls the external de-identification REST API.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client with a transport tuned for outbound
// service-to-service calls.
func NewClient(endpoint, apiKey string) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: transport,
		},
	}
}

type deidentifyRequest struct {
	Item             contentItem   `json:"item"`
	InspectConfig    inspectConfig `json:"inspectConfig"`
	DeidentifyConfig struct {
		InfoTypeTransformations infoTypeTransformations `json:"infoTypeTransformations"`
	} `json:"deidentifyConfig"`
}

type contentItem struct {
	Value string `json:"value"`
}

type inspectConfig struct {
	InfoTypes []infoType `json:"infoTypes"`
}

type infoType struct {
	Name string `json:"name"`
}

type infoTypeTransformations struct {
	Transformations []transformation `json:"transformations"`
}

type transformation struct {
	PrimitiveTransformation primitiveTransformation `json:"primitiveTransformation"`
}

type primitiveTransformation struct {
	ReplaceWithInfoTypeConfig struct{} `json:"replaceWithInfoTypeConfig"`
}

type deidentifyResponse struct {
	Item contentItem `json:"item"`
}

// Deidentify sends text to the redaction service with the fixed info-type
// list and returns the redacted text.
func (c *Client) Deidentify(ctx context.Context, text string) (string, error) {
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}

	reqBody := deidentifyRequest{
		Item: contentItem{Value: text},
	}
	for _, name := range DefaultInfoTypes {
		reqBody.InspectConfig.InfoTypes = append(reqBody.InspectConfig.InfoTypes, infoType{Name: name})
	}
	reqBody.DeidentifyConfig.InfoTypeTransformations.Transformations = []transformation{{}}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode de-identification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build de-identification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("de-identification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("de-identification service returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed deidentifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode de-identification response: %w", err)
	}
	return parsed.Item.Value, nil
}
