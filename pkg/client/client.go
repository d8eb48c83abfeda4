// Package client is a small API client for an abapscan remediation server.
// It mirrors the wire contract with local types, so importing it does not
// pull in any server internals.
package client

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/abapscan/abapscan/pkg/shared/config"
	"github.com/abapscan/abapscan/pkg/shared/httpclient"
)

// Unit is one ABAP development object submitted for remediation.
type Unit struct {
	PgmName             string  `json:"pgm_name"`
	IncName             string  `json:"inc_name"`
	Type                string  `json:"type"`
	Name                *string `json:"name"`
	ClassImplementation *string `json:"class_implementation"`
	StartLine           *int    `json:"start_line"`
	EndLine             *int    `json:"end_line"`
	Code                *string `json:"code"`
}

// Finding is one deprecated table reference reported by the server.
type Finding struct {
	Table              string   `json:"table"`
	TargetType         string   `json:"target_type"`
	TargetName         string   `json:"target_name"`
	StartCharInUnit    int      `json:"start_char_in_unit"`
	EndCharInUnit      int      `json:"end_char_in_unit"`
	UsedFields         []string `json:"used_fields"`
	Ambiguous          bool     `json:"ambiguous"`
	SuggestedStatement string   `json:"suggested_statement"`
	SuggestedFields    []string `json:"suggested_fields"`
	Note               string   `json:"note,omitempty"`
}

// UnitResult is a unit echoed back with its findings attached.
type UnitResult struct {
	Unit
	MBTxnUsage []Finding `json:"mb_txn_usage"`
}

// Health is the payload of the liveness endpoint.
type Health struct {
	Status string `json:"status"`
}

// Client calls the remediation API.
type Client struct {
	httpc *resty.Client
	url   string
}

// New creates a client for the given server URL. Retry, timeout, TLS, and
// proxy behavior come from the http_client section of the configuration.
// An empty token disables the Authorization header.
func New(cfg *config.Config, logger hclog.Logger, serverURL, token string) *Client {
	httpc := httpclient.InitializeRestyClient(logger, cfg)
	httpc.SetBaseURL(serverURL)
	httpc.SetHeader("Content-Type", "application/json")
	if token != "" {
		httpc.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	return &Client{
		httpc: httpc,
		url:   serverURL,
	}
}

// Health checks the liveness endpoint.
func (c *Client) Health() (*Health, error) {
	var h Health
	resp, err := c.httpc.R().
		SetResult(&h).
		Get("/healthz")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on getting healthz", resp.StatusCode())
	}
	return &h, nil
}

// Remediate submits a batch of units and returns one result per unit in the
// original order.
func (c *Client) Remediate(units []Unit) ([]UnitResult, error) {
	var results []UnitResult
	resp, err := c.httpc.R().
		SetBody(units).
		SetResult(&results).
		Post("/remediate-mm-im")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on remediating units: %s", resp.StatusCode(), resp.String())
	}
	return results, nil
}

// RemediateRaw submits an already serialized units array, as produced by the
// analyse command's units export. The body is forwarded untouched.
func (c *Client) RemediateRaw(body []byte) ([]UnitResult, error) {
	var results []UnitResult
	resp, err := c.httpc.R().
		SetBody(body).
		SetResult(&results).
		Post("/remediate-mm-im")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%d on remediating units: %s", resp.StatusCode(), resp.String())
	}
	return results, nil
}
