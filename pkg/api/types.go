// Package api holds the HTTP models and routing for the ledger API.
package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for CreateRunParamsFormat.
const (
	Csv  CreateRunParamsFormat = "csv"
	Json CreateRunParamsFormat = "json"
)

// Account defines model for Account.
type Account struct {
	Available string `json:"available"`
	Client    int    `json:"client"`
	Held      string `json:"held"`
	Locked    bool   `json:"locked"`
	Total     string `json:"total"`
}

// Rejection defines model for Rejection.
type Rejection struct {
	Client int    `json:"client"`
	Line   int    `json:"line"`
	Reason string `json:"reason"`
	Tx     int64  `json:"tx"`
	Type   string `json:"type,omitempty"`
}

// RunResponse defines model for RunResponse.
type RunResponse struct {
	Accounts   []Account          `json:"accounts"`
	Applied    int                `json:"applied"`
	Processed  int                `json:"processed"`
	Rejected   int                `json:"rejected"`
	Rejections []Rejection        `json:"rejections"`
	RunId      openapi_types.UUID `json:"run_id"`
}

// CreateRunParams defines parameters for CreateRun.
type CreateRunParams struct {
	// Format of the account table in the response. Defaults to csv.
	Format *CreateRunParamsFormat `form:"format,omitempty" json:"format,omitempty"`

	// Client restricts the account table to a single client.
	Client *int `form:"client,omitempty" json:"client,omitempty"`
}

// CreateRunParamsFormat defines parameters for CreateRun.
type CreateRunParamsFormat string
