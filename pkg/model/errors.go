package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrValidation indicates a required field is missing or malformed
	ErrValidation = goerr.New("validation failed")

	// ErrNoLabData indicates no lab data could be resolved from the payload
	ErrNoLabData = goerr.New("no lab data found in event")

	// ErrUpstreamUnavailable indicates a store, bus or object fetch failure
	ErrUpstreamUnavailable = goerr.New("upstream unavailable")

	// ErrDelegateFailure indicates the external reasoner failed
	ErrDelegateFailure = goerr.New("reasoner delegation failed")
)
