package types

import (
	"context"
	"encoding/json"
)

// Transport abstracts the communication with the node that hosts the target contracts.
// This interface allows driving a proxy through different clients without changing proxy code.
//
// The default implementation (cleosclient.CLITransport) runs the command line client binary.
// Custom implementations can use:
//   - an HTTP client talking to the chain API directly
//   - mock implementations for testing
//
// Every method blocks until the remote call completes. Failures are returned as errors
// and are propagated to proxy callers unchanged.
type Transport interface {
	// FetchSchema returns the raw interface schema (ABI) published by target.
	FetchSchema(ctx context.Context, target string) (json.RawMessage, error)

	// InvokeAction pushes one action to target, attributed to signer.
	//
	// Parameters:
	//   - target: the contract account
	//   - action: the action name
	//   - params: the named parameter object, in schema field order
	//   - signer: the identity the action is authorized by (account or account@permission)
	//
	// Returns the transport's JSON result for the pushed action.
	InvokeAction(ctx context.Context, target string, action string, params ActionParams, signer string) (json.RawMessage, error)

	// QueryTable reads one page of a table of target. The result must have the
	// shape {"rows": [...], "more": bool, "next_key": string}.
	QueryTable(ctx context.Context, target string, req QueryRequest) (json.RawMessage, error)
}
