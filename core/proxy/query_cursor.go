package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/trufnetwork/abiproxy-go/core/types"
	"go.uber.org/zap"
)

var validate = validator.New()

// queryCursor serves one (table, index) function. It merges the call's options, runs the
// query and keeps requesting pages, advancing the bound to the returned cursor token,
// until the server reports no more rows, the caller's page cap is reached or the
// proxy's page ceiling is hit.
type queryCursor struct {
	target    string
	table     string
	index     int
	transport types.Transport
	maxPages  int
	logger    *zap.Logger
}

func (c *queryCursor) name() string {
	return TableFunctionName(c.table, c.index)
}

// Options merges defaults, positional arguments and option objects, in that order.
func (c *queryCursor) Options(params []any) (types.QueryOptions, error) {
	var (
		positional []any
		objects    []types.QueryOptions
	)
	for _, p := range params {
		switch v := p.(type) {
		case types.QueryOptions:
			objects = append(objects, v)
		case *types.QueryOptions:
			if v != nil {
				objects = append(objects, *v)
			}
		case types.Named:
			opts, err := types.ParseQueryOptions(v)
			if err != nil {
				return types.QueryOptions{}, err
			}
			objects = append(objects, opts)
		case map[string]any:
			opts, err := types.ParseQueryOptions(v)
			if err != nil {
				return types.QueryOptions{}, err
			}
			objects = append(objects, opts)
		default:
			positional = append(positional, p)
		}
	}

	merged, err := types.PositionalQueryOptions(positional)
	if err != nil {
		return types.QueryOptions{}, err
	}
	for _, o := range objects {
		merged.Merge(o)
	}
	return merged, nil
}

// Query runs the table function. A call that only carries key configuration and no
// bound stores the configuration and returns a nil result without querying.
func (c *queryCursor) Query(ctx context.Context, state *State, params []any) (*types.QueryResult, error) {
	opts, err := c.Options(params)
	if err != nil {
		return nil, &types.CallError{Target: c.target, Function: c.name(), Err: errors.Cause(err), Detail: err.Error()}
	}

	if opts.Scope != nil {
		state.SetScope(c.table, *opts.Scope)
	}
	if opts.KeyType != nil {
		state.setKeyType(c.table, c.index, *opts.KeyType)
	}
	if opts.EncodeType != nil {
		state.setEncodeType(c.table, c.index, *opts.EncodeType)
	}
	if opts.HasIndexConfig() && !opts.HasBound() {
		c.logger.Debug("table index configured",
			zap.String("target", c.target),
			zap.String("function", c.name()),
			zap.Any("config", state.IndexConfig(c.table, c.index)),
		)
		return nil, nil
	}

	req := c.request(state, opts)
	if c.index > 1 && req.KeyType == "" {
		c.logger.Debug("secondary index queried with the client's default key type",
			zap.String("function", c.name()))
	}

	pageCap := 0
	if opts.PageLimit != nil && *opts.PageLimit > 0 {
		pageCap = *opts.PageLimit
	}

	result := &types.QueryResult{
		Rows:    []json.RawMessage{},
		Options: opts,
	}
	for {
		req.ID = uuid.NewString()
		c.logger.Debug("get table page",
			zap.String("target", c.target),
			zap.String("function", c.name()),
			zap.String("request_id", req.ID),
			zap.String("scope", req.Scope),
			zap.String("lower", req.Lower),
			zap.String("upper", req.Upper),
		)

		raw, err := c.transport.QueryTable(ctx, c.target, req)
		if err != nil {
			return nil, err
		}
		page, err := parsePage(raw)
		if err != nil {
			return nil, &types.CallError{
				Target:   c.target,
				Function: c.name(),
				Err:      types.ErrMalformedPageResponse,
				Detail:   fmt.Sprintf("page %d: %v", len(result.Requests)+1, err),
			}
		}

		result.Rows = append(result.Rows, page.Rows...)
		result.Requests = append(result.Requests, req)

		if !*page.More {
			return result, nil
		}
		if pageCap > 0 && len(result.Requests) >= pageCap {
			return result, nil
		}
		if len(result.Requests) >= c.maxPages {
			c.logger.Warn("page ceiling reached, returning an incomplete result",
				zap.String("target", c.target),
				zap.String("function", c.name()),
				zap.Int("pages", len(result.Requests)),
				zap.Int("rows", len(result.Rows)),
				zap.String("next_key", *page.NextKey),
			)
			result.Truncated = true
			return result, nil
		}

		if req.Reverse {
			req.Upper = *page.NextKey
		} else {
			req.Lower = *page.NextKey
		}
	}
}

func (c *queryCursor) request(state *State, opts types.QueryOptions) types.QueryRequest {
	cfg := state.IndexConfig(c.table, c.index)
	req := types.QueryRequest{
		Table:      c.table,
		Index:      c.index,
		Scope:      state.Scope(c.table),
		KeyType:    cfg.KeyType,
		EncodeType: cfg.EncodeType,
	}
	if opts.Lower != nil {
		req.Lower = *opts.Lower
	}
	if opts.Upper != nil {
		req.Upper = *opts.Upper
	}
	if opts.Limit != nil {
		req.Limit = *opts.Limit
	}
	if opts.Binary != nil {
		req.Binary = *opts.Binary
	}
	if opts.Reverse != nil {
		req.Reverse = *opts.Reverse
	}
	if opts.ShowPayer != nil {
		req.ShowPayer = *opts.ShowPayer
	}
	if opts.TimeLimit != nil {
		req.TimeLimit = *opts.TimeLimit
	}
	return req
}

func parsePage(raw json.RawMessage) (*types.PageResponse, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("response is not a JSON object")
	}
	var page types.PageResponse
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.Struct(&page); err != nil {
		return nil, errors.WithStack(err)
	}
	if *page.More && *page.NextKey == "" {
		return nil, errors.New("more rows reported without a next_key")
	}
	return &page, nil
}
