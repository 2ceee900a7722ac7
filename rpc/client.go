package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	rpctypes "github.com/okvee/rpctoast/rpc/types"
)

// Gateway issues one asynchronous remote call. It either resolves with the
// raw result value or fails with an error; it has no side effects beyond
// the remote operation itself.
type Gateway interface {
	Invoke(ctx context.Context, name string, args map[string]any) (json.RawMessage, error)
}

type Client struct {
	http *http.Client
}

var _ Gateway = (*Client)(nil)

func NewClient(path string) (*Client, error) {
	httpClient := &http.Client{
		Transport: &http.Transport{
			// TODO adapt for any kind of sockets
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", path)
			},
		},
	}
	return &Client{
		http: httpClient,
	}, nil
}

func (cl *Client) Invoke(ctx context.Context, name string, args map[string]any) (json.RawMessage, error) {
	res, err := callHTTP[rpctypes.InvokeRequest, rpctypes.InvokeResponse](
		ctx,
		cl,
		&rpctypes.InvokeRequest{
			Name: name,
			Args: args,
		},
		requestContext{
			method: http.MethodPost,
			path:   "invoke",
		},
	)
	if err != nil {
		return nil, err
	}
	return res.Result, nil
}

type requestContext struct {
	method string
	path   string
}

func callHTTP[Req, Res any](ctx context.Context, cl *Client, req *Req, reqCtx requestContext) (*Res, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var remoteURL url.URL
	remoteURL.Host = "localhost"
	remoteURL.Path = reqCtx.path
	remoteURL.Scheme = "http"

	httpReq, err := http.NewRequestWithContext(ctx, reqCtx.method, remoteURL.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	httpRes, err := cl.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = httpRes.Body.Close()
	}()

	if httpRes.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected RPC response: %v", httpRes.Status)
	}

	var rpcResponse rpctypes.Response[Res]
	if err := json.NewDecoder(httpRes.Body).Decode(&rpcResponse); err != nil {
		return nil, err
	}

	return rpcResponse.Unwrap()
}
