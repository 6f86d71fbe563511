package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves daemon runtime status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Hawker.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Offerings lists the served catalog.
func (c *Client) Offerings() (*OfferingsResponse, error) {
	var resp OfferingsResponse
	if err := c.client.Call("Hawker.Offerings", OfferingsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Quote prices a job request without executing it.
func (c *Client) Quote(req QuoteRequest) (*QuoteResponse, error) {
	var resp QuoteResponse
	if err := c.client.Call("Hawker.Quote", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Invoke dispatches a job request and returns its terminal outcome.
func (c *Client) Invoke(req InvokeRequest) (*InvokeResponse, error) {
	var resp InvokeResponse
	if err := c.client.Call("Hawker.Invoke", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
