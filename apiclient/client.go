package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	apitypes "github.com/joymouse/joymouse/apitypes"
)

// Client is the high-level VIIPER API client.
type Client struct{ transport *Transport }

// New constructs a client for the API server at addr (host:port).
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom timeouts and password.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client on top of t, mostly for tests.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// CreateOptions overrides the USB identity of a created device.
type CreateOptions struct {
	IdVendor  *uint16
	IdProduct *uint16
}

// PingCtx returns the identity and version of the server.
func (c *Client) PingCtx(ctx context.Context) (*apitypes.PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.PingResponse](raw)
}

// BusListCtx lists the active virtual bus numbers.
func (c *Client) BusListCtx(ctx context.Context) (*apitypes.BusListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusListResponse](raw)
}

// BusCreateCtx creates bus busID. It fails if the number is taken.
func (c *Client) BusCreateCtx(ctx context.Context, busID uint32) (*apitypes.BusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/create", strconv.FormatUint(uint64(busID), 10), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusResponse](raw)
}

// BusRemoveCtx removes a bus and every device on it.
func (c *Client) BusRemoveCtx(ctx context.Context, busID uint32) (*apitypes.BusResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/remove", strconv.FormatUint(uint64(busID), 10), nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.BusResponse](raw)
}

// DeviceAddCtx adds a device of devType (e.g. "mouse") to the bus.
func (c *Client) DeviceAddCtx(ctx context.Context, busID uint32, devType string, o *CreateOptions) (*apitypes.Device, error) {
	if o == nil {
		o = &CreateOptions{}
	}
	req := apitypes.DeviceCreateRequest{
		Type:      devType,
		IdVendor:  o.IdVendor,
		IdProduct: o.IdProduct,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal device create request: %w", err)
	}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/add", string(payload), busParams(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.Device](raw)
}

// DeviceRemoveCtx removes device devID from the bus and closes its connections.
func (c *Client) DeviceRemoveCtx(ctx context.Context, busID uint32, devID string) (*apitypes.DeviceRemoveResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/remove", devID, busParams(busID))
	if err != nil {
		return nil, err
	}
	return parse[apitypes.DeviceRemoveResponse](raw)
}

func busParams(busID uint32) map[string]string {
	return map[string]string{"id": strconv.FormatUint(uint64(busID), 10)}
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
