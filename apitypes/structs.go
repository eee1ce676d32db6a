// Package apitypes holds the JSON shapes exchanged with a VIIPER API server.
package apitypes

import (
	"errors"
	"fmt"
)

// MouseDeviceType is the device type name of the VIIPER HID mouse.
const MouseDeviceType = "mouse"

// ApiError is a problem+json style error returned by the server.
type ApiError struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	switch {
	case e.Status == 0 && e.Title == "":
		return "unknown error"
	case e.Status == 0:
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	default:
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
	}
}

// HasStatus reports whether err is an ApiError carrying status.
func HasStatus(err error, status int) bool {
	var p *ApiError
	if errors.As(err, &p) {
		return p.Status == status
	}
	var v ApiError
	if errors.As(err, &v) {
		return v.Status == status
	}
	return false
}

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type BusListResponse struct {
	Buses []uint32 `json:"buses"`
}

// BusResponse answers bus/create and bus/remove.
type BusResponse struct {
	BusID uint32 `json:"busId"`
}

// Device describes a device attached to a bus.
type Device struct {
	BusID uint32 `json:"busId"`
	DevID string `json:"devId"`
	Vid   string `json:"vid"`
	Pid   string `json:"pid"`
	Type  string `json:"type"`
}

type DeviceRemoveResponse struct {
	BusID uint32 `json:"busId"`
	DevID string `json:"devId"`
}

type DeviceCreateRequest struct {
	Type      string  `json:"type"`
	IdVendor  *uint16 `json:"idVendor,omitempty"`
	IdProduct *uint16 `json:"idProduct,omitempty"`
}
