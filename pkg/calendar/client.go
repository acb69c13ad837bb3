// Package calendar books desk appointments in the municipal scheduling system.
package calendar

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"virtual-attendant-be/pkg/upstream"
)

var ErrSlotTaken = errors.New("slot is no longer available")

type Slot struct {
	ID      string    `json:"id"`
	Service string    `json:"service"`
	Start   time.Time `json:"start"`
	Desk    string    `json:"desk"`
}

type Booking struct {
	ID       string `json:"id"`
	Protocol string `json:"protocol"`
	Slot     Slot   `json:"slot"`
}

type Client interface {
	AvailableSlots(ctx context.Context, service string, from time.Time, limit int) ([]Slot, error)
	Book(ctx context.Context, slotID, callerID, service string) (*Booking, error)
}

type HTTPClient struct {
	api *upstream.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{api: upstream.New("calendar", baseURL, token, timeout)}
}

func (c *HTTPClient) AvailableSlots(ctx context.Context, service string, from time.Time, limit int) ([]Slot, error) {
	q := url.Values{}
	q.Set("service", service)
	q.Set("from", from.Format(time.RFC3339))
	q.Set("limit", strconv.Itoa(limit))

	var out struct {
		Slots []Slot `json:"slots"`
	}
	if err := c.api.Do(ctx, http.MethodGet, "/slots", q, nil, &out); err != nil {
		return nil, err
	}
	return out.Slots, nil
}

type bookingRequest struct {
	SlotID   string `json:"slot_id"`
	CallerID string `json:"caller_id"`
	Service  string `json:"service"`
}

func (c *HTTPClient) Book(ctx context.Context, slotID, callerID, service string) (*Booking, error) {
	var out Booking
	err := c.api.Do(ctx, http.MethodPost, "/bookings", nil, bookingRequest{SlotID: slotID, CallerID: callerID, Service: service}, &out)
	if err != nil {
		var se *upstream.StatusError
		if errors.As(err, &se) && se.Code == http.StatusConflict {
			return nil, ErrSlotTaken
		}
		return nil, err
	}
	return &out, nil
}
