package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient(t *testing.T) {
	start := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	mux := http.NewServeMux()
	mux.HandleFunc("/slots", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "IPTU", r.URL.Query().Get("service"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"slots": []Slot{{ID: "s1", Service: "IPTU", Start: start}}})
	})
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		var req bookingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.SlotID == "taken" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		_ = json.NewEncoder(w).Encode(Booking{ID: "b1", Protocol: "AG-1", Slot: Slot{ID: req.SlotID, Start: start}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "", time.Second)
	ctx := context.Background()

	slots, err := c.AvailableSlots(ctx, "IPTU", start, 3)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, start.Equal(slots[0].Start))

	b, err := c.Book(ctx, "s1", "5511999990000", "IPTU")
	require.NoError(t, err)
	assert.Equal(t, "AG-1", b.Protocol)

	_, err = c.Book(ctx, "taken", "5511999990000", "IPTU")
	assert.ErrorIs(t, err, ErrSlotTaken)
}
