package dto

import (
	"virtual-attendant-be/pkg/reply"
	"virtual-attendant-be/pkg/store"
)

type MessageRequest struct {
	CallerId string `json:"caller_id" validate:"required,max=64"`
	Text     string `json:"text" validate:"required,max=2000"`
}

type MessageResponse struct {
	CallerId string      `json:"caller_id"`
	Reply    reply.Reply `json:"reply"`
	State    store.State `json:"state"`
}
