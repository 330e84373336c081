package handler

import (
	"unicrew/backend/internal/chathub"
	"unicrew/backend/internal/storage"
)

// Handler carries the dependencies shared by all HTTP endpoints.
type Handler struct {
	Hub       *chathub.Manager
	Storage   storage.Storage
	JWTSecret []byte
}

func NewHandler(hub *chathub.Manager, s storage.Storage, jwtSecret []byte) *Handler {
	return &Handler{Hub: hub, Storage: s, JWTSecret: jwtSecret}
}
