package rte

import "sync/atomic"

// Handle is the indirection a host page keeps to the active API so the
// instance can be replaced without copying state field by field.
type Handle struct {
	current atomic.Pointer[API]
}

// NewHandle returns a handle pointing at api.
func NewHandle(api *API) *Handle {
	h := &Handle{}
	h.current.Store(api)
	return h
}

// API returns the active instance.
func (h *Handle) API() *API {
	return h.current.Load()
}

// Swap installs next and returns the previous instance.
func (h *Handle) Swap(next *API) *API {
	return h.current.Swap(next)
}
