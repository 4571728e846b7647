package handler

import "net/http"

// SSEHandler writes a sequence of Datastar events through the StreamContext.
type SSEHandler func(stream StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return NewHTTPError(http.StatusBadRequest, "datastar_required")
	}

	base := NewContext(w, r)
	sse := base.SSE()
	if sse == nil {
		return ErrSSENotInitialized
	}
	return s.handler(&streamContext{Context: base, sse: sse})
}

// SSE creates a response that runs fn against an open Datastar stream.
// Regular requests are rejected with 400.
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		if err := stream.SendComponent(views.FieldError(f, msg)); err != nil {
//			return err
//		}
//		return stream.SendSignals(map[string]any{"submittable": ok})
//	})
func SSE(fn SSEHandler) Response {
	return sseResponse{handler: fn}
}
