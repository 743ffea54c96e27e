// Package narrative is the client side of the external text-completion
// collaborator: one blocking request per call, free text back.
//
// The service may hand back the generated text directly or wrapped in an
// object carrying a content field; Response models the two variants
// explicitly and Text is the single unwrap point.
package narrative

import (
	"context"
	"fmt"
)

type responseKind int

const (
	plainText responseKind = iota
	objectContent
)

// Response is the result of one completion call.
type Response struct {
	kind responseKind
	text string
}

// Plain wraps text returned directly as a string.
func Plain(text string) Response { return Response{kind: plainText, text: text} }

// Content wraps text returned inside an object's content field.
func Content(text string) Response { return Response{kind: objectContent, text: text} }

// Text unwraps the generated text regardless of variant.
func (r Response) Text() string { return r.text }

// Completer issues one narrative-generation call. Implementations block
// until the service responds; there is no retry at this layer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Response, error)
}

// ServiceError reports a failed completion call. It is not recovered
// locally: the pipeline propagates it and aborts the run.
type ServiceError struct {
	Status  int    // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("narrative service: %v", e.Err)
	}
	return fmt.Sprintf("narrative service: status %d: %s", e.Status, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }
