// Package bus carries the failure taxonomy across request-reply services.
//
// Service handlers return domain failures inside the response body so the
// caller can tell a NotFound from a transport error; everything else is
// returned as a handler error and stays opaque.
package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/task-tracker/domain/failure"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Outcome is embedded in every service response.
type Outcome struct {
	Failure *failure.Info `json:"failure,omitempty"`
}

// Failed returns the carried failure, if any.
func (o Outcome) Failed() *failure.Info {
	return o.Failure
}

type failable interface {
	Failed() *failure.Info
}

// Reply splits a service error into the part sent back in the response and
// the part returned to the framework.
func Reply(err error) (Outcome, error) {
	if info := failure.FromError(err); info != nil {
		return Outcome{Failure: info}, nil
	}
	return Outcome{}, err
}

// Call invokes a request-reply service and turns a carried failure back into
// an error matching its sentinel.
func Call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("%s service call failed: %w", service, err)
	}
	if f, ok := any(resp).(failable); ok {
		if info := f.Failed(); info != nil {
			return info.Err()
		}
	}
	return nil
}
