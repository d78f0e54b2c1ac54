package shellerr

import (
	"encoding/json"
	"fmt"

	"github.com/josephlewis42/queenshell/core/span"
)

type jsonShellError struct {
	Kind   string      `json:"kind"`
	Span   *span.Span  `json:"span,omitempty"`
	Reason string      `json:"reason"`
	Cause  *ShellError `json:"cause,omitempty"`
}

// MarshalJSON implements a field-named encoding for fixtures and logs.
func (e *ShellError) MarshalJSON() ([]byte, error) {
	out := jsonShellError{
		Kind:   e.Proximate.Kind.String(),
		Reason: e.Proximate.Reason,
		Cause:  e.Cause,
	}
	if e.IsParse() {
		s := e.Proximate.Span
		out.Span = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ShellError) UnmarshalJSON(data []byte) error {
	var in jsonShellError
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Kind {
	case KindParse.String():
		e.Proximate = Proximate{Kind: KindParse, Reason: in.Reason}
		if in.Span != nil {
			e.Proximate.Span = *in.Span
		}
	case KindRuntime.String():
		e.Proximate = Proximate{Kind: KindRuntime, Reason: in.Reason}
	default:
		return fmt.Errorf("unknown error kind: %q", in.Kind)
	}
	e.Cause = in.Cause
	return nil
}
