package comerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRawClassification(t *testing.T) {
	tests := []struct {
		name string
		raw  *RawError
		want Kind
	}{
		{
			name: "rpc server unavailable",
			raw:  &RawError{HResult: 0x800706BA, Message: "The RPC server is unavailable."},
			want: KindConnectionLost,
		},
		{
			name: "object disconnected",
			raw:  &RawError{HResult: 0x80010108, Message: "The object invoked has disconnected from its clients."},
			want: KindConnectionLost,
		},
		{
			name: "get active object miss",
			raw:  &RawError{HResult: 0x800401E3, Message: "Operation unavailable"},
			want: KindConnectionLost,
		},
		{
			name: "invalid arg hresult",
			raw:  &RawError{HResult: 0x80070057, Message: "The parameter is incorrect."},
			want: KindInvalidArgument,
		},
		{
			name: "type mismatch",
			raw:  &RawError{HResult: 0x80020005, Message: "Type mismatch."},
			want: KindInvalidArgument,
		},
		{
			name: "disp exception with precondition description",
			raw: &RawError{
				HResult:     0x80020009,
				Source:      "Microsoft PowerPoint",
				Description: "Application.ActivePresentation : Invalid request.  No presentation is open.",
			},
			want: KindPreconditionFailed,
		},
		{
			name: "disp exception with out of range description",
			raw: &RawError{
				HResult:     0x80020009,
				Source:      "Microsoft PowerPoint",
				Description: "Slides.Item : The specified value is out of range.",
			},
			want: KindInvalidArgument,
		},
		{
			name: "disp exception unrecognized",
			raw: &RawError{
				HResult:     0x80020009,
				Description: "Shape.Fill : something nobody has ever seen",
			},
			want: KindUnknown,
		},
		{
			name: "unknown hresult no description",
			raw:  &RawError{HResult: 0x8004C00B},
			want: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.Equal(t, tt.raw.HResult, got.RawCode)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestNormalizePreservesRawPayload(t *testing.T) {
	raw := &RawError{
		HResult:     0x80020009,
		Message:     "Exception occurred.",
		Source:      "Microsoft PowerPoint",
		Description: "Presentations.Open : PowerPoint can't open this type of file.",
	}
	got := Normalize(raw)
	assert.Equal(t, KindUnknown, got.Kind)
	assert.Equal(t, "Microsoft PowerPoint", got.RawSource)
	assert.Equal(t, raw.Description, got.RawDescription)
	assert.Equal(t, uint32(0x80020009), got.RawCode)
}

func TestNormalizeHandlerErrors(t *testing.T) {
	pre := Preconditionf("no presentation is open; use ppt_create_presentation or ppt_open_presentation first")
	assert.Equal(t, KindPreconditionFailed, Normalize(pre).Kind)

	arg := Argumentf("window_state must be one of normal, minimized, maximized")
	assert.Equal(t, KindInvalidArgument, Normalize(arg).Kind)
}

func TestNormalizeWrappedAndPassthrough(t *testing.T) {
	raw := &RawError{HResult: 0x800706BE, Message: "The remote procedure call failed."}
	wrapped := fmt.Errorf("calling Presentations.Count: %w", raw)
	assert.Equal(t, KindConnectionLost, Normalize(wrapped).Kind)

	already := New(KindTimeout, "deadline exceeded after 50ms")
	assert.Same(t, already, Normalize(already))

	plain := errors.New("something else entirely")
	got := Normalize(plain)
	assert.Equal(t, KindUnknown, got.Kind)
	assert.Equal(t, plain.Error(), got.Message)
}

func TestNormalizeNeverNilForNonNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.NotNil(t, Normalize(errors.New("x")))
}

func TestIsConnectionLost(t *testing.T) {
	assert.True(t, IsConnectionLost(&RawError{HResult: 0x80010108}))
	assert.False(t, IsConnectionLost(Preconditionf("nothing open")))
	assert.False(t, IsConnectionLost(nil))
}

func TestErrorStringIncludesRetryOutcome(t *testing.T) {
	e := &Error{
		Kind:    KindConnectionLost,
		Message: "handle lost",
		Retry:   errors.New("attach failed after launch"),
	}
	assert.Contains(t, e.Error(), "retry after reconnect")
}
