// Package dispatch turns inbound alert messages into delivered
// notifications: it decodes the queue envelope, fans out over the layer's
// subscribers, normalizes and gates each result, and routes the finished
// payload to the subscriber's channel.
package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"forestwatch/internal/types"
)

const dateLayout = "2006-01-02"

// DecodedMessage is a validated alert message with its dates parsed.
type DecodedMessage struct {
	Layer types.Layer
	Begin time.Time
	End   time.Time
}

// Decoder validates and parses inbound alert messages.
type Decoder struct {
	validate *validator.Validate
}

// NewDecoder creates a message decoder.
func NewDecoder() *Decoder {
	return &Decoder{validate: validator.New()}
}

// Decode parses a raw queue message body into a DecodedMessage.
//
// A message that cannot be decoded is rejected outright; whether it is
// redelivered is the queue transport's decision, not this package's.
func (d *Decoder) Decode(body []byte) (DecodedMessage, error) {
	var msg types.AlertMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return DecodedMessage{}, types.NewAppError(
			types.ErrCodeDecodeMalformed,
			"alert message is not valid JSON",
			err,
		)
	}

	if err := d.validate.Struct(msg); err != nil {
		return DecodedMessage{}, types.NewAppError(
			types.ErrCodeDecodeMalformed,
			"alert message is missing required fields",
			err,
		)
	}

	begin, err := time.ParseInLocation(dateLayout, msg.BeginDate, time.UTC)
	if err != nil {
		return DecodedMessage{}, types.NewAppError(
			types.ErrCodeDecodeInvalidDate,
			fmt.Sprintf("begin_date %q is not a valid date", msg.BeginDate),
			err,
		)
	}
	end, err := time.ParseInLocation(dateLayout, msg.EndDate, time.UTC)
	if err != nil {
		return DecodedMessage{}, types.NewAppError(
			types.ErrCodeDecodeInvalidDate,
			fmt.Sprintf("end_date %q is not a valid date", msg.EndDate),
			err,
		)
	}
	if end.Before(begin) {
		return DecodedMessage{}, types.NewAppError(
			types.ErrCodeDecodeInvalidDate,
			fmt.Sprintf("end_date %s precedes begin_date %s", msg.EndDate, msg.BeginDate),
			nil,
		)
	}

	return DecodedMessage{
		Layer: types.Layer{Slug: msg.LayerSlug, Name: displayName(msg.LayerSlug)},
		Begin: begin,
		End:   end,
	}, nil
}

// displayName derives a human-readable layer name from its slug. The
// upstream producer sends only the slug; templates want something readable.
func displayName(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
