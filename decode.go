package checkout

import (
	"encoding/json"
	"errors"
	"io"
)

// decodeJSON decodes exactly one JSON document from r. Unknown fields are
// tolerated so additive API changes do not break older SDK versions.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("response body required")
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// decodeJSONStrict additionally rejects unknown fields. Webhook payloads are
// decoded strictly: a field the SDK does not know about on a verified
// delivery is worth failing loudly over.
func decodeJSONStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("payload required")
		}
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}
