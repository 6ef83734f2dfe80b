package httputil

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"waflens/internal/config"
	"waflens/internal/domain"
)

// ParseJSON strictly decodes the request body into dest. Every decode failure
// wraps domain.ErrValidation:
//   - bodies over config.MaxRequestBodyBytes
//   - malformed JSON or an empty body
//   - fields dest does not declare
//   - values of the wrong type
//   - a top-level value that is not an object, including null
//   - anything after the first JSON value
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	body := bufio.NewReader(http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes))

	if err := expectObject(body); err != nil {
		return err
	}

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, describeDecodeError(err))
	}

	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body must contain a single JSON object", domain.ErrValidation)
	}

	return nil
}

// expectObject peeks past leading whitespace and requires the body to open
// with '{'. Decoding null into a struct is a silent no-op otherwise.
func expectObject(body *bufio.Reader) error {
	for {
		c, err := body.ReadByte()
		if err != nil {
			return fmt.Errorf("%w: %s", domain.ErrValidation, describeDecodeError(err))
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return body.UnreadByte()
		default:
			return fmt.Errorf("%w: request body must be a JSON object", domain.ErrValidation)
		}
	}
}

func describeDecodeError(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.Is(err, io.ErrUnexpectedEOF):
		return "invalid JSON: unexpected end of input"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("field %q must be %s", typeErr.Field, typeErr.Type)
		}
		return fmt.Sprintf("body must be %s", typeErr.Type)
	case errors.As(err, &maxErr):
		return fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit)
	default:
		// DisallowUnknownFields reports `json: unknown field "x"`
		return fmt.Sprintf("invalid JSON: %v", err)
	}
}
