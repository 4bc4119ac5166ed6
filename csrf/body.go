package csrf

import (
	"bytes"
	"mime"
	"mime/multipart"
	"net/url"

	"github.com/goccy/go-json"
)

type payloadKind int

const (
	payloadRaw payloadKind = iota
	payloadForm
	payloadMultipart
	payloadJSON
)

// payload is a request body parsed once according to its content type.
type payload struct {
	kind   payloadKind
	fields url.Values // payloadForm, payloadMultipart
	args   []any      // payloadJSON
	raw    []byte
}

// multipartMemory bounds the in-memory part of multipart parsing; larger
// file parts spill to temporary files that are removed right away.
const multipartMemory = 4 << 20

func parsePayload(contentType string, raw []byte) payload {
	p := payload{kind: payloadRaw, raw: raw}
	if len(raw) == 0 {
		return p
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		// ParseQuery keeps every well-formed pair even when it reports an error.
		vals, _ := url.ParseQuery(string(raw))
		p.kind, p.fields = payloadForm, vals
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return p
		}
		form, err := multipart.NewReader(bytes.NewReader(raw), boundary).ReadForm(multipartMemory)
		if err != nil {
			return p
		}
		defer form.RemoveAll()
		p.kind, p.fields = payloadMultipart, url.Values(form.Value)
	default:
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return p
		}
		var args []any
		if err := json.Unmarshal(trimmed, &args); err != nil {
			return p
		}
		p.kind, p.args = payloadJSON, args
	}
	return p
}

// token returns the candidate token carried by the payload under field.
func (p payload) token(field string) string {
	switch p.kind {
	case payloadForm, payloadMultipart:
		return p.fields.Get(field)
	case payloadJSON:
		if len(p.args) == 0 {
			return ""
		}
		switch v := p.args[0].(type) {
		case string:
			return v
		case map[string]any:
			if s, ok := v[field].(string); ok {
				return s
			}
		}
	}
	return ""
}
