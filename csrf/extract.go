package csrf

// Extract locates the submitted token in req. The header wins; otherwise the
// body is parsed once by content type and searched for the form field or the
// first server-action argument. It returns "" when nothing is found and never
// fails: a missing token is reported by verification.
//
// Params:
// - req: the request; its body is read through Request.Body.
// - opts: header and field names; empty names fall back to the defaults.
//
// Returns:
// - the candidate token, or "" when none is present.
func Extract(req Request, opts TokenOptions) string {
	headerName, field := opts.HeaderName, opts.FieldName
	if headerName == "" {
		headerName = defaultHeaderName
	}
	if field == "" {
		field = defaultFieldName
	}

	if h := req.Header(headerName); h != "" {
		return h
	}

	raw, err := req.Body()
	if err != nil || len(raw) == 0 {
		return ""
	}
	return parsePayload(req.Header("Content-Type"), raw).token(field)
}
