package dlocal

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"
	"strings"
	"time"

	"kycdesk/internal/core/signer"
	perr "kycdesk/internal/platform/errors"
)

// Operation names one console action against the remote API
type Operation string

const (
	OpCreateVerification Operation = "kyc.create_verification"
	OpGetVerification    Operation = "kyc.get_verification"
	OpListDocuments      Operation = "kyc.list_documents"
	OpUploadDocument     Operation = "kyc.upload_document"
	OpUpdateState        Operation = "kyc.update_state"
	OpCreatePayment      Operation = "payments.create"
	OpGetPayment         Operation = "payments.get"
	OpCreatePayout       Operation = "payouts.create"
)

// Header is one outbound header, kept in send order
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const redacted = "[redacted]"

// SignedRequest is one fully built and signed outbound call
// it is immutable, accessors hand out copies
type SignedRequest struct {
	op        Operation
	family    Family
	env       Environment
	method    string
	url       string
	headers   []Header
	body      []byte
	sent      json.RawMessage
	xDate     string
	signature string
}

func (r SignedRequest) Op() Operation     { return r.op }
func (r SignedRequest) Family() Family    { return r.family }
func (r SignedRequest) Env() Environment  { return r.env }
func (r SignedRequest) Method() string    { return r.method }
func (r SignedRequest) URL() string       { return r.url }
func (r SignedRequest) XDate() string     { return r.xDate }
func (r SignedRequest) Signature() string { return r.signature }

// Body returns a copy of the wire body
func (r SignedRequest) Body() []byte { return bytes.Clone(r.body) }

// Headers returns the headers in send order
func (r SignedRequest) Headers() []Header { return slices.Clone(r.headers) }

// Header returns the first value of name, case insensitive
func (r SignedRequest) Header(name string) string {
	key := textproto.CanonicalMIMEHeaderKey(name)
	for _, h := range r.headers {
		if textproto.CanonicalMIMEHeaderKey(h.Name) == key {
			return h.Value
		}
	}
	return ""
}

// BodySent is the display form of the body with embedded credentials masked
func (r SignedRequest) BodySent() json.RawMessage { return bytes.Clone(r.sent) }

// RedactedHeaders masks the transaction key and the Authorization value
func (r SignedRequest) RedactedHeaders() []Header {
	out := r.Headers()
	for i, h := range out {
		switch textproto.CanonicalMIMEHeaderKey(h.Name) {
		case "X-Trans-Key", "Authorization":
			out[i].Value = redacted
		}
	}
	return out
}

// httpHeader renders headers for net/http
func (r SignedRequest) httpHeader() http.Header {
	h := make(http.Header, len(r.headers))
	for _, kv := range r.headers {
		h.Set(kv.Name, kv.Value)
	}
	return h
}

// draft is a request before signing
// signed holds the exact bytes covered by the signature, wire the bytes sent
type draft struct {
	op          Operation
	family      Family
	method      string
	path        string
	signed      []byte
	wire        []byte
	contentType string
	sent        json.RawMessage
}

// seal resolves the base URL, signs with the family scheme, and orders the headers
func seal(ends Endpoints, now time.Time, c Credentials, d draft) (SignedRequest, error) {
	base, err := ends.Base(c.Env, d.family)
	if err != nil {
		return SignedRequest{}, err
	}
	req := SignedRequest{
		op:     d.op,
		family: d.family,
		env:    c.Env,
		method: d.method,
		url:    base + d.path,
		body:   d.wire,
		sent:   d.sent,
	}

	switch d.family.Scheme() {
	case SchemeHeader:
		req.xDate = signer.ISODate(now)
		req.signature, err = signer.HeaderSignature(c.Login, c.SecretKey, req.xDate, d.signed)
		if err != nil {
			return SignedRequest{}, err
		}
		req.headers = []Header{
			{"X-Date", req.xDate},
			{"X-Login", c.Login},
			{"X-Trans-Key", c.TransKey},
		}
		if d.contentType != "" {
			req.headers = append(req.headers, Header{"Content-Type", d.contentType})
		}
		req.headers = append(req.headers, Header{"Authorization", signer.AuthorizationValue(req.signature)})
	case SchemePayload:
		req.xDate = signer.RFC1123Date(now)
		req.signature, err = signer.PayloadSignature(c.SecretKey, d.signed)
		if err != nil {
			return SignedRequest{}, err
		}
		req.headers = []Header{
			{"Content-Type", "application/json"},
			{"X-Date", req.xDate},
			{"X-Login", c.Login},
			{"X-Trans-Key", c.TransKey},
			{"payload-signature", req.signature},
		}
	default:
		return SignedRequest{}, perr.Signaturef("no signing scheme for family %q", d.family)
	}
	return req, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartField builds a single part multipart body
// boundary may be empty for a random one
func multipartField(boundary, field, filename, contentType string, data []byte) (body []byte, ct string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if boundary != "" {
		if err := w.SetBoundary(boundary); err != nil {
			return nil, "", perr.Wrap(err, perr.ErrorCodeUnknown, "multipart boundary")
		}
	}
	disp := `form-data; name="` + quoteEscaper.Replace(field) + `"`
	if filename != "" {
		disp += `; filename="` + quoteEscaper.Replace(filename) + `"`
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", disp)
	if contentType != "" {
		hdr.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", perr.Wrap(err, perr.ErrorCodeUnknown, "multipart part")
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", perr.Wrap(err, perr.ErrorCodeUnknown, "multipart write")
	}
	if err := w.Close(); err != nil {
		return nil, "", perr.Wrap(err, perr.ErrorCodeUnknown, "multipart close")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
