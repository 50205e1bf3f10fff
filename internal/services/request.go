// Package services contains the transport collaborator and the
// processing-step executor: the single place where a built connector
// request is dispatched and its raw response is reduced back into the
// domain transaction model.
package services

import "net/http"

// Method is the HTTP method of a transport-ready connector request.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// ContentType is the encoding of a connector request body.
type ContentType string

const (
	ContentTypeJSON           ContentType = "application/json"
	ContentTypeFormURLEncoded ContentType = "application/x-www-form-urlencoded"
)

// Request is a transport-ready connector request: method, URL, headers
// and encoded body. Built exclusively by connector integrations.
type Request struct {
	Method      Method
	URL         string
	Headers     map[string]string
	Body        []byte
	ContentType ContentType
}

// NewRequest returns a request with an empty header map.
func NewRequest(method Method, url string) *Request {
	return &Request{Method: method, URL: url, Headers: make(map[string]string)}
}

// AddHeader sets a header, replacing any previous value.
func (r *Request) AddHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// SetBody attaches an encoded body and its content type.
func (r *Request) SetBody(body []byte, contentType ContentType) *Request {
	r.Body = body
	r.ContentType = contentType
	return r
}

// Response is the raw transport response: status code and body. Status
// classification happens in the executor, not in the client.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}
