package entity

// Response is the outcome of a single gateway call.
//
// On success Params holds the decoded XML body. When transport errors are
// suppressed, a failed call is returned as a Response with Err set, Params
// nil and Body holding whatever the gateway sent back (possibly nothing).
// Gateway business codes (return_code, result_code, err_code) are not
// interpreted either way.
type Response struct {
	Endpoint   string
	StatusCode int
	Params     Params
	Body       []byte
	Err        error
}

// Failed reports whether the call failed at the transport level.
func (r *Response) Failed() bool {
	return r == nil || r.Err != nil
}

// Get returns a response field, or an empty string for failed responses.
func (r *Response) Get(key string) string {
	if r.Failed() {
		return ""
	}
	return r.Params.Get(key)
}
