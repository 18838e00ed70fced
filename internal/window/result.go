package window

import "net/http"

// Result is the outcome of Store.Record.
type Result int

const (
	// ResultSuccess means the point was folded into the window.
	ResultSuccess Result = iota
	// ResultOld means the point is older than the window and was ignored.
	ResultOld
	// ResultBadRequest means the point failed validation.
	ResultBadRequest
	// ResultSuperseded means the point's ring slot already holds a newer
	// second, so the point arrived too late to be kept.
	ResultSuperseded
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultOld:
		return "old"
	case ResultBadRequest:
		return "bad_request"
	case ResultSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// StatusCode maps the result onto the HTTP status an API layer should answer with.
func (r Result) StatusCode() int {
	switch r {
	case ResultSuccess:
		return http.StatusCreated
	case ResultOld, ResultSuperseded:
		return http.StatusNoContent
	default:
		return http.StatusBadRequest
	}
}
