package auth

import "net/http"

// Doer sends upstream requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
