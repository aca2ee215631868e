package schema

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrNotImplemented is returned for features the validator does not support,
// such as asynchronous resolution of remote schemas.
var ErrNotImplemented = errors.New("not implemented")

// ErrRemoteSchemas is returned when remote schema resolution is requested.
var ErrRemoteSchemas = fmt.Errorf("asynchronous compile with resolveRemoteSchemas is %w, don't use the resolveRemoteSchemas option yet", ErrNotImplemented)

// LoadRemote would fetch a schema over the network. Remote loading is not
// supported and always fails.
func LoadRemote(uri string) (any, error) {
	return nil, fmt.Errorf("loading remote schema %s: %w", uri, ErrNotImplemented)
}

// loadURL is installed as the compiler loader. Local files go through the
// default loader, anything else is refused.
func loadURL(s string) (io.ReadCloser, error) {
	u, err := url.Parse(s)
	if err == nil && len(u.Scheme) > 1 && u.Scheme != "file" {
		_, err := LoadRemote(s)
		return nil, err
	}
	return jsonschema.LoadURL(s)
}
