package testutil

import (
	"net/http"

	id "catwatch/pkg/domain"
	"catwatch/pkg/requestcontext"
)

// WithOwner attaches an owner to the request context the way the bearer-token
// middleware does. An unparsable ownerID leaves the request unauthenticated.
func WithOwner(req *http.Request, ownerID string) *http.Request {
	parsed, err := id.ParseOwnerID(ownerID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithOwnerID(req.Context(), parsed))
}
