// Package api is a client for the CloudApp drops API.
//
// The API is hypermedia driven: the client starts at the API root and
// follows the links and forms each response advertises instead of building
// URLs. Service implements the drop operations on top of that:
//
//	s, err := api.New(api.Config{Auth: transport.TokenAuth{Token: token}})
//	res, err := s.Drops(ctx, api.DropsOptions{Filter: api.FilterTrash})
//	if res.Unauthorized() {
//		// ask for credentials
//	}
//
// A 401 answer is reported by Result.Unauthorized, never as an error.
package api
