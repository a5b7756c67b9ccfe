package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/ka2n/cloudapp/api/transport"
	"github.com/ka2n/cloudapp/log"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// resolve performs req and returns the decorated representation of the
// response. A 401 is returned as an unauthorized representation; other
// error statuses fail with ErrUnexpectedStatus.
func (s *Service) resolve(ctx context.Context, req *transport.Request) (*collectionjson.Representation, error) {
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	rep, err := s.represent(req, resp)
	if err != nil {
		return nil, err
	}
	if resp.Status >= http.StatusBadRequest && rep.Authorized() {
		return nil, failure.New(ErrUnexpectedStatus,
			failure.Message("The server rejected the request"),
			failure.Context{
				"method": req.Method,
				"url":    rep.URL().String(),
				"status": http.StatusText(resp.Status),
			},
		)
	}
	return rep, nil
}

func (s *Service) get(ctx context.Context, href string, params url.Values) (*collectionjson.Representation, error) {
	return s.resolve(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    href,
		Query:  params,
	})
}

// represent parses resp and runs the tint pipeline over it.
func (s *Service) represent(req *transport.Request, resp *transport.Response) (*collectionjson.Representation, error) {
	u := resp.URL
	if u == nil {
		u = s.requestURL(req)
	}
	doc := collectionjson.Document{
		Meta: collectionjson.Meta{
			Status: resp.Status,
			Header: resp.Header,
			URL:    u,
		},
		Raw: resp.Body,
	}
	if decode, ok := s.decoders[doc.ContentType()]; ok {
		body, err := decode(resp.Body)
		if err != nil && resp.Status < http.StatusMultipleChoices {
			return nil, failure.Wrap(err, failure.Context{"url": u.String()})
		}
		doc.Body = body
	}
	return s.tints.Apply(doc), nil
}

func (s *Service) requestURL(req *transport.Request) *url.URL {
	ref, err := url.Parse(req.URL)
	if err != nil {
		return s.base
	}
	u := s.base.ResolveReference(ref)
	if len(req.Query) > 0 {
		q := u.Query()
		for k, vs := range req.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u
}

// resolveCollection follows "drops" links from href until it reaches a
// representation that does not advertise one. params are only sent with the
// final request, never to the resources passed through on the way.
//
// The collection is found before params are known to apply to it, so with
// params set it is fetched twice: N discovery GETs plus one filtered GET.
// Without params the last discovery GET is the result.
func (s *Service) resolveCollection(ctx context.Context, href string, params url.Values) (*collectionjson.Representation, error) {
	return s.resolveCollectionAt(ctx, href, params, 0)
}

func (s *Service) resolveCollectionAt(ctx context.Context, href string, params url.Values, hop int) (*collectionjson.Representation, error) {
	if hop > s.maxHops {
		return nil, failure.New(ErrResolutionDepthExceeded,
			failure.Message("The server kept pointing at another drops collection"),
			failure.Context{"href": href, "max_hops": fmt.Sprint(s.maxHops)},
		)
	}

	log.Debug("Resolving drops collection", "href", href, "hop", hop)
	rep, err := s.get(ctx, href, nil)
	if err != nil {
		return nil, err
	}
	if !rep.Authorized() {
		return rep, nil
	}

	if next, ok := rep.LookupLink("drops"); ok {
		return s.resolveCollectionAt(ctx, next.Href, params, hop+1)
	}
	if len(params) == 0 {
		return rep, nil
	}
	return s.get(ctx, href, params)
}

// submit sends a filled form to href. The form is sent as multipart when the
// template asks for it or carries a file, otherwise as JSON nested under the
// template's rel when it has one.
func (s *Service) submit(ctx context.Context, method, href string, tmpl *collectionjson.Template, form collectionjson.Form) (*collectionjson.Representation, error) {
	return s.resolve(ctx, formRequest(method, href, tmpl, form))
}

func formRequest(method, href string, tmpl *collectionjson.Template, form collectionjson.Form) *transport.Request {
	req := &transport.Request{Method: method, URL: href}
	if tmpl.Enctype() == collectionjson.EnctypeMultipart || hasFile(form) {
		req.Parts = lo.Map(form, func(f collectionjson.Field, _ int) transport.Part {
			return transport.Part{Name: f.Name, Value: f.Value}
		})
		return req
	}

	var body any = form.Map()
	if rel := tmpl.Rel(); rel != "" {
		body = map[string]any{rel: form.Map()}
	}
	req.Body = body
	return req
}

func hasFile(form collectionjson.Form) bool {
	return lo.ContainsBy(form, func(f collectionjson.Field) bool {
		_, ok := f.Value.(transport.FilePart)
		return ok
	})
}

// target returns the href forms of rep are submitted to.
func target(rep *collectionjson.Representation) string {
	if href := rep.Href(); href != "" {
		return href
	}
	if l, ok := rep.LookupLink("self"); ok {
		return l.Href
	}
	return rep.URL().String()
}
