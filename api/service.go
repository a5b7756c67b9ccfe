package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ka2n/cloudapp/api/collectionjson"
	"github.com/ka2n/cloudapp/api/tint"
	"github.com/ka2n/cloudapp/api/transport"
	"github.com/ka2n/cloudapp/log"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
)

// Service performs drop operations by following the links the API
// advertises. It is safe for concurrent use.
type Service struct {
	client   transport.Client
	decoders map[string]collectionjson.DecodeFunc
	tints    tint.Pipeline
	maxHops  int
	base     *url.URL
}

// New creates a Service from cfg.
func New(cfg Config) (*Service, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   cfg.Client,
		decoders: cfg.Decoders,
		tints:    cfg.Tints,
		maxHops:  cfg.MaxHops,
		base:     cfg.baseURL(),
	}, nil
}

// DropsOptions selects a page of drops.
type DropsOptions struct {
	// Href is where discovery starts, "/" when empty. Pass the href of a
	// "next" or "previous" link to page.
	Href   string
	Filter Filter
}

// DropOptions are the optional attributes of a new drop.
type DropOptions struct {
	Name    *string
	Private *bool
}

func (o DropOptions) attributes() map[string]any {
	attrs := map[string]any{}
	if o.Name != nil {
		attrs["name"] = *o.Name
	}
	if o.Private != nil {
		attrs["private"] = *o.Private
	}
	return attrs
}

// UpdateOptions are the attributes Update changes. Nil fields keep the
// current value.
type UpdateOptions struct {
	Name        *string
	Private     *bool
	BookmarkURL *string
	Trash       *bool
	// File replaces the content of a file drop
	File *File
}

func (o UpdateOptions) attributes() map[string]any {
	attrs := DropOptions{Name: o.Name, Private: o.Private}.attributes()
	if o.BookmarkURL != nil {
		attrs["bookmark_url"] = *o.BookmarkURL
		attrs["redirect_url"] = *o.BookmarkURL
	}
	if o.Trash != nil {
		attrs["trash"] = *o.Trash
	}
	if o.File != nil {
		attrs["file_size"] = o.File.Size
	}
	return attrs
}

// Drops lists drops, starting discovery at opts.Href.
func (s *Service) Drops(ctx context.Context, opts DropsOptions) (Result[*DropCollection], error) {
	href := lo.Ternary(opts.Href == "", "/", opts.Href)
	var params url.Values
	if opts.Filter != "" {
		params = url.Values{"filter": []string{opts.Filter.String()}}
	}
	rep, err := s.resolveCollection(ctx, href, params)
	return collectionResult(rep, err)
}

// DropAt fetches the drop, or list of drops, at href.
func (s *Service) DropAt(ctx context.Context, href string) (Result[*DropCollection], error) {
	rep, err := s.resolveCollection(ctx, href, nil)
	return collectionResult(rep, err)
}

// Bookmark creates a drop pointing at rawURL.
func (s *Service) Bookmark(ctx context.Context, rawURL string, opts DropOptions) (Result[*DropCollection], error) {
	rep, err := s.resolveCollection(ctx, "/", nil)
	if err != nil || !rep.Authorized() {
		return collectionResult(rep, err)
	}
	tmpl, err := createTemplate(rep)
	if err != nil {
		return Result[*DropCollection]{}, err
	}

	attrs := opts.attributes()
	attrs["bookmark_url"] = rawURL
	attrs["redirect_url"] = rawURL
	log.Debug("Creating bookmark", "url", rawURL, "fields", tmpl.Names())
	created, err := s.submit(ctx, http.MethodPost, target(rep), tmpl, tmpl.Fill(attrs))
	return collectionResult(created, err)
}

// Upload creates a file drop. The server first allocates the drop and
// returns an upload form, then the content is posted to the storage the
// form names and the drop is fetched from the Location of that response.
// file.Body is closed before Upload returns.
func (s *Service) Upload(ctx context.Context, file File, opts DropOptions) (Result[*DropCollection], error) {
	if file.Body == nil {
		return Result[*DropCollection]{}, failure.New(ErrInvalidFile,
			failure.Message("Nothing to upload"),
			failure.Context{"name": file.Name},
		)
	}
	defer file.Body.Close()

	rep, err := s.resolveCollection(ctx, "/", nil)
	if err != nil || !rep.Authorized() {
		return collectionResult(rep, err)
	}

	attrs := opts.attributes()
	attrs["file_size"] = file.Size
	if file.Name != "" && !lo.HasKey(attrs, "name") {
		attrs["name"] = file.Name
	}
	form, err := s.requestUpload(ctx, rep, attrs)
	if err != nil || !form.Authorized() {
		return collectionResult(form, err)
	}
	return s.uploadFile(ctx, file, form)
}

// requestUpload runs the first phase of an upload and returns the
// representation carrying the upload form.
func (s *Service) requestUpload(ctx context.Context, rep *collectionjson.Representation, attrs map[string]any) (*collectionjson.Representation, error) {
	tmpl := rep.Template()
	if tmpl != nil && lo.Contains(tmpl.Names(), "file_size") {
		return s.submit(ctx, http.MethodPost, target(rep), tmpl, tmpl.Fill(attrs))
	}
	if l, ok := rep.LookupLink("create_file"); ok {
		return s.get(ctx, l.Href, nil)
	}
	if tmpl == nil {
		return nil, templateNotFound(rep, "create")
	}
	return s.submit(ctx, http.MethodPost, target(rep), tmpl, tmpl.Fill(attrs))
}

// uploadFile posts file with the upload form of rep and fetches the drop
// the storage redirects to.
func (s *Service) uploadFile(ctx context.Context, file File, rep *collectionjson.Representation) (Result[*DropCollection], error) {
	tmpl := rep.Template()
	if tmpl == nil || !lo.Contains(tmpl.Names(), "file") {
		return Result[*DropCollection]{}, templateNotFound(rep, "upload")
	}
	href := rep.LinkOr("upload", func() collectionjson.Link {
		return collectionjson.Link{Rel: "upload", Href: target(rep)}
	}).Href

	form := tmpl.Fill(map[string]any{"file": file.part()})
	log.Debug("Uploading file", "href", href, "name", file.Name, "size", file.Size)
	resp, err := s.client.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		URL:    href,
		Parts: lo.Map(form, func(f collectionjson.Field, _ int) transport.Part {
			return transport.Part{Name: f.Name, Value: f.Value}
		}),
	})
	if err != nil {
		return Result[*DropCollection]{}, err
	}
	if resp.Status == http.StatusUnauthorized {
		return denied[*DropCollection](), nil
	}
	if resp.Status >= http.StatusBadRequest {
		return Result[*DropCollection]{}, failure.New(ErrUnexpectedStatus,
			failure.Message("The storage rejected the upload"),
			failure.Context{"url": href, "status": http.StatusText(resp.Status)},
		)
	}

	loc, ok := resp.Location()
	if !ok {
		return Result[*DropCollection]{}, failure.New(ErrMissingLocation,
			failure.Message("The storage did not say where the drop was created"),
			failure.Context{"url": href},
		)
	}
	drop, err := s.get(ctx, loc.String(), nil)
	return collectionResult(drop, err)
}

// Update changes the drop at href. Supplied attributes are laid over the
// drop's current data before the form is filled.
func (s *Service) Update(ctx context.Context, href string, opts UpdateOptions) (Result[*DropCollection], error) {
	if opts.File != nil {
		if opts.File.Body == nil {
			return Result[*DropCollection]{}, failure.New(ErrInvalidFile,
				failure.Message("Nothing to upload"),
				failure.Context{"href": href},
			)
		}
		defer opts.File.Body.Close()
	}

	rep, err := s.resolveCollection(ctx, href, nil)
	if err != nil || !rep.Authorized() {
		return collectionResult(rep, err)
	}
	current, err := NewDropCollection(rep)
	if err != nil {
		return Result[*DropCollection]{}, err
	}
	drop, ok := current.First()
	if !ok {
		return Result[*DropCollection]{}, failure.New(ErrNoDrop,
			failure.Message("There is no drop to update"),
			failure.Context{"href": href},
		)
	}
	tmpl := rep.Template()
	if tmpl == nil {
		return Result[*DropCollection]{}, templateNotFound(rep, "update")
	}

	attrs := lo.Assign(drop.Data, opts.attributes())
	dropHref := lo.Ternary(drop.Href != "", drop.Href, target(rep))
	updated, err := s.submit(ctx, http.MethodPut, dropHref, tmpl, tmpl.Fill(attrs))
	if err != nil || !updated.Authorized() || opts.File == nil {
		return collectionResult(updated, err)
	}
	return s.uploadFile(ctx, *opts.File, updated)
}

// TrashDrop moves the drop at href to the trash.
func (s *Service) TrashDrop(ctx context.Context, href string) (Result[*DropCollection], error) {
	return s.Update(ctx, href, UpdateOptions{Trash: lo.ToPtr(true)})
}

// RecoverDrop restores the drop at href from the trash.
func (s *Service) RecoverDrop(ctx context.Context, href string) (Result[*DropCollection], error) {
	return s.Update(ctx, href, UpdateOptions{Trash: lo.ToPtr(false)})
}

// Trash moves the drops with the given ids to the trash in one request.
func (s *Service) Trash(ctx context.Context, ids []string) (Result[*collectionjson.Representation], error) {
	return s.bulk(ctx, "remove", http.MethodDelete, ids)
}

// Recover restores the drops with the given ids in one request.
func (s *Service) Recover(ctx context.Context, ids []string) (Result[*collectionjson.Representation], error) {
	return s.bulk(ctx, "recover", http.MethodPost, ids)
}

func (s *Service) bulk(ctx context.Context, rel, method string, ids []string) (Result[*collectionjson.Representation], error) {
	rep, err := s.resolveCollection(ctx, "/", nil)
	if err != nil || !rep.Authorized() {
		return representationResult(rep, err)
	}

	tmpl, href := rep.TemplateFor(rel), target(rep)
	if tmpl == nil {
		l, err := rep.Link(rel)
		if err != nil {
			return Result[*collectionjson.Representation]{}, err
		}
		form, err := s.get(ctx, l.Href, nil)
		if err != nil || !form.Authorized() {
			return representationResult(form, err)
		}
		if tmpl = form.Template(); tmpl == nil {
			return Result[*collectionjson.Representation]{}, templateNotFound(form, rel)
		}
		href = l.Href
	}

	done, err := s.submit(ctx, method, href, tmpl, tmpl.Fill(map[string]any{"drop_ids": ids}))
	return representationResult(done, err)
}

// DeleteDrop permanently deletes the drop at href.
func (s *Service) DeleteDrop(ctx context.Context, href string) (Result[*collectionjson.Representation], error) {
	rep, err := s.resolve(ctx, &transport.Request{Method: http.MethodDelete, URL: href})
	return representationResult(rep, err)
}

// Perform runs the named action of rep, such as "destroy" or "restore".
func (s *Service) Perform(ctx context.Context, rep *collectionjson.Representation, name string) (Result[*collectionjson.Representation], error) {
	action, ok := rep.Action(name)
	if !ok {
		return Result[*collectionjson.Representation]{}, failure.New(ErrUnknownAction,
			failure.Message("The drop does not offer this action"),
			failure.Context{"action": name, "available": fmt.Sprint(rep.Actions())},
		)
	}
	href, err := actionHref(rep, action.Rel)
	if err != nil {
		return Result[*collectionjson.Representation]{}, err
	}

	req := &transport.Request{Method: action.Method, URL: href, Query: action.Query}
	if action.Body != nil {
		req.Body = action.Body
	}
	done, err := s.resolve(ctx, req)
	return representationResult(done, err)
}

// actionHref returns the href of rel. A representation without a declared
// `self` link is its own request URL.
func actionHref(rep *collectionjson.Representation, rel string) (string, error) {
	if l, ok := rep.LookupLink(rel); ok {
		return l.Href, nil
	}
	if rel == "self" && rep.URL() != nil {
		return rep.URL().String(), nil
	}
	l, err := rep.Link(rel)
	return l.Href, err
}

// TokenForAccount exchanges account credentials for an API token.
func (s *Service) TokenForAccount(ctx context.Context, email, password string) (Result[string], error) {
	root, err := s.get(ctx, "/", nil)
	if err != nil {
		return Result[string]{}, err
	}
	if !root.Authorized() {
		return denied[string](), nil
	}
	tmpl := root.Template()
	if tmpl == nil {
		return Result[string]{}, templateNotFound(root, "authenticate")
	}

	form := tmpl.Fill(map[string]any{"email": email, "password": password})
	rep, err := s.submit(ctx, http.MethodPost, target(root), tmpl, form)
	if err != nil {
		return Result[string]{}, err
	}
	if !rep.Authorized() {
		return denied[string](), nil
	}

	item, ok := lo.First(rep.Items())
	if !ok {
		return Result[string]{}, noToken(rep)
	}
	if token, _ := item.Value("token"); token != nil {
		if t, isString := token.(string); isString && t != "" {
			return success(t), nil
		}
	}
	return Result[string]{}, noToken(rep)
}

func createTemplate(rep *collectionjson.Representation) (*collectionjson.Template, error) {
	if tmpl := rep.Template(); tmpl != nil {
		return tmpl, nil
	}
	return nil, templateNotFound(rep, "create")
}

func templateNotFound(rep *collectionjson.Representation, form string) error {
	return failure.New(ErrTemplateNotFound,
		failure.Message("The server did not provide the form for this operation"),
		failure.Context{"form": form, "url": rep.URL().String()},
	)
}

func noToken(rep *collectionjson.Representation) error {
	return failure.New(ErrNoToken,
		failure.Message("The server did not return a token"),
		failure.Context{"url": rep.URL().String()},
	)
}

func collectionResult(rep *collectionjson.Representation, err error) (Result[*DropCollection], error) {
	if err != nil {
		return Result[*DropCollection]{}, err
	}
	if !rep.Authorized() {
		return denied[*DropCollection](), nil
	}
	c, err := NewDropCollection(rep)
	if err != nil {
		return Result[*DropCollection]{}, err
	}
	return success(c), nil
}

func representationResult(rep *collectionjson.Representation, err error) (Result[*collectionjson.Representation], error) {
	if err != nil {
		return Result[*collectionjson.Representation]{}, err
	}
	if !rep.Authorized() {
		return denied[*collectionjson.Representation](), nil
	}
	return success(rep), nil
}
