package api

import (
	"io"

	"github.com/ka2n/cloudapp/api/transport"
)

// File is the content of an upload. The service closes Body once the upload
// finishes, whether it succeeded or not.
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.ReadCloser
}

func (f File) part() transport.FilePart {
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return transport.FilePart{
		Filename:    f.Name,
		ContentType: ct,
		Size:        f.Size,
		Reader:      f.Body,
	}
}
