package transport

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/morikuni/failure/v2"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeMultipart lays parts out as a sequence of readers so file contents
// are streamed rather than buffered. The returned length is -1 when a file
// part has an unknown size.
func encodeMultipart(parts []Part) (io.Reader, string, int64, error) {
	var (
		buf      bytes.Buffer
		segments []io.Reader
		length   int64
	)
	mw := multipart.NewWriter(&buf)

	flush := func() {
		if buf.Len() == 0 {
			return
		}
		b := append([]byte(nil), buf.Bytes()...)
		segments = append(segments, bytes.NewReader(b))
		if length >= 0 {
			length += int64(len(b))
		}
		buf.Reset()
	}

	for _, p := range parts {
		switch v := p.Value.(type) {
		case FilePart:
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
				quoteEscaper.Replace(p.Name), quoteEscaper.Replace(v.Filename)))
			contentType := v.ContentType
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			h.Set("Content-Type", contentType)
			if _, err := mw.CreatePart(h); err != nil {
				return nil, "", 0, failure.Translate(err, ErrEncode)
			}
			flush()
			segments = append(segments, v.Reader)
			if v.Size < 0 || length < 0 {
				length = -1
			} else {
				length += v.Size
			}
		case nil:
			if err := mw.WriteField(p.Name, ""); err != nil {
				return nil, "", 0, failure.Translate(err, ErrEncode)
			}
		default:
			if err := mw.WriteField(p.Name, fmt.Sprint(v)); err != nil {
				return nil, "", 0, failure.Translate(err, ErrEncode)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", 0, failure.Translate(err, ErrEncode)
	}
	flush()

	return io.MultiReader(segments...), mw.FormDataContentType(), length, nil
}
