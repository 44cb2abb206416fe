package bridge

import (
	"bytes"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

var scriptTag = []byte(`<script src="` + ScriptPath + `"></script>`)

// Middleware serves the bootstrap script and injects it into HTML documents
// produced by next. It plugs into the Wails asset server.
func Middleware(c Capabilities) (func(next http.Handler) http.Handler, error) {
	script, err := Script(c)
	if err != nil {
		return nil, err
	}
	body := []byte(script)

	return func(next http.Handler) http.Handler {
		r := chi.NewRouter()
		r.Get(ScriptPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
			w.Header().Set("Cache-Control", "no-store")
			w.Write(body)
		})
		r.NotFound(injectInto(next))
		r.MethodNotAllowed(next.ServeHTTP)
		return r
	}, nil
}

// injectInto buffers document responses so the script tag can be inserted.
// Other assets stream straight through.
func injectInto(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isDocumentRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		buf := &bufferedResponse{header: http.Header{}}
		next.ServeHTTP(buf, r)

		for k, v := range buf.header {
			w.Header()[k] = v
		}
		out := buf.body.Bytes()
		if buf.status() == http.StatusOK && strings.HasPrefix(buf.header.Get("Content-Type"), "text/html") {
			out = Inject(out)
			w.Header().Set("Content-Length", strconv.Itoa(len(out)))
		}
		w.WriteHeader(buf.status())
		w.Write(out)
	}
}

// isDocumentRequest reports whether r may be answered with an HTML page:
// explicit .html paths and extensionless routes, which the asset server
// falls back to index.html for.
func isDocumentRequest(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	switch strings.ToLower(path.Ext(r.URL.Path)) {
	case "", ".html", ".htm":
		return true
	}
	return false
}

// Inject inserts the bootstrap script tag as the first child of <head>, or at
// the start of the document when there is no head element.
func Inject(html []byte) []byte {
	if bytes.Contains(html, scriptTag) {
		return html
	}
	lower := bytes.ToLower(html)
	at := 0
	if i := indexHeadOpen(lower); i >= 0 {
		if end := bytes.IndexByte(lower[i:], '>'); end >= 0 {
			at = i + end + 1
		}
	}

	out := make([]byte, 0, len(html)+len(scriptTag))
	out = append(out, html[:at]...)
	out = append(out, scriptTag...)
	return append(out, html[at:]...)
}

// indexHeadOpen finds "<head" followed by '>' or whitespace, skipping <header>.
func indexHeadOpen(lower []byte) int {
	off := 0
	for {
		i := bytes.Index(lower[off:], []byte("<head"))
		if i < 0 {
			return -1
		}
		i += off
		next := i + len("<head")
		if next < len(lower) {
			switch lower[next] {
			case '>', ' ', '\t', '\n', '\r':
				return i
			}
		}
		off = next
	}
}

type bufferedResponse struct {
	header http.Header
	code   int
	body   bytes.Buffer
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.code == 0 {
		b.code = http.StatusOK
	}
	if b.header.Get("Content-Type") == "" {
		b.header.Set("Content-Type", http.DetectContentType(p))
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) WriteHeader(code int) {
	if b.code == 0 {
		b.code = code
	}
}

func (b *bufferedResponse) status() int {
	if b.code == 0 {
		return http.StatusOK
	}
	return b.code
}
