package system

import (
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/crewjam/csp"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// APIPrefix marks paths that never fall back to the single-page app.
const APIPrefix = "/api"

const msgAPINotFound = "API endpoint not found"

func (s *System) SetCSPHeader(w http.ResponseWriter) {
	val := csp.Header{
		DefaultSrc: []string{"'self'"},
	}.String()
	w.Header().Set("Content-Security-Policy", val)
}

// SPAHandler answers everything no route matched. Unknown API paths get a JSON
// 404, existing files under the public dir are served as-is, and every other
// path gets index.html so the front end can route on the client.
func (s *System) SPAHandler(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, APIPrefix) {
		s.serveJsonError(w, msgAPINotFound, http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "bad method", http.StatusMethodNotAllowed)
		return
	}

	// path.Clean on a rooted path can't climb out of the public dir
	name := filepath.Join(s.config.Meta.PathPublic, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
	if fi, err := os.Stat(name); err == nil && fi.Mode().IsRegular() && fi.Name() != "index.html" {
		s.StaticHandler(w, r, name)
		return
	}
	s.serveIndex(w, r)
}

func (s *System) StaticHandler(w http.ResponseWriter, r *http.Request, filename string) {
	w.Header().Set("Expires", time.Now().Add(time.Hour*24).UTC().Truncate(time.Second).Format(http.TimeFormat))
	http.ServeFile(w, r, filename)
}

func (s *System) serveIndex(w http.ResponseWriter, r *http.Request) {
	f, err := os.Open(filepath.Join(s.config.Meta.PathPublic, "index.html"))
	if err != nil {
		s.log.Error("error opening index.html", zap.Error(err))
		http.NotFound(w, r)
		return
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		s.log.Error("error reading index.html", zap.Error(err))
		http.NotFound(w, r)
		return
	}
	s.SetCSPHeader(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", fi.ModTime(), f)
}

// RequestLogger logs one line per request once it has been served.
func (s *System) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info("HTTP Request",
			zap.String("host", r.Host),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("remoteAddr", getip(r)),
			zap.String("forwardedFor", r.Header.Get("X-Forwarded-For")),
			zap.String("userAgent", r.UserAgent()),
		)
	})
}

// Recoverer turns a handler panic into a JSON 500 and keeps the process alive.
func (s *System) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}
			s.log.Error("panic serving request",
				zap.Any("panic", rvr),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.ByteString("stack", debug.Stack()),
			)
			s.serveJsonError(w, "Internal server error", http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

// getip returns the client address without its port. With Meta.TrustProxy the
// RealIP middleware has already swapped in X-Forwarded-For / X-Real-IP.
func getip(r *http.Request) string {
	ipaddr, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ipaddr
}
