// Package pages serves the shell's reserved pages (crash notice, load error
// and phishing warning) on a loopback HTTP origin.
package pages

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bnema/tabshell/internal/domain/neterr"
	domainurl "github.com/bnema/tabshell/internal/domain/url"
	"github.com/bnema/tabshell/internal/logging"
)

const shutdownTimeout = 2 * time.Second

//go:embed templates/page.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/page.html"))

type pageData struct {
	Kind        string
	Title       string
	Heading     string
	Message     string
	Code        string
	URL         string
	ActionURL   string
	ActionLabel string
	Back        bool
}

// Server serves the reserved pages.
type Server struct {
	addr string

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a server for addr; port 0 picks a free port on Listen.
func NewServer(addr string) *Server {
	return &Server{addr: addr}
}

// Listen binds the listening socket. Origin is valid afterwards.
func (s *Server) Listen(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen for internal pages on %s: %w", s.addr, err)
	}
	s.listener = ln
	logging.FromContext(ctx).Debug().Str("origin", s.originLocked()).Msg("internal pages listening")
	return nil
}

// Origin returns "http://host:port", or "" before Listen.
func (s *Server) Origin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.originLocked()
}

func (s *Server) originLocked() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Serve serves requests until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("internal pages: Serve called before Listen")
	}

	server := &http.Server{
		Handler:           Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler routes the reserved page paths.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+domainurl.CrashPath, handleCrash)
	mux.HandleFunc("GET "+domainurl.ErrorPath, handleError)
	mux.HandleFunc("GET "+domainurl.PhishingPath, handlePhishing)
	return mux
}

func handleCrash(w http.ResponseWriter, r *http.Request) {
	original := r.URL.Query().Get("url")
	data := pageData{
		Kind:    "crash",
		Title:   "Page crashed",
		Heading: "This page crashed",
		Message: "The page stopped working. Reloading usually fixes it.",
		URL:     original,
	}
	if original != "" {
		data.ActionURL = original
		data.ActionLabel = "Reload"
	}
	render(w, r, data)
}

func handleError(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	failed := query.Get("url")
	code, err := strconv.Atoi(query.Get("ec"))
	if err != nil {
		code = -2
	}

	data := pageData{
		Kind:    "error",
		Title:   "Problem loading page",
		Heading: "This page could not be loaded",
		Message: neterr.Describe(code),
		Code:    neterr.Name(code),
		URL:     failed,
	}
	if data.Code == "" {
		data.Code = "Error " + strconv.Itoa(code)
	}
	if failed != "" {
		data.ActionURL = failed
		data.ActionLabel = "Try again"
	}
	render(w, r, data)
}

func handlePhishing(w http.ResponseWriter, r *http.Request) {
	render(w, r, pageData{
		Kind:    "warning",
		Title:   "Deceptive site",
		Heading: "This site may be trying to trick you",
		Message: "It looks like a phishing page that could steal your passwords or other personal information.",
		URL:     r.URL.Query().Get("url"),
		Back:    true,
	})
}

func render(w http.ResponseWriter, r *http.Request, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplate.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Str("page", data.Kind).Msg("failed to render internal page")
	}
}
