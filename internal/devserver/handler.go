package devserver

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/content"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

// handleFile answers every path not claimed by another route. Compilable
// outputs are compiled from source on each request; anything else is read
// from the output directory.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rel := s.requestPath(r.URL.Path)
	outDir := s.session.Resolver.OutputDir
	outPath := filepath.Join(outDir, filepath.FromSlash(rel))
	log := s.logger.With(
		logfields.Path(rel),
		logfields.RequestID(middleware.GetReqID(ctx)))

	comp, file := s.lookup(outPath)
	tc := &transform.Context{
		Path:       rel,
		OutputPath: outPath,
		OutputDir:  outDir,
		Mode:       config.ModeServe,
		Compiler:   comp,
		Config:     s.cfg,
		Logger:     log,
	}

	var body transform.Content
	if file != nil {
		start := time.Now()
		out, err := comp.Compile(ctx, file, compiler.Options{Log: log, UseCache: false})
		if err != nil {
			s.errs.WriteTextResponse(w, r, err)
			return
		}
		log.Debug("Compiled",
			logfields.InputPath(file.InputPath),
			logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
		tc.InputPath = file.InputPath
		body = out
	} else {
		data, err := os.ReadFile(outPath)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Debug("Output read failed", logfields.Error(err))
			}
			s.errs.WriteTextResponse(w, r, ferrors.WrapError(kerrors.ErrNotFound, ferrors.CategoryNotFound, rel).Info().Build())
			return
		}
		body = transform.Bytes(data)
	}

	// Serve transforms never fail a response.
	body, _ = transform.RunServe(ctx, s.pipeline, body, tc)
	payload := body.Bytes()

	if tag, err := content.Fingerprint(nil, payload); err == nil && tag != "" {
		etag := strconv.Quote(tag)
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}
	w.Header().Set("Content-Type", contentType(rel, payload))
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// requestPath maps a request URL to its output-relative file, defaulting
// extensionless paths to the page output extension.
func (s *Server) requestPath(urlPath string) string {
	ext := s.cfg.Compilers.Page.OutputExtension
	if ext == "" {
		ext = ".html"
	}
	return asset.URLToOutputRel(urlPath, ext)
}

func contentType(rel string, payload []byte) string {
	if ct := mime.TypeByExtension(path.Ext(rel)); ct != "" {
		return ct
	}
	return http.DetectContentType(payload)
}
