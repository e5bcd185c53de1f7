package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"

	"mesh-normalizer/internal/format"
	"mesh-normalizer/internal/logging"
	"mesh-normalizer/internal/mesh"
	"mesh-normalizer/internal/postprocess"
	"mesh-normalizer/internal/raster"
	"mesh-normalizer/internal/stl"
)

// normalizeResponse summarizes one parsed mesh.
type normalizeResponse struct {
	ID        string `json:"id"`
	Format    string `json:"format"`
	Vertices  int    `json:"vertices"`
	Triangles int    `json:"triangles"`
	Indexed   bool   `json:"indexed"`
	HasUVs    bool   `json:"has_uvs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// parseUpload reads the "mesh" multipart file and runs the pipeline.
// One AttemptState per upload: each request is one logical file-load.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (*mesh.Buffer, string, bool) {
	log := logging.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return nil, "", false
	}

	file, header, err := r.FormFile("mesh")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing multipart file field \"mesh\"")
		return nil, "", false
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading upload failed")
		return nil, "", false
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	var attempts stl.AttemptState
	buf, err := s.loader.Load(r.Context(), raw, ext, &attempts)
	if err != nil {
		log.Warn("parse failed", "filename", header.Filename, "bytes", len(raw), "error", err)
		writeError(w, statusForParseError(err), err.Error())
		return nil, "", false
	}

	log.Info("parsed mesh",
		"filename", header.Filename,
		"format", ext,
		"vertices", buf.VertexCount(),
		"triangles", buf.TriangleCount(),
	)
	return buf, ext, true
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	buf, ext, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, normalizeResponse{
		ID:        uuid.NewString(),
		Format:    ext,
		Vertices:  buf.VertexCount(),
		Triangles: buf.TriangleCount(),
		Indexed:   buf.Indices != nil,
		HasUVs:    len(buf.UVs) > 0,
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	buf, _, ok := s.parseUpload(w, r)
	if !ok {
		return
	}

	img := raster.Render(buf, raster.Options{
		Size:        s.opts.RenderSize,
		Supersample: s.opts.Supersample,
		YawDeg:      45,
		PitchDeg:    -30,
	})
	if s.opts.Supersample > 1 {
		img = postprocess.Downsample(img, s.opts.RenderSize)
	}

	w.Header().Set("Content-Type", "image/webp")
	if err := nativewebp.Encode(w, img, nil); err != nil {
		logging.FromContext(r.Context()).Error("webp encode failed", "error", err)
	}
}

func statusForParseError(err error) int {
	switch {
	case errors.Is(err, format.ErrUnsupportedExtension):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, format.ErrInputTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, format.ErrUnrecognizedStl),
		errors.Is(err, format.ErrMalformedRecord):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
