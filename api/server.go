// Package api serves the taxonomy tables and the recording store over
// HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/omega-data/perception.report/internal/config"
	"github.com/omega-data/perception.report/internal/perception"
	"github.com/omega-data/perception.report/internal/perception/store"
)

type Server struct {
	db  *store.Store
	cfg *config.ServerConfig
}

func NewServer(db *store.Store, cfg *config.ServerConfig) *Server {
	if cfg == nil {
		cfg = config.EmptyServerConfig()
	}
	return &Server{db: db, cfg: cfg}
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/taxonomy", s.handleTaxonomy)
	mux.HandleFunc("/api/taxonomy/", s.handleTaxonomyKind)
	mux.HandleFunc("/api/recordings", s.handleRecordings)
	mux.HandleFunc("/api/recordings/", s.handleRecordingObjects)
	mux.HandleFunc("/report/classes", s.handleClassReport)
	mux.HandleFunc("/", s.handleHome)
	return mux
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	w.Write([]byte("perception recording server (format " + perception.FormatVersion + ")\n"))
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// taxonomyResponse is the wire shape of the full taxonomy dump.
type taxonomyResponse struct {
	FormatVersion string                         `json:"format_version"`
	Enums         map[string][]perception.Member `json:"enums"`
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	resp := taxonomyResponse{
		FormatVersion: perception.FormatVersion,
		Enums:         make(map[string][]perception.Member, len(perception.Kinds())),
	}
	for _, kind := range perception.Kinds() {
		members, err := perception.Members(kind)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.Enums[string(kind)] = members
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleTaxonomyKind(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	kind := perception.Kind(strings.TrimPrefix(r.URL.Path, "/api/taxonomy/"))
	members, err := perception.Members(kind)
	if err != nil {
		var uk *perception.UnknownKindError
		if errors.As(err, &uk) {
			s.writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, map[string]any{
		"format_version": perception.FormatVersion,
		"kind":           string(kind),
		"members":        members,
	})
}

// recordingJSON is the wire shape of one recording row.
type recordingJSON struct {
	ID               string `json:"id"`
	FormatVersion    string `json:"format_version"`
	SensorModality   string `json:"sensor_modality"`
	CreatedUnixNanos int64  `json:"created_unix_nanos"`
	Notes            string `json:"notes,omitempty"`
}

func (s *Server) handleRecordings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	recs, err := s.db.ListRecordings()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "failed to list recordings: "+err.Error())
		return
	}

	out := make([]recordingJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordingJSON{
			ID:               rec.ID,
			FormatVersion:    rec.FormatVersion,
			SensorModality:   rec.Modality.String(),
			CreatedUnixNanos: rec.CreatedUnixNanos,
			Notes:            rec.Notes,
		})
	}
	s.writeJSON(w, out)
}

// objectSummaryJSON is the wire shape of one object roll-up.
type objectSummaryJSON struct {
	ID          string  `json:"id"`
	SampleCount int     `json:"sample_count"`
	Class       string  `json:"class"`
	ClassCode   int     `json:"class_code"`
	Confidence  float64 `json:"confidence"`
}

// handleRecordingObjects serves /api/recordings/{id}/objects.
func (s *Server) handleRecordingObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/recordings/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || sub != "objects" {
		s.writeJSONError(w, http.StatusNotFound, "not found")
		return
	}

	if _, err := s.db.GetRecording(id); err != nil {
		var ve *perception.VersionError
		if errors.As(err, &ve) {
			s.writeJSONError(w, http.StatusConflict, err.Error())
			return
		}
		s.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	sums, err := s.db.ObjectSummaries(id)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load objects: "+err.Error())
		return
	}

	out := make([]objectSummaryJSON, 0, len(sums))
	for _, sum := range sums {
		out = append(out, objectSummaryJSON{
			ID:          sum.ObjectID,
			SampleCount: sum.SampleCount,
			Class:       sum.Class.String(),
			ClassCode:   int(sum.Class),
			Confidence:  sum.Confidence,
		})
	}
	s.writeJSON(w, out)
}
