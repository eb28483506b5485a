package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// handleGetVocabulary resolves vocabulary block references. IDs with no
// matching record come back as placeholder entries ("ID: {id}") instead of
// failing the lookup.
func (s *Server) handleGetVocabulary(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		s.jsonError(w, http.StatusBadRequest, "ids query parameter is required", nil)
		return
	}

	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			s.jsonError(w, http.StatusBadRequest, fmt.Sprintf("invalid id %q", part), nil)
			return
		}
		ids = append(ids, id)
	}

	found, err := s.vocab.GetByIDs(r.Context(), ids)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, "failed to load vocabulary", err)
		return
	}

	entries := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		if v, ok := found[id]; ok {
			entries = append(entries, map[string]interface{}{
				"id":      v.ID,
				"german":  v.German,
				"english": v.English,
				"plural":  v.Plural,
				"audio":   v.Audio,
			})
			continue
		}
		entries = append(entries, map[string]interface{}{
			"id":      id,
			"missing": true,
			"label":   fmt.Sprintf("ID: %d", id),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
