package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/crimson-sun/tenure/internal/audit"
	"github.com/crimson-sun/tenure/internal/model"
	"github.com/crimson-sun/tenure/internal/scorer"
)

// maxBulkRecords caps one bulk request. Larger scoring jobs belong in a
// batch pipeline, not a synchronous HTTP call.
const maxBulkRecords = 1000

// predictRequest is one employee record plus the caller's identifier
// for tagging the response. The identifier never reaches the model.
type predictRequest struct {
	model.Employee
	EmployeeID string `json:"id_employee"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status     string `json:"status"`
	ModelReady bool   `json:"model_ready"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		ModelReady: s.scorer.Ready(),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := decodeStrict(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	payload, _ := json.Marshal(req.Employee)
	if err := s.validate(req.Employee); err != nil {
		s.audit(r.Context(), audit.Record{
			EmployeeID: req.EmployeeID, Input: payload,
			Outcome: audit.OutcomeRejected, Error: err.Error(),
		})
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	pred, err := s.scorer.PredictOne(r.Context(), req.Employee, req.EmployeeID)
	if err != nil {
		s.writePredictError(w, r, err, []string{req.EmployeeID})
		return
	}

	s.audit(r.Context(), audit.Record{
		EmployeeID:   pred.EmployeeID,
		ModelVersion: s.modelVersion(),
		Input:        payload,
		Probability:  pred.Probability,
		Class:        pred.Class,
		Outcome:      audit.OutcomeServed,
	})
	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) handlePredictBulk(w http.ResponseWriter, r *http.Request) {
	var reqs []predictRequest
	if err := decodeStrict(r, &reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(reqs) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty batch"})
		return
	}
	if len(reqs) > maxBulkRecords {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("batch of %d exceeds limit of %d", len(reqs), maxBulkRecords),
		})
		return
	}

	records := make([]model.Employee, len(reqs))
	ids := make([]string, len(reqs))
	payloads := make([]json.RawMessage, len(reqs))
	for i, req := range reqs {
		payloads[i], _ = json.Marshal(req.Employee)
		if err := s.validate(req.Employee); err != nil {
			msg := fmt.Sprintf("record %d: %s", i, err)
			s.audit(r.Context(), audit.Record{
				EmployeeID: req.EmployeeID, Input: payloads[i],
				Outcome: audit.OutcomeRejected, Error: msg,
			})
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
			return
		}
		records[i] = req.Employee
		ids[i] = req.EmployeeID
	}

	preds, err := s.scorer.Predict(r.Context(), records, ids)
	if err != nil {
		s.writePredictError(w, r, err, ids)
		return
	}

	for i, pred := range preds {
		s.audit(r.Context(), audit.Record{
			EmployeeID:   pred.EmployeeID,
			ModelVersion: s.modelVersion(),
			Input:        payloads[i],
			Probability:  pred.Probability,
			Class:        pred.Class,
			Outcome:      audit.OutcomeServed,
		})
	}
	writeJSON(w, http.StatusOK, preds)
}

// writePredictError maps scoring failures to status codes: a missing
// model is 503 so orchestrators retry after training lands an artifact,
// everything else is 500.
func (s *Server) writePredictError(w http.ResponseWriter, r *http.Request, err error, ids []string) {
	outcome := audit.OutcomeRejected
	status := http.StatusInternalServerError
	if errors.Is(err, scorer.ErrModelNotReady) {
		outcome = audit.OutcomeUnavailable
		status = http.StatusServiceUnavailable
	}
	for _, id := range ids {
		s.audit(r.Context(), audit.Record{EmployeeID: id, Outcome: outcome, Error: err.Error()})
	}
	s.logger.Error("prediction failed", "error", err, "records", len(ids))
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// validate rejects values outside the closed sets the schema declares.
// The encoder's unknown-category fallback still exists downstream, but
// a request with an out-of-vocabulary value is a caller mistake and is
// refused at the boundary.
func (s *Server) validate(rec model.Employee) error {
	for col, val := range map[string]string{
		"genre":                 rec.Genre,
		"heure_supplementaires": rec.HeureSupplementaires,
		"frequence_deplacement": rec.FrequenceDeplacement,
		"statut_marital":        rec.StatutMarital,
		"departement":           rec.Departement,
		"poste":                 rec.Poste,
		"domaine_etude":         rec.DomaineEtude,
	} {
		allowed, ok := s.reg.AllowedValues(col)
		if !ok {
			continue
		}
		if !slices.Contains(allowed, val) {
			return fmt.Errorf("%s: value %q not in %v", col, val, allowed)
		}
	}
	return nil
}

func (s *Server) modelVersion() string {
	v, ok := s.scorer.Version()
	if !ok {
		return ""
	}
	return v.String()
}

func decodeStrict(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
