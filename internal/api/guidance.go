package api

import (
	"encoding/json"
	"net/http"

	"missile-guidance/internal/geometry/vector"
	"missile-guidance/internal/guidance"
)

type vec = vector.Vec3[float64]

type closingRequest struct {
	Target guidance.Target[float64] `json:"target"`
}

type ipnRequest struct {
	Target             guidance.Target[float64] `json:"target"`
	NavigationConstant float64                  `json:"navigationConstant"`
}

type aimRequest struct {
	Target guidance.Target[float64] `json:"target"`
	Speed  float64                  `json:"speed"`
}

type steerRequest struct {
	Target          guidance.Target[float64] `json:"target"`
	CurrentVelocity vec                      `json:"currentVelocity"`
	AverageSpeed    float64                  `json:"averageSpeed"`
}

// solutionResponse carries ok=false with no other fields when there is no
// intercept.
type solutionResponse struct {
	OK        bool     `json:"ok"`
	Direction *vec     `json:"direction,omitempty"`
	Delta     *vec     `json:"delta,omitempty"`
	Time      *float64 `json:"time,omitempty"`
}

// decodePost answers non-POST and undecodable requests itself.
func decodePost(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) closing(w http.ResponseWriter, r *http.Request) {
	var req closingRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, map[string]any{
		"closing":      req.Target.IsClosing(),
		"missDistance": req.Target.MissDistance(),
	})
}

func (s *Server) ipn(w http.ResponseWriter, r *http.Request) {
	req := ipnRequest{NavigationConstant: 3}
	if !decodePost(w, r, &req) {
		return
	}
	// IPN is only defined for a closing target off the origin
	if !req.Target.IsClosing() {
		writeJSONStatus(w, http.StatusUnprocessableEntity, map[string]string{"error": "target is not closing"})
		return
	}
	if req.Target.Position.IsZero() {
		writeJSONStatus(w, http.StatusUnprocessableEntity, map[string]string{"error": "target is at zero range"})
		return
	}
	acc := guidance.IPN(req.NavigationConstant, req.Target)
	s.metrics.RecordSolution("ipn", true)
	writeJSON(w, map[string]any{"acceleration": acc})
}

func (s *Server) aim(w http.ResponseWriter, r *http.Request) {
	var req aimRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.Speed < 0 {
		http.Error(w, "speed must not be negative", http.StatusBadRequest)
		return
	}
	sol := guidance.Aim(req.Target, req.Speed)
	s.metrics.RecordSolution("aim", sol != nil)
	if sol == nil {
		writeJSON(w, solutionResponse{})
		return
	}
	writeJSON(w, solutionResponse{OK: true, Direction: &sol.Vector, Time: &sol.Time})
}

func (s *Server) steer(w http.ResponseWriter, r *http.Request) {
	var req steerRequest
	if !decodePost(w, r, &req) {
		return
	}
	if req.AverageSpeed < 0 {
		http.Error(w, "averageSpeed must not be negative", http.StatusBadRequest)
		return
	}
	sol := guidance.Steer(req.Target, req.CurrentVelocity, req.AverageSpeed)
	s.metrics.RecordSolution("steer", sol != nil)
	if sol == nil {
		writeJSON(w, solutionResponse{})
		return
	}
	writeJSON(w, solutionResponse{OK: true, Delta: &sol.Vector, Time: &sol.Time})
}
