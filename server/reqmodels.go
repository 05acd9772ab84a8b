package server

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/halvardsen/numwb/internal/area"
	"github.com/halvardsen/numwb/internal/minimize"
	"github.com/halvardsen/numwb/internal/problems"
	"github.com/halvardsen/numwb/internal/spline"
	"github.com/halvardsen/numwb/internal/table"
	"github.com/halvardsen/numwb/server/dao"
)

// LoginRequest is the body of a POST /login request: the single static
// credential the server was configured with.
type LoginRequest struct {
	Credential string `json:"credential"`
}

// LoginResponse carries the bearer token to present on subsequent requests.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PresetRequest is the body of a POST or PUT to /presets: a named problem
// kind plus its literal parameter bundle.
type PresetRequest struct {
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Params map[string]any `json:"params"`
}

// PresetModel is the JSON shape a preset is returned in.
type PresetModel struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Params   map[string]any `json:"params"`
	Created  time.Time      `json:"created"`
	Modified time.Time      `json:"modified"`
}

func presetModelFromDAO(p dao.Preset) (PresetModel, error) {
	var params map[string]any
	if len(p.ParamsRaw) > 0 {
		if err := json.Unmarshal(p.ParamsRaw, &params); err != nil {
			return PresetModel{}, err
		}
	}
	return PresetModel{
		ID:       p.ID,
		Name:     p.Name,
		Kind:     p.Kind,
		Params:   params,
		Created:  p.Created,
		Modified: p.Modified,
	}, nil
}

func daoPresetFromRequest(req PresetRequest) (dao.Preset, error) {
	raw, err := json.Marshal(req.Params)
	if err != nil {
		return dao.Preset{}, err
	}
	return dao.Preset{
		Name:      req.Name,
		Kind:      req.Kind,
		ParamsRaw: raw,
	}, nil
}

// SolveRequest is the body of a POST /solves request: either a PresetID
// naming a saved preset to re-run, or an inline Kind/Params pair for an ad
// hoc solve. Exactly one of the two forms must be populated.
type SolveRequest struct {
	PresetID *uuid.UUID     `json:"preset_id,omitempty"`
	Kind     string         `json:"kind,omitempty"`
	Params   map[string]any `json:"params,omitempty"`
}

// SolveModel is the JSON shape a solve record is returned in.
type SolveModel struct {
	ID        uuid.UUID      `json:"id"`
	PresetID  *uuid.UUID     `json:"preset_id,omitempty"`
	Kind      string         `json:"kind"`
	Params    map[string]any `json:"params"`
	Result    any            `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
	Created   time.Time      `json:"created"`
}

func solveModelFromDAO(s dao.Solve) (SolveModel, error) {
	var params map[string]any
	if len(s.ParamsRaw) > 0 {
		if err := json.Unmarshal(s.ParamsRaw, &params); err != nil {
			return SolveModel{}, err
		}
	}
	var result any
	if len(s.ResultRaw) > 0 {
		if err := json.Unmarshal(s.ResultRaw, &result); err != nil {
			return SolveModel{}, err
		}
	}
	return SolveModel{
		ID:       s.ID,
		PresetID: s.PresetID,
		Kind:     s.Kind,
		Params:   params,
		Result:   result,
		Error:    s.ErrorText,
		Created:  s.Created,
	}, nil
}

// resultView converts a dispatched problems.Result into a JSON-friendly
// value — whichever field the Kind populates, flattened into a plain map so
// a client never has to know the internal result type's field layout.
func resultView(res problems.Result) any {
	switch res.Kind {
	case problems.Area:
		t := res.Triangle
		return triangleView(t)
	case problems.Golden, problems.Penalty:
		m := res.Minimum1
		return minimum1View(m)
	case problems.Gradient:
		m := res.MinimumN
		return minimumNView(m)
	case problems.Spline:
		return splineView(res.Spline)
	default:
		return tableView(res.Table)
	}
}

func triangleView(t *area.Triangle) map[string]any {
	if t == nil {
		return nil
	}
	return map[string]any{
		"area": t.Area,
		"ab_x": t.ABx,
		"ac_x": t.ACx,
		"bc_x": t.BCx,
	}
}

func minimum1View(m *minimize.Minimum1) map[string]any {
	if m == nil {
		return nil
	}
	return map[string]any{"x": m.X, "y": m.Y}
}

func minimumNView(m *minimize.MinimumN) map[string]any {
	if m == nil {
		return nil
	}
	return map[string]any{"x": m.X, "y": m.Y}
}

func splineView(s *spline.Spline) map[string]any {
	if s == nil {
		return nil
	}
	return map[string]any{"coefficients": s.Coefficients()}
}

func tableView(t *table.Table) map[string]any {
	if t == nil {
		return nil
	}
	return map[string]any{"samples": t.Samples()}
}
