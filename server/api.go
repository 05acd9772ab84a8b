package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/halvardsen/numwb/internal/problems"
	"github.com/halvardsen/numwb/server/dao"
	"github.com/halvardsen/numwb/server/result"
	"golang.org/x/crypto/bcrypt"
)

// API holds all state the HTTP handlers need to service a request: the
// persistence backend, the configured credentials, and timing knobs for
// auth failures.
type API struct {
	Store          dao.Store
	Secret         []byte
	CredentialHash string
	UnauthDelay    time.Duration
}

// EndpointFunc is the shape every handler in this package is written
// against: it receives the parsed request and returns the result.Result
// that should be written out, never writing to the ResponseWriter itself.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint wraps ep into a chi-compatible http.HandlerFunc that writes and
// logs whatever result.Result ep returns, recovering from any panic ep
// raises and converting it to a 500 rather than letting it escape this
// handler (a higher-level recoverer middleware is still installed as a
// second line of defense).
func (a *API) Endpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				r := result.InternalServerError("panic: %v", rec)
				r.WriteResponse(w)
				r.Log(req)
			}
		}()

		r := ep(req)

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(a.UnauthDelay)
		}

		r.WriteResponse(w)
		r.Log(req)
	}
}

func decodeJSONBody(req *http.Request, dst interface{}) error {
	defer req.Body.Close()
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body must not be empty")
		}
		return err
	}
	return nil
}

func uuidParam(req *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(req, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%q is not a valid ID: %w", raw, err)
	}
	return id, nil
}

// HTTPGetInfo handles GET /info.
func (a *API) HTTPGetInfo() http.HandlerFunc {
	return a.Endpoint(a.epGetInfo)
}

func (a *API) epGetInfo(req *http.Request) result.Result {
	return result.OK(map[string]any{
		"kinds": problems.Kinds(),
	})
}

// HTTPPostLogin handles POST /login.
func (a *API) HTTPPostLogin() http.HandlerFunc {
	return a.Endpoint(a.epPostLogin)
}

func (a *API) epPostLogin(req *http.Request) result.Result {
	var login LoginRequest
	if err := decodeJSONBody(req, &login); err != nil {
		return result.BadRequest("malformed login request", err.Error())
	}

	if a.CredentialHash == "" {
		return result.Unauthorized("", "server has no credential configured")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.CredentialHash), []byte(login.Credential)); err != nil {
		return result.Unauthorized("incorrect credential", err.Error())
	}

	expiresAt := time.Now().Add(time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"iss":        "numwbd",
		"exp":        expiresAt.Unix(),
		"authorized": true,
	})

	signed, err := tok.SignedString(a.Secret)
	if err != nil {
		return result.InternalServerError("sign token: %s", err.Error())
	}

	return result.OK(LoginResponse{Token: signed, ExpiresAt: expiresAt})
}

// HTTPGetPresets handles GET /presets.
func (a *API) HTTPGetPresets() http.HandlerFunc {
	return a.Endpoint(a.epGetPresets)
}

func (a *API) epGetPresets(req *http.Request) result.Result {
	presets, err := a.Store.Presets().GetAll(req.Context())
	if err != nil {
		return result.InternalServerError("get all presets: %s", err.Error())
	}

	models := make([]PresetModel, len(presets))
	for i, p := range presets {
		m, err := presetModelFromDAO(p)
		if err != nil {
			return result.InternalServerError("decode preset %s: %s", p.ID, err.Error())
		}
		models[i] = m
	}

	return result.OK(models)
}

// HTTPPostPresets handles POST /presets.
func (a *API) HTTPPostPresets() http.HandlerFunc {
	return a.Endpoint(a.epPostPresets)
}

func (a *API) epPostPresets(req *http.Request) result.Result {
	var reqBody PresetRequest
	if err := decodeJSONBody(req, &reqBody); err != nil {
		return result.BadRequest("malformed preset request", err.Error())
	}

	if reqBody.Name == "" {
		return result.BadRequest("name must not be empty")
	}
	if !problems.Registered(problems.Kind(reqBody.Kind)) {
		return result.BadRequest(fmt.Sprintf("unknown problem kind %q", reqBody.Kind))
	}

	toCreate, err := daoPresetFromRequest(reqBody)
	if err != nil {
		return result.InternalServerError("encode params: %s", err.Error())
	}

	created, err := a.Store.Presets().Create(req.Context(), toCreate)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return result.Conflict(fmt.Sprintf("a preset named %q already exists", reqBody.Name), err.Error())
		}
		return result.InternalServerError("create preset: %s", err.Error())
	}

	model, err := presetModelFromDAO(created)
	if err != nil {
		return result.InternalServerError("decode created preset: %s", err.Error())
	}

	return result.Created(model)
}

// HTTPGetPreset handles GET /presets/{id}.
func (a *API) HTTPGetPreset() http.HandlerFunc {
	return a.Endpoint(a.epGetPreset)
}

func (a *API) epGetPreset(req *http.Request) result.Result {
	id, err := uuidParam(req, "id")
	if err != nil {
		return result.BadRequest(err.Error())
	}

	p, err := a.Store.Presets().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound(err.Error())
		}
		return result.InternalServerError("get preset: %s", err.Error())
	}

	model, err := presetModelFromDAO(p)
	if err != nil {
		return result.InternalServerError("decode preset: %s", err.Error())
	}

	return result.OK(model)
}

// HTTPPutPreset handles PUT /presets/{id}.
func (a *API) HTTPPutPreset() http.HandlerFunc {
	return a.Endpoint(a.epPutPreset)
}

func (a *API) epPutPreset(req *http.Request) result.Result {
	id, err := uuidParam(req, "id")
	if err != nil {
		return result.BadRequest(err.Error())
	}

	var reqBody PresetRequest
	if err := decodeJSONBody(req, &reqBody); err != nil {
		return result.BadRequest("malformed preset request", err.Error())
	}
	if reqBody.Name == "" {
		return result.BadRequest("name must not be empty")
	}
	if !problems.Registered(problems.Kind(reqBody.Kind)) {
		return result.BadRequest(fmt.Sprintf("unknown problem kind %q", reqBody.Kind))
	}

	toUpdate, err := daoPresetFromRequest(reqBody)
	if err != nil {
		return result.InternalServerError("encode params: %s", err.Error())
	}

	updated, err := a.Store.Presets().Update(req.Context(), id, toUpdate)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound(err.Error())
		}
		if errors.Is(err, dao.ErrConstraintViolation) {
			return result.Conflict(fmt.Sprintf("a preset named %q already exists", reqBody.Name), err.Error())
		}
		return result.InternalServerError("update preset: %s", err.Error())
	}

	model, err := presetModelFromDAO(updated)
	if err != nil {
		return result.InternalServerError("decode updated preset: %s", err.Error())
	}

	return result.OK(model)
}

// HTTPDeletePreset handles DELETE /presets/{id}.
func (a *API) HTTPDeletePreset() http.HandlerFunc {
	return a.Endpoint(a.epDeletePreset)
}

func (a *API) epDeletePreset(req *http.Request) result.Result {
	id, err := uuidParam(req, "id")
	if err != nil {
		return result.BadRequest(err.Error())
	}

	_, err = a.Store.Presets().Delete(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound(err.Error())
		}
		return result.InternalServerError("delete preset: %s", err.Error())
	}

	return result.NoContent()
}

// HTTPGetSolves handles GET /solves.
func (a *API) HTTPGetSolves() http.HandlerFunc {
	return a.Endpoint(a.epGetSolves)
}

func (a *API) epGetSolves(req *http.Request) result.Result {
	solves, err := a.Store.Solves().GetAll(req.Context(), nil, nil)
	if err != nil {
		return result.InternalServerError("get all solves: %s", err.Error())
	}

	models := make([]SolveModel, len(solves))
	for i, s := range solves {
		m, err := solveModelFromDAO(s)
		if err != nil {
			return result.InternalServerError("decode solve %s: %s", s.ID, err.Error())
		}
		models[i] = m
	}

	return result.OK(models)
}

// HTTPPostSolves handles POST /solves: dispatches a problem, either named
// by PresetID (loaded from storage) or given inline as Kind/Params, and
// persists the outcome whether it succeeds or fails.
func (a *API) HTTPPostSolves() http.HandlerFunc {
	return a.Endpoint(a.epPostSolves)
}

func (a *API) epPostSolves(req *http.Request) result.Result {
	var reqBody SolveRequest
	if err := decodeJSONBody(req, &reqBody); err != nil {
		return result.BadRequest("malformed solve request", err.Error())
	}

	var kind string
	var params map[string]any
	var presetID *uuid.UUID

	if reqBody.PresetID != nil {
		p, err := a.Store.Presets().GetByID(req.Context(), *reqBody.PresetID)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return result.NotFound(err.Error())
			}
			return result.InternalServerError("get preset: %s", err.Error())
		}
		kind = p.Kind
		if err := json.Unmarshal(p.ParamsRaw, &params); err != nil {
			return result.InternalServerError("decode preset params: %s", err.Error())
		}
		presetID = &p.ID
	} else {
		if reqBody.Kind == "" {
			return result.BadRequest("must provide either preset_id or kind")
		}
		kind = reqBody.Kind
		params = reqBody.Params
	}

	if !problems.Registered(problems.Kind(kind)) {
		return result.BadRequest(fmt.Sprintf("unknown problem kind %q", kind))
	}

	paramsRaw, err := json.Marshal(params)
	if err != nil {
		return result.InternalServerError("encode params: %s", err.Error())
	}

	solve := dao.Solve{
		PresetID:  presetID,
		Kind:      kind,
		ParamsRaw: paramsRaw,
	}

	res, solveErr := problems.Run(problems.Kind(kind), problems.Params(params))
	if solveErr != nil {
		solve.ErrorText = solveErr.Error()
	} else {
		resultRaw, err := json.Marshal(resultView(res))
		if err != nil {
			return result.InternalServerError("encode result: %s", err.Error())
		}
		solve.ResultRaw = resultRaw
	}

	created, err := a.Store.Solves().Create(req.Context(), solve)
	if err != nil {
		return result.InternalServerError("persist solve: %s", err.Error())
	}

	model, err := solveModelFromDAO(created)
	if err != nil {
		return result.InternalServerError("decode created solve: %s", err.Error())
	}

	if solveErr != nil {
		return result.Response(http.StatusUnprocessableEntity, model, "solve failed: %s", solveErr.Error())
	}

	return result.Created(model)
}

// HTTPGetSolve handles GET /solves/{id}.
func (a *API) HTTPGetSolve() http.HandlerFunc {
	return a.Endpoint(a.epGetSolve)
}

func (a *API) epGetSolve(req *http.Request) result.Result {
	id, err := uuidParam(req, "id")
	if err != nil {
		return result.BadRequest(err.Error())
	}

	s, err := a.Store.Solves().GetByID(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound(err.Error())
		}
		return result.InternalServerError("get solve: %s", err.Error())
	}

	model, err := solveModelFromDAO(s)
	if err != nil {
		return result.InternalServerError("decode solve: %s", err.Error())
	}

	return result.OK(model)
}

// HTTPDeleteSolve handles DELETE /solves/{id}.
func (a *API) HTTPDeleteSolve() http.HandlerFunc {
	return a.Endpoint(a.epDeleteSolve)
}

func (a *API) epDeleteSolve(req *http.Request) result.Result {
	id, err := uuidParam(req, "id")
	if err != nil {
		return result.BadRequest(err.Error())
	}

	_, err = a.Store.Solves().Delete(req.Context(), id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return result.NotFound(err.Error())
		}
		return result.InternalServerError("delete solve: %s", err.Error())
	}

	return result.NoContent()
}
