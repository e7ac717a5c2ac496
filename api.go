package main

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/alessio/shellescape"
)

// bodies are a handful of short fields
const maxBodyBytes = 1 << 20

// ApiHandler serves /api/*. It holds no per-request state.
type ApiHandler struct {
	runner Runner
	skip   map[string]bool
}

func NewApiHandler(runner Runner, skipSteps []string) *ApiHandler {
	skip := make(map[string]bool, len(skipSteps))
	for _, id := range skipSteps {
		skip[id] = true
	}
	return &ApiHandler{runner: runner, skip: skip}
}

type ResultResponse struct {
	Result string `json:"result"`
}

type StepsResponse struct {
	Steps []Step `json:"steps"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type apiFunc func(r *http.Request, body *MapVals) (interface{}, error)

// post reads the JSON body before handing off to fn, so a malformed body
// fails the request before any field is looked at.
func (me *ApiHandler) post(fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buf, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Debugf("read body %s: %s", r.URL.Path, err)
			sendError(w, ErrInvalidJSON)
			return
		}
		body, err := NewMapVals(buf)
		if err != nil {
			sendError(w, err)
			return
		}
		ret, err := fn(r, body)
		if err != nil {
			FromContext(r.Context()).AppendKV("error", strconv.Quote(err.Error()))
			sendError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ret)
	}
}

func (me *ApiHandler) run(r *http.Request, args ...string) (string, error) {
	FromContext(r.Context()).AppendKV("cmd", strconv.Quote(shellescape.QuoteCommand(args)))
	return me.runner.Run(r.Context(), args...)
}

func (me *ApiHandler) handleSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := me.ListSteps(r)
	if err != nil {
		sendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &StepsResponse{Steps: steps})
}

func (me *ApiHandler) ListSteps(r *http.Request) ([]Step, error) {
	out, err := me.run(r, "steps")
	if err != nil {
		return nil, err
	}
	return ParseSteps(out, me.skip), nil
}

func (me *ApiHandler) handleSolve(r *http.Request, body *MapVals) (interface{}, error) {
	step, err := body.String("step")
	if err != nil {
		return nil, err
	}
	scramble, err := body.String("scramble")
	if err != nil {
		return nil, err
	}
	if step == "" || scramble == "" {
		return nil, &MissingFieldError{Fields: []string{"step", "scramble"}}
	}

	args := []string{"solve", step}
	if body.Truthy("options") {
		opts, err := body.String("options")
		if err != nil {
			return nil, err
		}
		args = append(args, strings.Fields(opts)...)
	}
	args = append(args, scramble)
	return me.result(r, args...)
}

func (me *ApiHandler) handleScramble(r *http.Request, body *MapVals) (interface{}, error) {
	args := []string{"scramble"}
	if body.Truthy("type") {
		typ, err := body.String("type")
		if err != nil {
			return nil, err
		}
		if typ != "" {
			args = append(args, typ)
		}
	}
	if body.Truthy("count") {
		args = append(args, "-n", strconv.Itoa(body.Int("count", 1)))
	}
	return me.result(r, args...)
}

// scrambleCommand handles the routes that take a single scramble argument.
func (me *ApiHandler) scrambleCommand(name string) apiFunc {
	return func(r *http.Request, body *MapVals) (interface{}, error) {
		scramble, err := body.String("scramble")
		if err != nil {
			return nil, err
		}
		if scramble == "" {
			return nil, &MissingFieldError{Fields: []string{"scramble"}}
		}
		return me.result(r, name, scramble)
	}
}

func (me *ApiHandler) result(r *http.Request, args ...string) (interface{}, error) {
	out, err := me.run(r, args...)
	if err != nil {
		return nil, err
	}
	return &ResultResponse{Result: out}, nil
}

func (me *ApiHandler) notFound(w http.ResponseWriter, r *http.Request) {
	sendError(w, ErrNotFound)
}

func (me *ApiHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	sendError(w, ErrMethodNotAllowed)
}

func sendError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), &ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("write response: %s", err)
	}
}
