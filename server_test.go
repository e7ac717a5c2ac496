package main

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const fakeNissy = `
case "$1" in
steps)
	printf 'eofb EO on F/B\noptimal Optimal solve\nlight Optimal, fewer tables\n'
	;;
solve)
	echo "--- Warning ---"
	echo "table nxopt31 not found"
	echo "---------------"
	echo "$3 solved"
	exit 1
	;;
invert)
	exit 1
	;;
print)
	sleep 30
	;;
*)
	echo "$@"
	;;
esac
`

func solverServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig(t)
	cfg.Solver.Path = writeSolver(t, fakeNissy)
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	return srv
}

func postJSON(t *testing.T, url, body string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var ret map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ret))
	return resp.StatusCode, ret
}

func TestServerEndToEnd(t *testing.T) {
	ts := httptest.NewServer(solverServer(t).Handler())
	defer ts.Close()

	status, ret := postJSON(t, ts.URL+"/api/solve", `{"step":"eofb","scramble":"R U F"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "R U F solved", ret["result"])

	status, ret = postJSON(t, ts.URL+"/api/invert", `{"scramble":"R U F"}`)
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, "No solution found", ret["error"])

	status, ret = postJSON(t, ts.URL+"/api/cleanup", `{"scramble":"R R"}`)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "cleanup R R", ret["result"])

	resp, err := http.Get(ts.URL + "/api/steps")
	require.NoError(t, err)
	defer resp.Body.Close()
	var steps StepsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&steps))
	require.Equal(t, []Step{{Id: "eofb", Description: "EO on F/B"}}, steps.Steps)
}

func TestServerConcurrentRequests(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	runner := &fakeRunner{fn: func(ctx context.Context, args []string) (string, error) {
		if args[0] == "solve" {
			close(started)
			select {
			case <-release:
			case <-ctx.Done():
			}
			return "slow", nil
		}
		return "fast", nil
	}}
	srv, err := newServer(testConfig(t), runner)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	slow := make(chan int, 1)
	go func() {
		resp, err := http.Post(ts.URL+"/api/solve", "application/json", strings.NewReader(`{"step":"eo","scramble":"R"}`))
		if err != nil {
			slow <- 0
			return
		}
		resp.Body.Close()
		slow <- resp.StatusCode
	}()
	<-started

	for _, route := range []string{"/api/invert", "/api/print", "/api/unniss"} {
		done := make(chan int, 1)
		go func() {
			resp, err := http.Post(ts.URL+route, "application/json", strings.NewReader(`{"scramble":"R"}`))
			if err != nil {
				done <- 0
				return
			}
			resp.Body.Close()
			done <- resp.StatusCode
		}()
		select {
		case status := <-done:
			require.Equal(t, http.StatusOK, status)
		case <-time.After(5 * time.Second):
			t.Fatalf("%s blocked behind a running solve", route)
		}
	}

	close(release)
	require.Equal(t, http.StatusOK, <-slow)
}

func TestServerStopKillsRunningSolver(t *testing.T) {
	srv := solverServer(t)
	srv.cfg.ShutdownTimeout = 200 * time.Millisecond

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() {
		served <- srv.Serve(l)
	}()

	result := make(chan map[string]interface{}, 1)
	go func() {
		resp, err := http.Post("http://"+l.Addr().String()+"/api/print", "application/json", strings.NewReader(`{"scramble":"R"}`))
		if err != nil {
			result <- nil
			return
		}
		defer resp.Body.Close()
		var ret map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&ret)
		result <- ret
	}()
	// let the request reach the solver
	time.Sleep(300 * time.Millisecond)

	stopped := make(chan error, 1)
	go func() {
		stopped <- srv.Stop(context.Background())
	}()
	select {
	case <-stopped:
	case <-time.After(10 * time.Second):
		t.Fatal("Stop did not return")
	}
	require.NoError(t, <-served)

	select {
	case ret := <-result:
		require.Equal(t, "Process timed out", ret["error"])
	case <-time.After(10 * time.Second):
		t.Fatal("request never finished")
	}
}

func TestServerCheck(t *testing.T) {
	srv := solverServer(t)
	srv.Check(context.Background())
}
