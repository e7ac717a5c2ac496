package main

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrAccessKeyNotFound = errors.New("No such access key")

func (me *JwtAuth) GetCredential(accessKey string) (*JwtCredential, error) {
	cred, found := me.Creds[accessKey]
	if found == false {
		return nil, ErrAccessKeyNotFound
	}
	if cred.Disabled {
		return nil, fmt.Errorf("disabled access key %q", accessKey)
	}
	return cred, nil
}

// Enabled is false when no credentials are configured; the API is then public.
func (me *JwtAuth) Enabled() bool {
	return len(me.Creds) > 0
}

func (me *JwtAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := me.ParseToken(r)
		if err != nil {
			log.Warnf("auth %s %s: %s", r.Method, r.URL.Path, err)
			sendError(w, &AuthError{Err: err})
			return
		}
		FromContext(r.Context()).AppendKV("access_key", tok.AccessKey)
		next.ServeHTTP(w, r)
	})
}
