package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

func NewJwtAuth(creds map[string]*JwtCredential) *JwtAuth {
	ret := &JwtAuth{}
	ret.Creds = make(map[string]*JwtCredential, len(creds))
	for k, v := range creds {
		ret.Creds[k] = v
	}
	return ret
}

type JwtAuth struct {
	Creds map[string]*JwtCredential
}

type JwtCredential struct {
	SecretKey string `yaml:"secret_key"`
	Disabled  bool   `yaml:"disabled"`
}

var errNoToken = errors.New("bearer token required")

func ExtractToken(r *http.Request) string {
	bearToken := r.Header.Get("Authorization")
	//normally Authorization the_token_xxx
	strArr := strings.Split(bearToken, " ")
	if len(strArr) == 2 {
		return strArr[1]
	}
	return ""
}

type JwtToken struct {
	AccessKey string
}

func (me *JwtAuth) ParseToken(r *http.Request) (*JwtToken, error) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return nil, errNoToken
	}
	ret := &JwtToken{}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {

		// Make sure that the token method conform to "SigningMethodHMAC"
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// get access key
		accessKey, ok := token.Header["kid"].(string)
		if ok == false {
			return nil, fmt.Errorf("kid not found")
		}
		log.Tracef("access key %q", accessKey)
		ret.AccessKey = accessKey

		cred, err := me.GetCredential(accessKey)
		if err != nil {
			return nil, err
		}
		return []byte(cred.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}

	log.Tracef("claims %+v", token.Claims)
	return ret, nil
}

// SignToken issues an HS256 token for accessKey. A zero ttl never expires.
func (me *JwtAuth) SignToken(accessKey string, ttl time.Duration) (string, error) {
	cred, err := me.GetCredential(accessKey)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := jwt.StandardClaims{
		IssuedAt: now.Unix(),
		Subject:  accessKey,
	}
	if ttl > 0 {
		claims.ExpiresAt = now.Add(ttl).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = accessKey
	return token.SignedString([]byte(cred.SecretKey))
}
