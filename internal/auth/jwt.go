package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// Validator verifies bearer tokens issued by the app's auth layer and
// extracts the subject user id. Token issuance is out of scope here.
type Validator struct {
	alg    string
	pubKey *rsa.PublicKey
	secret []byte
}

func NewValidator(alg, secret, pubKeyPath string) (*Validator, error) {
	v := &Validator{alg: alg}
	switch alg {
	case "RS256":
		b, err := os.ReadFile(pubKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read pubkey: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(b)
		if err != nil {
			return nil, fmt.Errorf("parse pubkey: %w", err)
		}
		v.pubKey = key
	case "HS256":
		if secret == "" {
			return nil, errors.New("hs256 secret required")
		}
		v.secret = []byte(secret)
	default:
		return nil, fmt.Errorf("unsupported jwt alg %q", alg)
	}
	return v, nil
}

// Validate returns the subject (user id) of a valid token.
func (v *Validator) Validate(token string) (string, error) {
	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != v.alg {
			return nil, errors.New("unexpected signing method")
		}
		if v.alg == "RS256" {
			return v.pubKey, nil
		}
		return v.secret, nil
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{v.alg}))
	tok, err := parser.Parse(token, keyFunc)
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return "", errors.New("invalid token")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", errors.New("sub missing")
	}
	return sub, nil
}
