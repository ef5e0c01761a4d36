package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shyptr/serlo-gateway/errors"
)

// Audience is the audience every token must be issued for.
const Audience = "api.serlo.org"

// Authenticator verifies the Authorization header
//
//	Serlo Service=<service token>[;User=<user token>]
//
// Service tokens are HS256 tokens issued by the service itself and signed with its secret. User
// tokens are issued by serlo.org, signed with the user secret and name the user as subject.
type Authenticator struct {
	secrets    map[Service][]byte
	userSecret []byte
	leeway     time.Duration
}

func NewAuthenticator(secrets map[Service]string, userSecret string) *Authenticator {
	a := &Authenticator{secrets: map[Service][]byte{}, userSecret: []byte(userSecret), leeway: 5 * time.Second}
	for service, secret := range secrets {
		a.secrets[service] = []byte(secret)
	}
	return a
}

// Authenticate returns the identity described by header. An empty header is an anonymous
// request and yields a nil identity.
func (a *Authenticator) Authenticate(header string) (*Identity, error) {
	if header == "" {
		return nil, nil
	}
	tokens, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	serviceToken, ok := tokens["Service"]
	if !ok {
		return nil, errors.Unauthenticated("missing service token")
	}
	service, err := a.verifyService(serviceToken)
	if err != nil {
		return nil, err
	}
	identity := &Identity{Service: service}
	if userToken, ok := tokens["User"]; ok {
		userID, err := a.verifyUser(userToken)
		if err != nil {
			return nil, err
		}
		identity.UserID = &userID
	}
	return identity, nil
}

func parseHeader(header string) (map[string]string, error) {
	scheme, credentials, ok := strings.Cut(header, " ")
	if !ok || scheme != "Serlo" {
		return nil, errors.Unauthenticated("invalid authorization header")
	}
	tokens := map[string]string{}
	for _, part := range strings.Split(credentials, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || value == "" {
			return nil, errors.Unauthenticated("invalid authorization header")
		}
		tokens[key] = value
	}
	return tokens, nil
}

func (a *Authenticator) parser(issuer string) *jwt.Parser {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(Audience),
		jwt.WithLeeway(a.leeway),
	}
	if issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	return jwt.NewParser(options...)
}

func (a *Authenticator) verifyService(token string) (Service, error) {
	var claims jwt.RegisteredClaims
	_, err := a.parser("").ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		issuer, err := token.Claims.GetIssuer()
		if err != nil {
			return nil, err
		}
		secret, ok := a.secrets[Service(issuer)]
		if !ok {
			return nil, fmt.Errorf("unknown service %q", issuer)
		}
		return secret, nil
	})
	if err != nil {
		return "", &errors.CodedError{Code: errors.CodeUnauthenticated, Message: "invalid service token", Err: err}
	}
	return Service(claims.Issuer), nil
}

func (a *Authenticator) verifyUser(token string) (int, error) {
	var claims jwt.RegisteredClaims
	_, err := a.parser(string(ServiceSerlo)).ParseWithClaims(token, &claims, func(token *jwt.Token) (interface{}, error) {
		return a.userSecret, nil
	})
	if err != nil {
		return 0, &errors.CodedError{Code: errors.CodeUnauthenticated, Message: "invalid user token", Err: err}
	}
	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, errors.Unauthenticated("invalid user id %q", claims.Subject)
	}
	return userID, nil
}
