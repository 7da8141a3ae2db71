package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"quiz-platform/internal/app"
	"quiz-platform/internal/domain"
)

type principalKey struct{}

// Authenticator turns bearer tokens into domain users.
// Tokens only carry the user ID; the role always comes from the directory.
type Authenticator struct {
	secret []byte
	users  app.UserRepository
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthenticator(secret string, users app.UserRepository, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), users: users, ttl: ttl, now: time.Now}
}

// IssueToken signs an HS256 token whose subject is the user ID.
func (a *Authenticator) IssueToken(user domain.User) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Authenticate validates a token and resolves its subject.
func (a *Authenticator) Authenticate(ctx context.Context, raw string) (domain.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return domain.User{}, err
	}
	if claims.Subject == "" {
		return domain.User{}, errors.New("token has no subject")
	}
	return a.users.GetUser(ctx, claims.Subject)
}

// Middleware requires a valid bearer token. Websocket clients may pass it as ?access_token=.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		user, err := a.Authenticate(r.Context(), raw)
		if errors.Is(err, domain.ErrUserNotFound) {
			writeMessage(w, http.StatusUnauthorized, "unknown principal")
			return
		}
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, user)))
	})
}

// RequireRole rejects principals without the given role.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := principalFrom(r.Context())
			if !ok || user.Role != role {
				writeMessage(w, http.StatusForbidden, "requires role "+string(role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principalFrom(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(principalKey{}).(domain.User)
	return user, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("access_token")
}
