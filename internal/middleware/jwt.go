package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"route_dispatch/internal/apperr"
	"route_dispatch/internal/models"
)

const (
	KindAdmin = "admin"
	KindUser  = "user"

	adminKey = "admin"
	userKey  = "user"

	issuer = "route-dispatch"
)

// Claims carries the token subject (an admin or user id) and which of the
// two it is.
type Claims struct {
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 tokens with one secret and TTL.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate returns a signed token for subject id and its expiry time.
func (t *TokenIssuer) Generate(kind string, id uint) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id), 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies the token and returns its kind and subject id.
func (t *TokenIssuer) Parse(tokenString string) (string, uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", 0, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", 0, errors.New("invalid token claims")
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return "", 0, errors.New("invalid token subject")
	}
	return claims.Kind, uint(id), nil
}

// AdminLookup resolves the admin a token was issued to.
type AdminLookup interface {
	Authenticate(ctx context.Context, id uint) (*models.Admin, error)
}

// UserLookup resolves the user a token was issued to.
type UserLookup interface {
	Authenticate(ctx context.Context, id uint) (*models.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// abort writes the failure envelope. It matches the one the controllers
// render.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"errors":  gin.H{},
		"message": message,
	})
}

func abortWith(c *gin.Context, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		abort(c, ae.Kind.Status(), ae.Message)
		return
	}
	logrus.WithError(err).Error("auth: lookup failed")
	abort(c, http.StatusInternalServerError, "Internal server error")
}

// subject verifies the bearer token and checks it was issued for kind.
func (t *TokenIssuer) subject(c *gin.Context, kind string) (uint, bool) {
	raw, ok := bearerToken(c)
	if !ok {
		abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return 0, false
	}
	gotKind, id, err := t.Parse(raw)
	if err != nil {
		logrus.WithError(err).Debug("auth: token rejected")
		abort(c, http.StatusUnauthorized, "Invalid or expired token")
		return 0, false
	}
	if gotKind != kind {
		abort(c, http.StatusUnauthorized, "Invalid or expired token")
		return 0, false
	}
	return id, true
}

// RequireAdmin admits requests carrying an admin token whose admin still
// exists, and stores that admin in the context.
func RequireAdmin(t *TokenIssuer, admins AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := t.subject(c, KindAdmin)
		if !ok {
			return
		}
		admin, err := admins.Authenticate(c.Request.Context(), id)
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(adminKey, admin)
		c.Next()
	}
}

// RequireSuperAdmin must run after RequireAdmin.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin, ok := CurrentAdmin(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !admin.IsSuperAdmin() {
			abort(c, http.StatusForbidden, "Super admin access required")
			return
		}
		c.Next()
	}
}

// RequireUser admits requests carrying a user token for a user that is not
// deleted.
func RequireUser(t *TokenIssuer, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := t.subject(c, KindUser)
		if !ok {
			return
		}
		user, err := users.Authenticate(c.Request.Context(), id)
		if err != nil {
			abortWith(c, err)
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

func CurrentAdmin(c *gin.Context) (*models.Admin, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	return admin, ok
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
