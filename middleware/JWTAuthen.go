package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"disasterprep/config"
	"disasterprep/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "disasterprep"
	audienceAccess  = "access"
	audienceRefresh = "refresh"

	ctxClaims = "claims"
	ctxUserID = "userId"
	ctxRole   = "role"
	ctxName   = "name"
)

// TokenManager signs and verifies access and refresh tokens.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(cfg config.Auth) *TokenManager {
	refresh := cfg.RefreshSecret
	if refresh == "" {
		refresh = cfg.JWTSecret
	}
	return &TokenManager{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(refresh),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (m *TokenManager) registered(audience string, ttl time.Duration) jwt.RegisteredClaims {
	now := m.now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Audience:  jwt.ClaimStrings{audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func (m *TokenManager) CreateAccessToken(u *model.User) (string, error) {
	claims := &model.AccessClaims{
		UserID:           u.UserID,
		Role:             u.Role,
		Name:             u.Name,
		RegisteredClaims: m.registered(audienceAccess, m.accessTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
}

func (m *TokenManager) CreateRefreshToken(userID uint) (string, error) {
	claims := &model.RefreshClaims{
		UserID:           userID,
		RegisteredClaims: m.registered(audienceRefresh, m.refreshTTL),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

func (m *TokenManager) parse(tokenString string, claims jwt.Claims, secret []byte, audience string) error {
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	return err
}

func (m *TokenManager) ParseAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := m.parse(tokenString, claims, m.accessSecret, audienceAccess); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token has no userId")
	}
	return claims, nil
}

func (m *TokenManager) ParseRefreshToken(tokenString string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := m.parse(tokenString, claims, m.refreshSecret, audienceRefresh); err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token has no userId")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.Request.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func (m *TokenManager) AccessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}

		claims, err := m.ParseAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is expired or invalid: " + err.Error()})
			return
		}

		c.Set(ctxClaims, claims)
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxName, claims.Name)
		c.Next()
	}
}

// OptionalAccessTokenMiddleware identifies the caller when a bearer token
// is sent and lets anonymous requests through. A token that fails to
// verify is still rejected.
func (m *TokenManager) OptionalAccessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Header.Get("Authorization") == "" {
			c.Next()
			return
		}
		m.AccessTokenMiddleware()(c)
	}
}

func (m *TokenManager) RefreshTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Refresh token is missing"})
			return
		}

		claims, err := m.ParseRefreshToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token: " + err.Error()})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Next()
	}
}

// RoleMiddleware admits callers holding one of roles. It must run after
// AccessTokenMiddleware.
func RoleMiddleware(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get(ctxRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}
		role, _ := v.(model.Role)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}

// UserID returns the authenticated caller's id; zero when unauthenticated.
func UserID(c *gin.Context) uint {
	id, _ := c.Get(ctxUserID)
	u, _ := id.(uint)
	return u
}

// UserKey is the caller's id in the string form used by document references.
func UserKey(c *gin.Context) string {
	return strconv.FormatUint(uint64(UserID(c)), 10)
}

func Role(c *gin.Context) model.Role {
	v, _ := c.Get(ctxRole)
	r, _ := v.(model.Role)
	return r
}

func UserName(c *gin.Context) string {
	return c.GetString(ctxName)
}

// HasRole reports whether the caller holds one of roles.
func HasRole(c *gin.Context, roles ...model.Role) bool {
	r := Role(c)
	for _, want := range roles {
		if r == want {
			return true
		}
	}
	return false
}
