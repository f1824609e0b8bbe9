package client

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	KeyFormatJWT    = "jwt"
	KeyFormatOpaque = "opaque"
)

// KeyInfo is what can be read from a secret key without contacting the
// backend. The signature is never checked.
type KeyInfo struct {
	Format     string     `json:"format"`
	Role       string     `json:"role,omitempty"`
	ProjectRef string     `json:"project_ref,omitempty"`
	Issuer     string     `json:"issuer,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

func (k KeyInfo) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

func InspectKey(key string) KeyInfo {
	key = strings.TrimSpace(key)

	switch {
	case strings.HasPrefix(key, "sb_publishable_"):
		return KeyInfo{Format: KeyFormatOpaque, Role: "publishable"}
	case strings.HasPrefix(key, "sb_secret_"):
		return KeyInfo{Format: KeyFormatOpaque, Role: "secret"}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return KeyInfo{Format: KeyFormatOpaque}
	}

	info := KeyInfo{Format: KeyFormatJWT}
	if role, ok := claims["role"].(string); ok {
		info.Role = role
	}
	if ref, ok := claims["ref"].(string); ok {
		info.ProjectRef = ref
	}
	if iss, err := claims.GetIssuer(); err == nil {
		info.Issuer = iss
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		info.ExpiresAt = &t
	}
	return info
}
