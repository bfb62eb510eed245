// Package session turns request cookies into an identity and a role,
// rotating tokens and announcing session changes on a Broker.
package session

import (
	"context"
	"net/http"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/logger"
	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/utils"
)

const (
	AccessCookieName  = "motocrm_access"
	RefreshCookieName = "motocrm_refresh"
)

// Identity is the signed-in user as far as the session layer knows.
type Identity struct {
	UserID string
}

// Resolution is the outcome of reading a request's cookies. SetCookies
// must be written to the response whatever else happens.
type Resolution struct {
	Identity   *Identity
	Role       model.Role
	SetCookies []*http.Cookie
}

func (r Resolution) SignedIn() bool { return r.Identity != nil }

// ProfileSource looks up, or lazily creates, the profile that carries
// a user's role.
type ProfileSource interface {
	Ensure(ctx context.Context, userID string) (*model.Profile, error)
}

type CookieOptions struct {
	Secure bool
	Domain string
}

type Manager struct {
	tokens   *utils.JWTUtil
	profiles ProfileSource
	broker   *Broker
	cookies  CookieOptions
	now      func() time.Time
}

func NewManager(tokens *utils.JWTUtil, profiles ProfileSource, broker *Broker, cookies CookieOptions) *Manager {
	return &Manager{
		tokens:   tokens,
		profiles: profiles,
		broker:   broker,
		cookies:  cookies,
		now:      time.Now,
	}
}

// Resolve never fails. Bad or missing tokens give an anonymous
// resolution; a profile that cannot be read gives RoleUnknown.
func (m *Manager) Resolve(ctx context.Context, cookies []*http.Cookie) Resolution {
	access, refresh := findCookie(cookies, AccessCookieName), findCookie(cookies, RefreshCookieName)

	res := Resolution{Role: model.RoleUnknown}

	if access != "" {
		if claims, err := m.tokens.ValidateAccessToken(access); err == nil {
			res.Identity = &Identity{UserID: claims.UserID}
		}
	}

	if res.Identity == nil && refresh != "" {
		if claims, err := m.tokens.ValidateRefreshToken(refresh); err == nil {
			rotated, err := m.issue(claims.UserID)
			if err != nil {
				logger.WithService("session").WithError(err).Error("Failed to rotate session tokens")
			} else {
				res.Identity = &Identity{UserID: claims.UserID}
				res.SetCookies = rotated
				m.publish(EventTokenRefreshed, claims.UserID)
			}
		}
	}

	if res.Identity == nil {
		if access != "" || refresh != "" {
			res.SetCookies = m.clearCookies()
		}
		return res
	}

	profile, err := m.profiles.Ensure(ctx, res.Identity.UserID)
	if err != nil || profile == nil {
		logger.WithService("session").
			WithField("user_id", res.Identity.UserID).
			WithError(err).
			Warn("Profile lookup failed, treating session as least privileged")
		return res
	}
	res.Role = model.ParseRole(string(profile.Role))
	return res
}

// SignIn issues a fresh token pair for userID as cookies.
func (m *Manager) SignIn(userID string) ([]*http.Cookie, error) {
	cookies, err := m.issue(userID)
	if err != nil {
		return nil, err
	}
	m.publish(EventSignedIn, userID)
	return cookies, nil
}

// SignOut returns cookies that remove the session from the client.
func (m *Manager) SignOut(userID string) []*http.Cookie {
	m.publish(EventSignedOut, userID)
	return m.clearCookies()
}

func (m *Manager) issue(userID string) ([]*http.Cookie, error) {
	pair, err := m.tokens.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	now := m.now()
	return []*http.Cookie{
		m.cookie(AccessCookieName, pair.AccessToken, pair.AccessExpiresAt.Sub(now)),
		m.cookie(RefreshCookieName, pair.RefreshToken, pair.RefreshExpiresAt.Sub(now)),
	}, nil
}

func (m *Manager) clearCookies() []*http.Cookie {
	return []*http.Cookie{
		m.cookie(AccessCookieName, "", -1),
		m.cookie(RefreshCookieName, "", -1),
	}
}

func (m *Manager) cookie(name, value string, ttl time.Duration) *http.Cookie {
	maxAge := int(ttl / time.Second)
	if ttl < 0 {
		maxAge = -1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   m.cookies.Domain,
		MaxAge:   maxAge,
		Secure:   m.cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) publish(kind EventKind, userID string) {
	if m.broker == nil {
		return
	}
	m.broker.Publish(Event{Kind: kind, UserID: userID, At: m.now()})
}

func findCookie(cookies []*http.Cookie, name string) string {
	for _, c := range cookies {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
