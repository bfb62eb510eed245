package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeProfiles struct {
	roles map[string]model.Role
	err   error
}

func (f *fakeProfiles) Ensure(_ context.Context, userID string) (*model.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[userID]
	if !ok {
		role = model.DefaultRole
	}
	return &model.Profile{ID: userID, Role: role}, nil
}

func newManager(t *testing.T, tokens *utils.JWTUtil, profiles ProfileSource) (*Manager, *[]Event) {
	t.Helper()
	broker := NewBroker()
	var events []Event
	unsubscribe := broker.Subscribe(func(e Event) { events = append(events, e) })
	t.Cleanup(unsubscribe)
	return NewManager(tokens, profiles, broker, CookieOptions{}), &events
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestResolve_NoCookiesIsAnonymous(t *testing.T) {
	m, events := newManager(t, utils.NewJWTUtil(testSecret, time.Minute, time.Hour), &fakeProfiles{})

	res := m.Resolve(context.Background(), nil)
	assert.False(t, res.SignedIn())
	assert.Equal(t, model.RoleUnknown, res.Role)
	assert.Empty(t, res.SetCookies)
	assert.Empty(t, *events)
}

func TestResolve_ValidAccessTokenUsesStoredRole(t *testing.T) {
	m, events := newManager(t, utils.NewJWTUtil(testSecret, time.Minute, time.Hour),
		&fakeProfiles{roles: map[string]model.Role{"u-admin": model.RoleAdmin}})

	cookies, err := m.SignIn("u-admin")
	require.NoError(t, err)
	require.Len(t, *events, 1)
	assert.Equal(t, EventSignedIn, (*events)[0].Kind)

	res := m.Resolve(context.Background(), cookies)
	require.True(t, res.SignedIn())
	assert.Equal(t, "u-admin", res.Identity.UserID)
	assert.Equal(t, model.RoleAdmin, res.Role)
	assert.Empty(t, res.SetCookies)
}

func TestResolve_ExpiredAccessRotatesWithRefresh(t *testing.T) {
	m, events := newManager(t, utils.NewJWTUtil(testSecret, -time.Minute, time.Hour), &fakeProfiles{})

	cookies, err := m.SignIn("u-rider")
	require.NoError(t, err)

	res := m.Resolve(context.Background(), cookies)
	require.True(t, res.SignedIn())
	assert.Equal(t, model.RoleRider, res.Role)
	require.Len(t, res.SetCookies, 2)
	assert.NotEmpty(t, cookieNamed(res.SetCookies, AccessCookieName).Value)
	assert.NotEmpty(t, cookieNamed(res.SetCookies, RefreshCookieName).Value)

	require.Len(t, *events, 2)
	assert.Equal(t, EventTokenRefreshed, (*events)[1].Kind)
	assert.Equal(t, "u-rider", (*events)[1].UserID)
}

func TestResolve_GarbageTokensAreClearedAndAnonymous(t *testing.T) {
	m, _ := newManager(t, utils.NewJWTUtil(testSecret, time.Minute, time.Hour), &fakeProfiles{})

	res := m.Resolve(context.Background(), []*http.Cookie{
		{Name: AccessCookieName, Value: "not-a-jwt"},
		{Name: RefreshCookieName, Value: "also-not"},
	})
	assert.False(t, res.SignedIn())
	assert.Equal(t, model.RoleUnknown, res.Role)
	require.Len(t, res.SetCookies, 2)
	for _, c := range res.SetCookies {
		assert.Empty(t, c.Value)
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestResolve_TokenFromOtherSecretIsRejected(t *testing.T) {
	other := NewManager(utils.NewJWTUtil("ffffffffffffffffffffffffffffffff", time.Minute, time.Hour), &fakeProfiles{}, nil, CookieOptions{})
	forged, err := other.SignIn("u-admin")
	require.NoError(t, err)

	m, _ := newManager(t, utils.NewJWTUtil(testSecret, time.Minute, time.Hour), &fakeProfiles{})
	res := m.Resolve(context.Background(), forged)
	assert.False(t, res.SignedIn())
}

func TestResolve_RefreshTokenInAccessSlotIsRejected(t *testing.T) {
	m, _ := newManager(t, utils.NewJWTUtil(testSecret, time.Minute, time.Hour), &fakeProfiles{})
	cookies, err := m.SignIn("u1")
	require.NoError(t, err)

	refresh := cookieNamed(cookies, RefreshCookieName).Value
	res := m.Resolve(context.Background(), []*http.Cookie{{Name: AccessCookieName, Value: refresh}})
	assert.False(t, res.SignedIn())
}

func TestResolve_ProfileFailureIsLeastPrivileged(t *testing.T) {
	tokens := utils.NewJWTUtil(testSecret, time.Minute, time.Hour)
	issuer, _ := newManager(t, tokens, &fakeProfiles{})
	cookies, err := issuer.SignIn("u-staff")
	require.NoError(t, err)

	m, _ := newManager(t, tokens, &fakeProfiles{err: errors.New("db down")})
	res := m.Resolve(context.Background(), cookies)
	require.True(t, res.SignedIn())
	assert.Equal(t, "u-staff", res.Identity.UserID)
	assert.Equal(t, model.RoleUnknown, res.Role)
}

func TestSignOut_ClearsCookiesAndPublishes(t *testing.T) {
	m, events := newManager(t, utils.NewJWTUtil(testSecret, time.Minute, time.Hour), &fakeProfiles{})

	cookies := m.SignOut("u1")
	require.Len(t, cookies, 2)
	assert.Equal(t, -1, cookieNamed(cookies, AccessCookieName).MaxAge)
	assert.Equal(t, -1, cookieNamed(cookies, RefreshCookieName).MaxAge)
	require.Len(t, *events, 1)
	assert.Equal(t, EventSignedOut, (*events)[0].Kind)
}

func TestBroker_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()
	var first, second int
	unsubFirst := b.Subscribe(func(Event) { first++ })
	b.Subscribe(func(Event) { second++ })

	b.Publish(Event{Kind: EventSignedIn})
	unsubFirst()
	unsubFirst()
	b.Publish(Event{Kind: EventSignedOut})

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestBroker_DeliversInSubscriptionOrder(t *testing.T) {
	b := NewBroker()
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		b.Subscribe(func(Event) { order = append(order, i) })
	}
	b.Publish(Event{Kind: EventSignedIn, UserID: "u1"})
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker()
	calls := 0
	b.Subscribe(func(Event) { calls++ })
	b.Close()
	b.Publish(Event{Kind: EventSignedIn})
	b.Subscribe(func(Event) { calls++ })()
	b.Publish(Event{Kind: EventSignedIn})
	assert.Zero(t, calls)
}

func TestBroker_ConcurrentUse(t *testing.T) {
	b := NewBroker()
	var mu sync.Mutex
	seen := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unsub := b.Subscribe(func(Event) {
				mu.Lock()
				seen++
				mu.Unlock()
			})
			b.Publish(Event{Kind: EventTokenRefreshed})
			unsub()
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, seen)
}
