package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dpetrovs/memhub/internal/client/models"
)

// expirySkew is subtracted from the token deadline so a session is refreshed
// slightly before it actually expires.
const expirySkew = 30 * time.Second

// GoTrue is the auth-service client. It holds the current session in memory
// (nothing is persisted locally), refreshes it on demand, and fans out
// identity changes to subscribers. It implements AuthClient and TokenSource.
type GoTrue struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu      sync.Mutex
	session *models.Session
	subs    map[int]func(*models.Session)
	nextSub int
}

func NewGoTrue(baseURL, anonKey string, timeout time.Duration) *GoTrue {
	return &GoTrue{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: timeout},
		subs:    make(map[int]func(*models.Session)),
	}
}

// AccessToken returns the current access token, or "" when signed out.
func (g *GoTrue) AccessToken() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		return ""
	}
	return g.session.AccessToken
}

// OnAuthStateChange registers fn to be called on every identity transition.
// The returned function removes the subscription.
func (g *GoTrue) OnAuthStateChange(fn func(*models.Session)) func() {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subs, id)
		g.mu.Unlock()
	}
}

func (g *GoTrue) setSession(s *models.Session) {
	g.mu.Lock()
	g.session = s
	subs := make([]func(*models.Session), 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// CurrentSession returns the session the client holds, refreshing it first
// when the access token is at or past its deadline. Returns nil when signed
// out.
func (g *GoTrue) CurrentSession(ctx context.Context) (*models.Session, error) {
	g.mu.Lock()
	current := g.session
	g.mu.Unlock()

	if current == nil {
		return nil, nil
	}

	if current.ExpiresAt.IsZero() || time.Now().Before(current.ExpiresAt.Add(-expirySkew)) {
		copied := *current
		return &copied, nil
	}

	if current.RefreshToken == "" {
		g.setSession(nil)
		return nil, ErrUnauthorized
	}

	refreshed, err := g.refresh(ctx, current.RefreshToken)
	if err != nil {
		g.setSession(nil)
		return nil, err
	}
	g.setSession(refreshed)
	copied := *refreshed
	return &copied, nil
}

func (g *GoTrue) SignIn(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if err := g.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, &resp); err != nil {
		return err
	}

	g.setSession(resp.session())
	return nil
}

func (g *GoTrue) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	body := map[string]string{"email": email, "password": password}

	var resp struct {
		ID         string      `json:"id"`
		Identities []struct{}  `json:"identities"`
		User       *gotrueUser `json:"user"`
	}
	if err := g.do(ctx, http.MethodPost, "/auth/v1/signup", body, &resp); err != nil {
		return SignUpResult{}, err
	}

	// Confirmation-required deployments return the bare user object;
	// auto-confirm deployments nest it under "user".
	result := SignUpResult{UserID: resp.ID, Identities: len(resp.Identities)}
	if resp.User != nil {
		result.UserID = resp.User.ID
		result.Identities = len(resp.User.Identities)
	}
	return result, nil
}

func (g *GoTrue) SignOut(ctx context.Context) error {
	err := g.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil)
	// The local session is discarded regardless: a failed logout call must
	// not leave the client signed in.
	g.setSession(nil)
	return err
}

func (g *GoTrue) UpdateUser(ctx context.Context, update UserUpdate) error {
	body := map[string]any{}
	if update.Email != nil {
		body["email"] = *update.Email
	}
	if update.Password != nil {
		body["password"] = *update.Password
	}
	if update.Username != nil {
		body["data"] = map[string]any{"username": *update.Username}
	}

	var user gotrueUser
	if err := g.do(ctx, http.MethodPut, "/auth/v1/user", body, &user); err != nil {
		return err
	}

	g.mu.Lock()
	var updated *models.Session
	if g.session != nil {
		copied := *g.session
		copied.User = user.model()
		updated = &copied
	}
	g.mu.Unlock()
	if updated != nil {
		g.setSession(updated)
	}
	return nil
}

func (g *GoTrue) refresh(ctx context.Context, refreshToken string) (*models.Session, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var resp tokenResponse
	if err := g.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=refresh_token", body, &resp); err != nil {
		return nil, err
	}
	return resp.session(), nil
}

func (g *GoTrue) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("apikey", g.anonKey)
	token := g.anonKey
	if t := g.AccessToken(); t != "" {
		token = t
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return authAPIError(data, resp.StatusCode)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// authAPIError normalizes the auth service's error shapes into *AuthError.
// The service has used several field spellings across versions.
func authAPIError(body []byte, status int) error {
	var payload struct {
		ErrorCode        string `json:"error_code"`
		Code             any    `json:"code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Err              string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &payload)

	code := payload.ErrorCode
	if code == "" {
		if s, ok := payload.Code.(string); ok {
			code = s
		}
	}

	msg := payload.Msg
	if msg == "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = payload.ErrorDescription
	}
	if msg == "" {
		msg = payload.Err
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	return &AuthError{Code: code, Message: msg}
}

type gotrueUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Username string `json:"username"`
	} `json:"user_metadata"`
	Identities []struct{} `json:"identities"`
}

func (u gotrueUser) model() models.User {
	return models.User{ID: u.ID, Email: u.Email, Username: u.UserMetadata.Username}
}

type tokenResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	ExpiresIn    int64      `json:"expires_in"`
	User         gotrueUser `json:"user"`
}

// session converts a token grant into the client session. The token deadline
// and user id are cross-checked against the access token's claims, which are
// authoritative; signature verification is the server's job.
func (r tokenResponse) session() *models.Session {
	s := &models.Session{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		User:         r.User.model(),
	}
	if r.ExpiresIn > 0 {
		s.ExpiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(r.AccessToken, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			s.ExpiresAt = exp.Time
		}
		if sub, err := claims.GetSubject(); err == nil && sub != "" && s.User.ID == "" {
			s.User.ID = sub
		}
	}
	return s
}
