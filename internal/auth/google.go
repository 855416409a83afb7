package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/fanaberia/fanaberia/internal/ctxkeys"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/session"
	"github.com/fanaberia/fanaberia/internal/token"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	oauthStateKey     = "oauth_state"
	oauthStateLength  = 32
)

// OAuthUsers resolves a provider-verified email to a local account
type OAuthUsers interface {
	FindOrCreateOAuthUser(email, provider, ip string) (*model.User, error)
}

// GoogleStrategy signs users in through Google. Begin sends the browser to
// the consent screen; Authenticate handles the callback.
type GoogleStrategy struct {
	config      *oauth2.Config
	userInfoURL string
	users       OAuthUsers
}

func NewGoogleStrategy(clientID, clientSecret, appURL string, users OAuthUsers) *GoogleStrategy {
	return &GoogleStrategy{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  appURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
		users:       users,
	}
}

// WithEndpoint points the strategy at another provider, such as a local fake.
func (s *GoogleStrategy) WithEndpoint(endpoint oauth2.Endpoint, userInfoURL string) *GoogleStrategy {
	s.config.Endpoint = endpoint
	s.userInfoURL = userInfoURL
	return s
}

func (s *GoogleStrategy) Name() string {
	return StrategyGoogle
}

// Begin stores a fresh state in the session and returns the consent URL.
func (s *GoogleStrategy) Begin(sess *session.Session) (string, error) {
	state, err := token.Generate(oauthStateLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate oauth state: %w", err)
	}
	sess.Set(oauthStateKey, state)
	return s.config.AuthCodeURL(state), nil
}

func (s *GoogleStrategy) Authenticate(r *http.Request, sess *session.Session) (*model.Principal, error) {
	query := r.URL.Query()
	expected := sess.Get(oauthStateKey)
	sess.Unset(oauthStateKey)

	state := query.Get("state")
	if state == "" || state != expected {
		slog.Warn("google oauth state validation failed")
		return nil, commonError(MessageSocial, "")
	}

	if providerErr := query.Get("error"); providerErr != "" {
		slog.Warn("google oauth denied", "error", providerErr)
		return nil, commonError(MessageSocial, "")
	}

	code := query.Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		return nil, commonError(MessageSocial, "")
	}

	oauthToken, err := s.config.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("google oauth token exchange failed", "error", err)
		return nil, commonError(MessageSocial, "")
	}

	email, err := s.fetchEmail(r, oauthToken)
	if err != nil {
		slog.Error("failed to get google user info", "error", err)
		return nil, commonError(MessageSocial, "")
	}

	user, err := s.users.FindOrCreateOAuthUser(email, StrategyGoogle, ctxkeys.ClientIP(r.Context()))
	if err != nil {
		slog.Error("oauth authentication failed", "error", err)
		return nil, commonError(MessageSocial, "")
	}

	return model.UserPrincipal(user), nil
}

func (s *GoogleStrategy) fetchEmail(r *http.Request, oauthToken *oauth2.Token) (string, error) {
	client := s.config.Client(r.Context(), oauthToken)
	resp, err := client.Get(s.userInfoURL)
	if err != nil {
		return "", err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}

	var userInfo struct {
		Email         string `json:"email"`
		VerifiedEmail *bool  `json:"verified_email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		return "", err
	}
	if userInfo.Email == "" {
		return "", fmt.Errorf("profile has no email")
	}
	if userInfo.VerifiedEmail != nil && !*userInfo.VerifiedEmail {
		return "", fmt.Errorf("email not verified by provider")
	}
	return userInfo.Email, nil
}
