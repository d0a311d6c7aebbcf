package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"memorymaster/internal/security"
	"memorymaster/internal/service"
)

// OAuthProvider bundles an oauth2 config with the provider's userinfo
// endpoint.
type OAuthProvider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
}

// oauthUserInfo is the provider-independent identity the auth service
// consumes.
type oauthUserInfo struct {
	Subject string
	Email   string
	Name    string
}

// OAuthHandler runs the browser-side OAuth flow. The callback answers
// with the same token payload as the JSON login endpoints.
type OAuthHandler struct {
	authService          *service.AuthService
	providers            map[string]OAuthProvider
	oauthRedirectBaseURL string
}

func NewOAuthHandler(authService *service.AuthService, providers map[string]OAuthProvider, oauthRedirectBaseURL string) *OAuthHandler {
	return &OAuthHandler{
		authService:          authService,
		providers:            providers,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

func (h *OAuthHandler) provider(key string) (OAuthProvider, bool) {
	provider, ok := h.providers[key]
	if !ok || provider.Config == nil || provider.Config.ClientID == "" || provider.Config.ClientSecret == "" {
		return OAuthProvider{}, false
	}
	return provider, true
}

// StartOAuth sets the state cookies and redirects the browser to the
// provider's consent screen.
func (h *OAuthHandler) StartOAuth(w http.ResponseWriter, r *http.Request) {
	providerKey := r.PathValue("provider")
	provider, ok := h.provider(providerKey)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "OAuth provider not configured", "", nil)
		return
	}

	state := security.GenerateSessionID()
	http.SetCookie(w, security.CreateTempCookie(r, "oauth_state", state, 10*time.Minute))
	http.SetCookie(w, security.CreateTempCookie(r, "oauth_provider", providerKey, 10*time.Minute))

	authURL := h.exchangeConfig(r, providerKey, provider).AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// exchangeConfig clones the provider config with the per-request
// redirect URL filled in.
func (h *OAuthHandler) exchangeConfig(r *http.Request, providerKey string, provider OAuthProvider) *oauth2.Config {
	cfg := *provider.Config
	cfg.RedirectURL = h.oauthRedirectURL(r, providerKey)
	return &cfg
}

// OAuthCallback checks the state cookies, exchanges the code and logs
// the player in.
func (h *OAuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	providerKey := r.PathValue("provider")
	provider, ok := h.provider(providerKey)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "OAuth provider not configured", "", nil)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing authorization code", "", nil)
		return
	}
	if !validOAuthState(r, providerKey) {
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state", "", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token, err := h.exchangeConfig(r, providerKey, provider).Exchange(ctx, code)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Failed to exchange OAuth code", "OAuth code exchange failed", err)
		return
	}

	userInfo, err := h.fetchOAuthUserInfo(ctx, providerKey, provider, token)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, "oauth_state"))
	http.SetCookie(w, security.CreateDeleteCookie(r, "oauth_provider"))

	player, signedToken, err := h.authService.OAuthLogin(userInfo.Subject, userInfo.Email, userInfo.Name)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondWithError(w, http.StatusConflict, "Email already linked to another account", "", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "OAuth login failed", err)
		return
	}

	respondWithJSON(w, http.StatusOK, AuthResponse{Token: signedToken, Player: newPlayerView(player)})
}

// validOAuthState matches the state parameter and provider against the
// cookies set when the flow started.
func validOAuthState(r *http.Request, providerKey string) bool {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value == "" || cookie.Value != state {
		return false
	}
	if pc, err := r.Cookie("oauth_provider"); err == nil && pc.Value != providerKey {
		return false
	}
	return true
}

func (h *OAuthHandler) fetchOAuthUserInfo(ctx context.Context, providerKey string, provider OAuthProvider, token *oauth2.Token) (oauthUserInfo, error) {
	if providerKey != "google" {
		return oauthUserInfo{}, errors.New("OAuth provider not supported")
	}
	return h.fetchGoogleUser(ctx, provider, token)
}

// googleProfile is the slice of the userinfo v2 response we care about.
type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *OAuthHandler) fetchGoogleUser(ctx context.Context, provider OAuthProvider, token *oauth2.Token) (oauthUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(provider.UserInfoURL)
	if err != nil {
		return oauthUserInfo{}, errors.New("could not reach the Google userinfo endpoint")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return oauthUserInfo{}, fmt.Errorf("Google userinfo request returned status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return oauthUserInfo{}, errors.New("could not decode the Google userinfo response")
	}
	return oauthUserInfo{Subject: profile.ID, Email: profile.Email, Name: profile.Name}, nil
}

// oauthRedirectURL builds the callback URL, preferring the configured
// base so the flow works behind proxies.
func (h *OAuthHandler) oauthRedirectURL(r *http.Request, providerKey string) string {
	base := strings.TrimRight(strings.TrimSpace(h.oauthRedirectBaseURL), "/")
	if base == "" {
		base = "http://" + r.Host
		if security.IsSecureRequest(r) {
			base = "https://" + r.Host
		}
	}
	return fmt.Sprintf("%s/api/auth/%s/callback", base, providerKey)
}
