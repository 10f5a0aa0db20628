package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/brightstep/induction-portal/internal/config"
)

const graphMeURL = "https://graph.microsoft.com/v1.0/me"

func microsoftEndpoint(tenant string) oauth2.Endpoint {
	if tenant == "" {
		tenant = "common"
	}
	base := "https://login.microsoftonline.com/" + tenant
	return oauth2.Endpoint{
		AuthURL:  base + "/oauth2/v2.0/authorize",
		TokenURL: base + "/oauth2/v2.0/token",
	}
}

func microsoftOAuthConfig(cfg config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.MSClientID,
		ClientSecret: cfg.MSClientSecret,
		RedirectURL:  cfg.MSRedirectURI,
		Endpoint:     microsoftEndpoint(cfg.MSTenant),
		Scopes:       []string{"openid", "email", "profile", "User.Read"},
	}
}

// sameOrigin allows relative targets, the public origin, and localhost.
func sameOrigin(target, publicURL string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	base, err := url.Parse(publicURL)
	if err != nil || base.Host == "" {
		return true
	}
	return u.Host == "" ||
		(u.Scheme == base.Scheme && u.Host == base.Host) ||
		strings.HasPrefix(u.Host, "localhost")
}

// MicrosoftLoginHandler starts the authorization code flow against Entra ID.
func MicrosoftLoginHandler(cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next := r.URL.Query().Get("redirect")
		if next == "" && r.Referer() != "" {
			next = r.Referer()
		}
		if next == "" {
			base := strings.TrimRight(cfg.PublicURL, "/")
			if base == "" {
				base = "/"
			}
			next = base + "/"
		}
		if !sameOrigin(next, cfg.PublicURL) {
			http.Error(w, "bad redirect", http.StatusBadRequest)
			return
		}

		state := fmt.Sprintf("s-%d", time.Now().UnixNano())
		http.SetCookie(w, &http.Cookie{
			Name:     "ip_oauth_state",
			Value:    state,
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			Expires:  time.Now().Add(10 * time.Minute),
		})
		http.SetCookie(w, &http.Cookie{
			Name:     "ip_post_auth_redirect",
			Value:    url.QueryEscape(next),
			Path:     "/",
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			Expires:  time.Now().Add(10 * time.Minute),
		})

		conf := microsoftOAuthConfig(cfg)
		http.Redirect(w, r, conf.AuthCodeURL(state), http.StatusFound)
	}
}

// MicrosoftCallbackHandler exchanges the code, resolves the account via
// Microsoft Graph, and mints an internal admin JWT when the account is
// allowlisted.
func MicrosoftCallbackHandler(a *AuthService, dir AdminDirectory, cfg config.Config) http.HandlerFunc {
	type graphUser struct {
		ID                string `json:"id"`
		DisplayName       string `json:"displayName"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("state")
		if state == "" {
			http.Error(w, "missing state", http.StatusBadRequest)
			return
		}
		if c, err := r.Cookie("ip_oauth_state"); err != nil || c.Value != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		conf := microsoftOAuthConfig(cfg)
		token, err := conf.Exchange(r.Context(), code)
		if err != nil {
			http.Error(w, "token exchange error", http.StatusBadGateway)
			return
		}

		client := conf.Client(r.Context(), token)
		resp, err := client.Get(graphMeURL)
		if err != nil {
			http.Error(w, "graph fetch error", http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		var gu graphUser
		if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
			http.Error(w, "graph parse error", http.StatusBadGateway)
			return
		}

		email := strings.ToLower(gu.Mail)
		if email == "" {
			email = strings.ToLower(gu.UserPrincipalName)
		}
		if email == "" {
			http.Error(w, "account has no email", http.StatusUnauthorized)
			return
		}
		if !HasAllowedDomain(email, cfg.AllowedDomains) {
			http.Error(w, "unauthorized domain", http.StatusUnauthorized)
			return
		}
		allowed, err := dir.IsAllowed(r.Context(), email)
		if err != nil {
			http.Error(w, "allowlist check failed", http.StatusInternalServerError)
			return
		}
		if !allowed {
			http.Error(w, "not an administrator", http.StatusForbidden)
			return
		}

		tok, err := a.IssueJWT("ms|"+gu.ID, "admin", email)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     "ip_access_token",
			Value:    tok,
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			Expires:  time.Now().Add(8 * time.Hour),
		})

		target := ""
		if c, err := r.Cookie("ip_post_auth_redirect"); err == nil {
			if raw, _ := url.QueryUnescape(c.Value); raw != "" {
				target = raw
			}
		}
		if target == "" || !sameOrigin(target, cfg.PublicURL) {
			target = strings.TrimRight(cfg.PublicURL, "/") + "/"
		}

		http.SetCookie(w, &http.Cookie{Name: "ip_oauth_state", Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})
		http.SetCookie(w, &http.Cookie{Name: "ip_post_auth_redirect", Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1})

		u, err := url.Parse(target)
		if err != nil {
			http.Error(w, "bad redirect target", http.StatusBadRequest)
			return
		}
		q := u.Query()
		q.Set("access_token", tok)
		u.RawQuery = q.Encode()
		http.Redirect(w, r, u.String(), http.StatusFound)
	}
}
