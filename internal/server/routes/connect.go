package routes

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	stripeprovider "github.com/markbates/goth/providers/stripe"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

const (
	stripeProvider = "stripe"
	// connectScope is the Stripe Connect OAuth scope requested for every
	// linked account.
	connectScope = "read_write"
)

// ConnectConfig configures the OAuth session store and the Stripe Connect
// provider.
type ConnectConfig struct {
	SessionSecret string
	ClientID      string
	SecretKey     string
	RedirectURL   string
	SecureCookies bool
}

// ConfigureConnect initializes the session store used for the OAuth state
// token and registers the Stripe Connect provider. An empty client id is
// tolerated here and rejected per request, so the rest of the service can
// run without account linking configured.
func ConfigureConnect(config ConnectConfig) {
	store := sessions.NewCookieStore([]byte(config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(time.Hour.Seconds()),
		HttpOnly: true,
		Secure:   config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	goth.UseProviders(
		stripeprovider.New(
			config.ClientID,
			config.SecretKey,
			config.RedirectURL,
			connectScope,
		),
	)
}

// ConnectRoutes registers the account-linking endpoints.
type ConnectRoutes struct {
	accounts ports.AccountStore
	clientID string
}

// NewConnectRoutes constructs connect routes.
func NewConnectRoutes(accounts ports.AccountStore, clientID string) *ConnectRoutes {
	return &ConnectRoutes{accounts: accounts, clientID: clientID}
}

// RegisterRoutes registers the account-linking endpoints.
func (a *ConnectRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/connect/:provider", a.handleConnectBegin)
	s.GET("/connect/:provider/callback", a.handleConnectCallback)
}

func (a *ConnectRoutes) handleConnectBegin(c echo.Context) error {
	if c.Param("provider") != stripeProvider {
		return c.NoContent(http.StatusNotFound)
	}
	if a.clientID == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "stripe connect is not configured")
	}
	request := addProviderParam(c.Request(), stripeProvider)
	gothic.BeginAuthHandler(c.Response(), request)
	return nil
}

func (a *ConnectRoutes) handleConnectCallback(c echo.Context) error {
	if c.Param("provider") != stripeProvider {
		return c.NoContent(http.StatusNotFound)
	}
	if errCode := c.QueryParam("error"); errCode != "" {
		detail := c.QueryParam("error_description")
		if detail == "" {
			detail = errCode
		}
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("authorization denied: %s", detail))
	}
	if c.QueryParam("code") == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing authorization code")
	}

	request := addProviderParam(c.Request(), stripeProvider)
	user, err := gothic.CompleteUserAuth(c.Response(), request)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "token exchange failed").SetInternal(err)
	}

	account := ports.Account{
		ID:          user.UserID,
		AccessToken: user.AccessToken,
		Scope:       grantedScope(user),
		LinkedAt:    time.Now().UTC(),
	}
	if err := a.accounts.UpsertAccount(request.Context(), account); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store account").SetInternal(err)
	}

	return c.String(http.StatusOK, fmt.Sprintf("Stripe account %s connected.\n", account.ID))
}

// grantedScope returns the scope the provider actually granted, falling
// back to the requested scope when the token response omits it.
func grantedScope(user goth.User) string {
	if scope, ok := user.RawData["scope"].(string); ok && scope != "" {
		return scope
	}
	return connectScope
}

func addProviderParam(request *http.Request, provider string) *http.Request {
	query := request.URL.Query()
	query.Set("provider", provider)
	request.URL.RawQuery = query.Encode()
	return request
}
