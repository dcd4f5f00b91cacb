package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/jobtrackr/backend/internal/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the slice of the Google userinfo payload we consume.
type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider drives the authorization-code flow against Google.
// A provider built without credentials reports Enabled() == false and
// the handlers keep the OAuth routes off.
type GoogleProvider struct {
	config *oauth2.Config
	logger *zap.Logger
}

func NewGoogleProvider(clientID, clientSecret, callbackURL string, logger *zap.Logger) *GoogleProvider {
	if logger == nil {
		logger = zap.NewNop()
	}

	var cfg *oauth2.Config
	if clientID != "" && clientSecret != "" {
		cfg = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		}
	}

	return &GoogleProvider{
		config: cfg,
		logger: logger,
	}
}

// Enabled reports whether Google credentials are configured.
func (p *GoogleProvider) Enabled() bool {
	return p.config != nil
}

// AuthURL builds the consent-screen redirect for the given state value.
func (p *GoogleProvider) AuthURL(state string) string {
	if p.config == nil {
		return ""
	}
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and fetches the profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	if p.config == nil {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		p.logger.Warn("Google code exchange failed", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrUnauthorized, err)
	}

	client := p.config.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		p.logger.Error("Google userinfo request failed", zap.Error(err))
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		p.logger.Error("Google userinfo request rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return nil, apperrors.WrapError(apperrors.ErrUnauthorized,
			fmt.Errorf("userinfo returned status %d", resp.StatusCode))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, apperrors.WrapError(apperrors.ErrUnauthorized,
			fmt.Errorf("userinfo payload missing id or email"))
	}

	return &profile, nil
}
