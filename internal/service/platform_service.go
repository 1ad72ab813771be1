package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/linkedin"

	config "github.com/postloom/postloom/configs"
	"github.com/postloom/postloom/internal/models"
	"github.com/postloom/postloom/internal/repository"
	"github.com/postloom/postloom/internal/transfer"
	"github.com/postloom/postloom/pkg/utils"
)

type PlatformService interface {
	GetAuthURL(ctx context.Context, platform, tokenString string, clientID int64) string
	LinkedinCallback(ctx context.Context, code string, userID, clientID int64) error
	FacebookCallback(ctx context.Context, code string, userID, clientID int64) error
	RefreshLinkedinToken(ctx context.Context, acc *models.SocialAccount) error
	RefreshFacebookToken(ctx context.Context, acc *models.SocialAccount) error
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Delete(ctx context.Context, userID, accountID int64) error
}

type platformService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
	cl  repository.ClientRepository
}

func NewPlatformService(cfg config.Config, sa repository.SocialAccountRepository, cl repository.ClientRepository) PlatformService {
	return &platformService{
		cfg: cfg,
		sa:  sa,
		cl:  cl,
	}
}

func (s *platformService) linkedinOAuth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.LinkedinClientID,
		ClientSecret: s.cfg.LinkedinClientSecret,
		RedirectURL:  s.cfg.LinkedinRedirectURI,
		Scopes:       []string{"openid", "profile", "email", "w_member_social"},
		Endpoint:     linkedin.Endpoint,
	}
}

func (s *platformService) facebookOAuth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     s.cfg.FacebookClientID,
		ClientSecret: s.cfg.FacebookClientSecret,
		RedirectURL:  s.cfg.FacebookRedirectURI,
		Scopes:       []string{"public_profile", "pages_show_list", "pages_manage_posts", "publish_video"},
		Endpoint:     facebook.Endpoint,
	}
}

// GetAuthURL builds the consent URL for connecting a platform account. The
// state carries the session token and the client the account will belong
// to, separated by a pipe.
func (s *platformService) GetAuthURL(ctx context.Context, platform, tokenString string, clientID int64) string {
	state := fmt.Sprintf("%s|%d", tokenString, clientID)

	switch platform {
	case models.PlatformLinkedin:
		return s.linkedinOAuth().AuthCodeURL(state)
	case models.PlatformFacebook:
		return s.facebookOAuth().AuthCodeURL(state)
	default:
		return ""
	}
}

func (s *platformService) LinkedinCallback(ctx context.Context, code string, userID, clientID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	if err := s.checkClient(ctx, userID, clientID); err != nil {
		return err
	}

	token, err := s.linkedinOAuth().Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to exchange LinkedIn code: %w", err)
	}

	userInfo, err := LinkedinUserInfo(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	return s.saveAccount(ctx, clientID, models.PlatformLinkedin, &models.SocialAccount{
		AccountID:       userInfo.Sub,
		AccountName:     userInfo.Name,
		AccountUsername: userInfo.Email,
		ProfilePicture:  userInfo.Picture,
	}, token.AccessToken, token.RefreshToken, token.Expiry)
}

func (s *platformService) FacebookCallback(ctx context.Context, code string, userID, clientID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	if err := s.checkClient(ctx, userID, clientID); err != nil {
		return err
	}

	token, err := s.facebookOAuth().Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to exchange Facebook code: %w", err)
	}

	// Trade the short-lived token for a long-lived one before storing.
	longLived, err := s.exchangeFacebookToken(ctx, token.AccessToken)
	if err != nil {
		return err
	}

	userInfo, err := FacebookUserInfo(ctx, longLived.AccessToken)
	if err != nil {
		return err
	}

	return s.saveAccount(ctx, clientID, models.PlatformFacebook, &models.SocialAccount{
		AccountID:      userInfo.ID,
		AccountName:    userInfo.Name,
		ProfilePicture: userInfo.Picture.Data.URL,
	}, longLived.AccessToken, "", GetExpiresAt(longLived.ExpiresIn))
}

func (s *platformService) checkClient(ctx context.Context, userID, clientID int64) error {
	owned, err := s.cl.CheckByUserID(ctx, clientID, userID)
	if err != nil {
		return err
	}
	if !owned {
		err = errors.New("Client doesn't exist")
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *platformService) saveAccount(ctx context.Context, clientID int64, platform string, acc *models.SocialAccount, accessToken, refreshToken string, expiresAt time.Time) error {
	encryptedAccessToken, err := utils.Encrypt([]byte(accessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	acc.ClientID = clientID
	acc.Platform = platform
	acc.AccessToken = encryptedAccessToken
	acc.TokenExpiresAt = expiresAt
	acc.AccountStatus = models.AccountStatusActive

	if refreshToken != "" {
		encryptedRefreshToken, err := utils.Encrypt([]byte(refreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
		acc.RefreshToken = encryptedRefreshToken
	}

	_, err = s.sa.Create(ctx, nil, acc)
	if err != nil {
		return err
	}

	return nil
}

// RefreshLinkedinToken rotates an account's tokens through the refresh
// grant and stores the new pair.
func (s *platformService) RefreshLinkedinToken(ctx context.Context, acc *models.SocialAccount) error {
	decryptedRefreshToken, err := utils.Decrypt(acc.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	source := s.linkedinOAuth().TokenSource(ctx, &oauth2.Token{RefreshToken: decryptedRefreshToken})
	token, err := source.Token()
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to refresh LinkedIn token: %w", err)
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	refreshToken := acc.RefreshToken
	if token.RefreshToken != "" {
		refreshToken, err = utils.Encrypt([]byte(token.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	return s.sa.SetToken(ctx, acc.ID, &models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   refreshToken,
		TokenExpiresAt: token.Expiry,
	})
}

// RefreshFacebookToken re-exchanges the stored long-lived token, extending
// its expiry. Facebook has no refresh grant.
func (s *platformService) RefreshFacebookToken(ctx context.Context, acc *models.SocialAccount) error {
	decryptedAccessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	longLived, err := s.exchangeFacebookToken(ctx, decryptedAccessToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(longLived.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.sa.SetToken(ctx, acc.ID, &models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		TokenExpiresAt: GetExpiresAt(longLived.ExpiresIn),
	})
}

func (s *platformService) exchangeFacebookToken(ctx context.Context, accessToken string) (*transfer.FacebookTokenResponse, error) {
	params := url.Values{}
	params.Set("grant_type", "fb_exchange_token")
	params.Set("client_id", s.cfg.FacebookClientID)
	params.Set("client_secret", s.cfg.FacebookClientSecret)
	params.Set("fb_exchange_token", accessToken)

	reqURL := "https://graph.facebook.com/v19.0/oauth/access_token?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info("Facebook token exchange returned non-200 status", "body", string(body))
		return nil, errors.New("Facebook token exchange returned non-200 status")
	}

	var tokenResponse transfer.FacebookTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &tokenResponse, nil
}

func LinkedinUserInfo(ctx context.Context, accessToken string) (*transfer.LinkedinUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.linkedin.com/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var result transfer.LinkedinUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &result, nil
}

func FacebookUserInfo(ctx context.Context, accessToken string) (*transfer.FacebookUserInfo, error) {
	reqURL := "https://graph.facebook.com/v19.0/me?fields=id,name,picture&access_token=" + url.QueryEscape(accessToken)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var result transfer.FacebookUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &result, nil
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("Error getting social accounts")
	}

	return accounts, nil
}

func (s *platformService) Delete(ctx context.Context, userID, accountID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("UserID is not valid")
		slog.Info(err.Error())
		return err
	}

	if accountID == 0 {
		err = errors.New("AccountID is not valid")
		slog.Info(err.Error())
		return err
	}

	isValid, err := s.sa.CheckByUserID(ctx, accountID, userID)
	if err != nil {
		return err
	}

	if !isValid {
		err = errors.New("Social account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	err = s.sa.Remove(ctx, accountID)
	if err != nil {
		return fmt.Errorf("Error removing account Info")
	}

	return nil
}

// ParseConnectState splits a consent state back into its token and client
// id halves.
func ParseConnectState(state string) (tokenString string, clientID int64, err error) {
	parts := strings.SplitN(state, "|", 2)
	if len(parts) != 2 {
		return "", 0, errors.New("malformed state parameter")
	}

	clientID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, errors.New("malformed client id in state")
	}

	return parts[0], clientID, nil
}
