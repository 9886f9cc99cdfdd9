package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/ericogr/kids-games/internal/logging"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var errMissingGoogleEnv = errors.New(constants.ErrMissingGoogleEnv)

type GoogleOAuthCallbackRequest struct {
	Code string `json:"code"`
}

func (h *Handler) googleExchange(ctx context.Context, code string) (string, string, error) {
	if h.opts.GoogleClientID == "" || h.opts.GoogleClientSecret == "" {
		return "", "", errMissingGoogleEnv
	}
	conf := &oauth2.Config{
		ClientID:     h.opts.GoogleClientID,
		ClientSecret: h.opts.GoogleClientSecret,
		RedirectURL:  constants.GoogleOAuthRedirect,
		Scopes:       constants.GoogleUserInfoScopes,
		Endpoint:     google.Endpoint,
	}
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", constants.ErrFailedExchangeToken, err)
	}
	resp, err := conf.Client(ctx, token).Get(constants.GoogleUserInfoURL)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", constants.ErrFailedGetUserInfo, err)
	}
	defer resp.Body.Close()
	userData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf(constants.ErrFailedReadUserData, err.Error())
	}

	var payload map[string]any
	_ = json.Unmarshal(userData, &payload)
	email, _ := payload["email"].(string)
	name, _ := payload["name"].(string)
	return email, name, nil
}

// GoogleOAuthCallback exchanges the authorization code, assigns a role from
// the configured allow lists and starts a session.
func (h *Handler) GoogleOAuthCallback(c *gin.Context) {
	var req GoogleOAuthCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	email, name, err := h.exchange(c.Request.Context(), req.Code)
	if errors.Is(err, errMissingGoogleEnv) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrMissingGoogleEnv})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrFailedExchangeToken, constants.JSONKeyDetails: err.Error()})
		return
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrNoEmailInGoogleProfile})
		return
	}

	role := auth.RoleForEmail(email, h.opts.AdminEmails, h.opts.EditorEmails)
	if h.users != nil {
		if _, err := h.users.UpsertUser(c.Request.Context(), email, name, role); err != nil {
			logging.Error("failed to record user login", err, logging.Fields{constants.LogFieldActor: email})
		}
	}

	p := auth.Principal{Email: email, Name: name, Role: role}
	sess, err := h.signer.IssueSession(p, h.opts.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession, constants.JSONKeyDetails: err.Error()})
		return
	}
	h.setSessionCookie(c, sess, h.opts.SessionTTL)
	logging.Info("user signed in", logging.Fields{constants.LogFieldActor: email, "role": role})
	c.JSON(http.StatusOK, p)
}

// Logout clears the session cookie.
func (h *Handler) Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyStatus: "ok"})
}

// Me returns the signed-in principal.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, principal(c))
}
