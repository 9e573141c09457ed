package handlers

import (
	"net/http"
	"time"

	"bridgerh/internal/app"
	"bridgerh/internal/common"
	"bridgerh/internal/http/metrics"
	"bridgerh/internal/http/middleware"
	"bridgerh/internal/http/response"
)

type AuthHandler struct {
	auth          *app.AuthService
	limiter       middleware.Limiter
	collector     *metrics.Collector
	secureCookies bool
}

func NewAuthHandler(auth *app.AuthService, limiter middleware.Limiter, collector *metrics.Collector, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, collector: collector, secureCookies: secureCookies}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "login:ip:" + middleware.ClientIP(r)
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "login rate limit exceeded", nil))
			return
		}
	}
	token, expiresAt, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		response.Error(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	if h.collector != nil {
		h.collector.ObserveLogin()
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		response.JSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	if err := h.auth.ValidateSession(cookie.Value); err != nil {
		response.JSON(w, http.StatusUnauthorized, map[string]bool{"authenticated": false})
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
