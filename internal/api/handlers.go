package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/pfkeygen/internal/history"
	"github.com/pfkeygen/internal/license"
	"github.com/pfkeygen/internal/share"
)

// ErrorResponse is a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

type unlockRequest struct {
	Password string `json:"password"`
}

type unlockResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type issueResponse struct {
	*license.Issued
	Share share.Links `json:"share"`
}

type verifyRequest struct {
	Key      string `json:"key"`
	DeviceID string `json:"device_id"`
}

type verifyResponse struct {
	Valid        bool   `json:"valid"`
	ValidityDays int    `json:"validity_days"`
	Lifetime     bool   `json:"lifetime"`
	Reason       string `json:"reason,omitempty"`
}

type historyResponse struct {
	Entries  []history.Record `json:"entries"`
	Capacity int              `json:"capacity"`
}

func (s *Server) unlock(c echo.Context) error {
	var req unlockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	token, expiresAt, err := s.sessions.Unlock(req.Password)
	switch {
	case errors.Is(err, ErrTooManyAttempts):
		return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrWrongPassword):
		log.Warn().Str("remote", c.RealIP()).Msg("Rejected unlock attempt")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create session"})
	}

	return c.JSON(http.StatusOK, unlockResponse{Token: token, TokenType: "Bearer", ExpiresAt: expiresAt})
}

func (s *Server) issueLicense(c echo.Context) error {
	var req license.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	issued, err := s.licenses.Issue(c.Request().Context(), req)
	if errors.Is(err, license.ErrEmptyDeviceID) || errors.Is(err, license.ErrInvalidValidity) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to issue license")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to record license"})
	}

	return c.JSON(http.StatusCreated, issueResponse{Issued: issued, Share: share.For(issued.Record)})
}

func (s *Server) verifyLicense(c echo.Context) error {
	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format"})
	}

	k, err := s.licenses.Verify(req.Key, req.DeviceID)
	switch {
	case errors.Is(err, license.ErrMalformedKey), errors.Is(err, license.ErrEmptyDeviceID):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, license.ErrDeviceMismatch):
		return c.JSON(http.StatusOK, verifyResponse{Valid: false, Reason: err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to verify key"})
	}

	return c.JSON(http.StatusOK, verifyResponse{Valid: true, ValidityDays: k.ValidityDays(), Lifetime: k.IsLifetime()})
}

func (s *Server) listHistory(c echo.Context) error {
	return c.JSON(http.StatusOK, historyResponse{
		Entries:  s.licenses.History(c.Request().Context()),
		Capacity: s.licenses.Capacity(),
	})
}

func (s *Server) clearHistory(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Clearing history requires confirm=true"})
	}
	if err := s.licenses.Clear(c.Request().Context()); err != nil {
		log.Error().Err(err).Msg("Failed to clear history")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to clear history"})
	}
	return c.NoContent(http.StatusNoContent)
}
