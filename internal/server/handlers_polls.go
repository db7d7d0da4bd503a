package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pollpulse/pollpulse/internal/domain"
)

type createPollRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Options     []string `json:"options"`
}

type voteRequest struct {
	OptionID int64 `json:"option_id"`
}

func (s *Server) handleListPolls(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	polls, err := s.app.AvailablePolls(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"polls": polls})
}

func (s *Server) handleCreatePoll(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	var req createPollRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindValidation, "invalid request body")
	}

	pollID, err := s.app.CreatePoll(c.Request().Context(), token, req.Title, req.Description, req.Options)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]int64{"poll_id": pollID})
}

func (s *Server) handleVote(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	pollID, err := pollIDParam(c)
	if err != nil {
		return err
	}

	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewError(domain.KindValidation, "invalid request body")
	}

	if err := s.app.Vote(c.Request().Context(), token, pollID, req.OptionID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int64{"poll_id": pollID, "option_id": req.OptionID})
}

func (s *Server) handleUserVote(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	pollID, err := pollIDParam(c)
	if err != nil {
		return err
	}

	optionID, err := s.app.UserVote(c.Request().Context(), token, pollID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int64{"poll_id": pollID, "option_id": optionID})
}

func (s *Server) handlePollResults(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	pollID, err := pollIDParam(c)
	if err != nil {
		return err
	}

	results, err := s.app.PollResults(c.Request().Context(), token, pollID)
	if err != nil {
		return err
	}

	var total int64
	for _, count := range results {
		total += count
	}

	return c.JSON(http.StatusOK, domain.ResultsUpdate{PollID: pollID, Results: results, Total: total})
}

func (s *Server) handleIsAdmin(c echo.Context) error {
	token, err := bearerToken(c)
	if err != nil {
		return err
	}

	admin, err := s.app.IsAdmin(c.Request().Context(), token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"admin": admin})
}

func pollIDParam(c echo.Context) (int64, error) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domain.NewError(domain.KindValidation, "poll id must be an integer")
	}
	return pollID, nil
}
