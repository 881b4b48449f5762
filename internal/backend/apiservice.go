package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/similarity-game/internal/backend/database"
	"github.com/jo-hoe/similarity-game/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	rootMessage          = "Similarity Game API"
	pairDeletedMessage   = "Pair deleted successfully"
	pairNotFoundDetail   = "Pair not found"
	storageFailureDetail = "Storage unavailable"
)

type APIService struct {
	config      *core.ServiceConfig
	coreService *core.CoreService
	metrics     *Metrics
}

// PairRequest is the body of create and update requests. Pointer fields
// distinguish a missing field from its zero value.
type PairRequest struct {
	Img1       *string `json:"img1" validate:"required"`
	Img2       *string `json:"img2" validate:"required"`
	Similarity *Score  `json:"similarity" validate:"required"`
}

type PairResponse struct {
	ID         string `json:"id"`
	Img1       string `json:"img1"`
	Img2       string `json:"img2"`
	Similarity int    `json:"similarity"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		config:      config,
		coreService: coreService,
		metrics:     NewMetrics(),
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET("/", s.rootHandler)
	e.GET("/probe", s.probeHandler)
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	// trailing slashes are stripped by the server pre-middleware
	e.POST("/pairs", s.createPairHandler)
	e.GET("/pairs", s.listPairsHandler)
	e.GET("/pairs/:id", s.getPairHandler)
	e.PUT("/pairs/:id", s.updatePairHandler)
	e.DELETE("/pairs/:id", s.deletePairHandler)
}

func (s *APIService) rootHandler(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, MessageResponse{Message: rootMessage})
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	if !s.coreService.IsHealthy(ctx.Request().Context()) {
		return core.ErrStorageUnavailable
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *APIService) createPairHandler(ctx echo.Context) error {
	input, err := bindPair(ctx)
	if err != nil {
		return err
	}

	pair, err := s.coreService.CreatePair(ctx.Request().Context(), input)
	if err != nil {
		return err
	}
	slog.Info("pair created", "id", pair.ID)
	return ctx.JSON(http.StatusOK, toPairResponse(pair))
}

func (s *APIService) listPairsHandler(ctx echo.Context) error {
	pairs, err := s.coreService.ListPairs(ctx.Request().Context())
	if err != nil {
		return err
	}

	response := make([]PairResponse, 0, len(pairs))
	for _, pair := range pairs {
		response = append(response, toPairResponse(pair))
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *APIService) getPairHandler(ctx echo.Context) error {
	pair, err := s.coreService.GetPair(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toPairResponse(pair))
}

func (s *APIService) updatePairHandler(ctx echo.Context) error {
	input, err := bindPair(ctx)
	if err != nil {
		return err
	}

	pair, err := s.coreService.UpdatePair(ctx.Request().Context(), ctx.Param("id"), input)
	if err != nil {
		return err
	}
	slog.Info("pair updated", "id", pair.ID)
	return ctx.JSON(http.StatusOK, toPairResponse(pair))
}

func (s *APIService) deletePairHandler(ctx echo.Context) error {
	id := ctx.Param("id")
	if err := s.coreService.DeletePair(ctx.Request().Context(), id); err != nil {
		return err
	}
	slog.Info("pair deleted", "id", id)
	return ctx.JSON(http.StatusOK, MessageResponse{Message: pairDeletedMessage})
}

// bindPair decodes and validates a pair body. Decoding and validation
// failures are both reported as 422.
func bindPair(ctx echo.Context) (core.PairInput, error) {
	var request PairRequest
	if err := ctx.Bind(&request); err != nil {
		detail := "received malformed request body"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			detail = fmt.Sprintf("%s: %v", detail, httpErr.Message)
		}
		return core.PairInput{}, echo.NewHTTPError(http.StatusUnprocessableEntity, detail).SetInternal(err)
	}
	if err := ctx.Validate(&request); err != nil {
		return core.PairInput{}, err
	}

	return core.PairInput{
		Img1:       *request.Img1,
		Img2:       *request.Img2,
		Similarity: int(*request.Similarity),
	}, nil
}

func toPairResponse(pair *database.ImagePair) PairResponse {
	return PairResponse{
		ID:         pair.ID,
		Img1:       pair.Img1,
		Img2:       pair.Img2,
		Similarity: pair.Similarity,
	}
}

// errorStatus maps an error returned by a handler to its status code and
// the detail shown to the client.
func errorStatus(err error) (int, string) {
	var httpErr *echo.HTTPError
	switch {
	case errors.Is(err, core.ErrPairNotFound):
		return http.StatusNotFound, pairNotFoundDetail
	case errors.Is(err, core.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, storageFailureDetail
	case errors.As(err, &httpErr):
		return httpErr.Code, fmt.Sprint(httpErr.Message)
	default:
		return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	}
}

// errorHandler renders errors as {"detail": "..."}.
func (s *APIService) errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	code, detail := errorStatus(err)
	if code >= http.StatusInternalServerError {
		slog.Error("request failed", "status", code, "path", ctx.Path(), "error", err)
	}

	if ctx.Request().Method == http.MethodHead {
		err = ctx.NoContent(code)
	} else {
		err = ctx.JSON(code, ErrorResponse{Detail: detail})
	}
	if err != nil {
		slog.Error("failed to write error response", "error", err)
	}
}
