package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/health"
	"github.com/Skufu/heartcheck/internal/imagery"
)

type imageFetcher interface {
	FetchPage(ctx context.Context, page string) ([]string, error)
}

type server struct {
	sessions *sessionStore
	images   imageFetcher
	logger   zerolog.Logger
}

// submitRequest carries the intake form. The tags enforce the form's ranges and
// choices; the workflow checks the remaining business rules.
type submitRequest struct {
	Name          string `json:"name"`
	Age           int    `json:"age" binding:"required,min=18,max=100"`
	Gender        string `json:"gender" binding:"required,oneof=Male Female"`
	BloodPressure int    `json:"bloodPressure" binding:"required,min=90,max=200"`
	Cholesterol   int    `json:"cholesterol" binding:"required,min=100,max=500"`
	ChestPainType string `json:"chestPainType" binding:"required,oneof=0 1 2 3"`
}

var fieldProblems = map[string]string{
	"Age":           fmt.Sprintf("age must be between %d and %d", health.MinAge, health.MaxAge),
	"Gender":        "gender must be Male or Female",
	"BloodPressure": fmt.Sprintf("blood pressure must be between %d and %d mmHg", health.MinBloodPressure, health.MaxBloodPressure),
	"Cholesterol":   fmt.Sprintf("cholesterol must be between %d and %d mg/dL", health.MinCholesterol, health.MaxCholesterol),
	"ChestPainType": "chest pain type must be one of 0, 1, 2, 3",
}

func bindingProblems(errs validator.ValidationErrors) *health.ValidationError {
	verr := &health.ValidationError{}
	for _, fe := range errs {
		msg, ok := fieldProblems[fe.Field()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		verr.Problems = append(verr.Problems, msg)
	}
	return verr
}

func (r submitRequest) profile() health.Profile {
	return health.Profile{
		Name:          r.Name,
		Age:           r.Age,
		Gender:        health.Gender(r.Gender),
		BloodPressure: r.BloodPressure,
		Cholesterol:   r.Cholesterol,
		ChestPainType: r.ChestPainType,
	}
}

// jsonRenderer writes workflow views as the response body.
type jsonRenderer struct {
	c *gin.Context
}

func (r jsonRenderer) Render(v assessment.View) error {
	r.c.JSON(http.StatusOK, v)
	return nil
}

// withSession runs fn against the caller's workflow while holding its lock. Only
// create starts a session; other callers without one get a fresh, unstored workflow.
func (s *server) withSession(c *gin.Context, create bool, fn func(w *assessment.Workflow)) {
	id, _ := c.Cookie(sessionCookie)
	sess, ok := s.sessions.lookup(id)
	if !ok {
		if !create {
			fn(s.sessions.newWorkflow())
			return
		}
		id, sess = s.sessions.start()
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.sessions.ttl.Seconds()), "/", "", false, true)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.workflow)
}

func (s *server) getSession(c *gin.Context) {
	s.withSession(c, false, func(w *assessment.Workflow) {
		_ = w.Render(jsonRenderer{c})
	})
}

func (s *server) submit(c *gin.Context) {
	var payload submitRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			s.respondError(c, bindingProblems(verrs))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	profile := payload.profile()

	s.withSession(c, true, func(w *assessment.Workflow) {
		if err := w.Submit(profile); err != nil {
			s.respondError(c, err)
			return
		}
		s.logger.Info().
			Str("page", string(w.Page())).
			Bool("risk", bool(*w.State().Risk)).
			Msg("assessment submitted")
		_ = w.Render(jsonRenderer{c})
	})
}

func (s *server) viewDiet(c *gin.Context) {
	s.transition(c, (*assessment.Workflow).ViewDiet)
}

func (s *server) back(c *gin.Context) {
	s.transition(c, (*assessment.Workflow).Back)
}

func (s *server) startOver(c *gin.Context) {
	s.transition(c, (*assessment.Workflow).StartOver)
}

func (s *server) transition(c *gin.Context, step func(*assessment.Workflow) error) {
	s.withSession(c, false, func(w *assessment.Workflow) {
		if err := step(w); err != nil {
			s.respondError(c, err)
			return
		}
		_ = w.Render(jsonRenderer{c})
	})
}

func (s *server) downloadReport(c *gin.Context) {
	s.withSession(c, false, func(w *assessment.Workflow) {
		rep, err := w.Download()
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+rep.Filename+`"`)
		c.Data(http.StatusOK, rep.ContentType, rep.Data)
	})
}

func (s *server) pageImages(c *gin.Context) {
	page := c.Param("page")
	if _, ok := imagery.Sources[page]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown page"})
		return
	}

	images, err := s.images.FetchPage(c.Request.Context(), page)
	if err != nil {
		s.logger.Warn().Err(err).Str("page", page).Msg("image fetch failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "image_fetch_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "images": images})
}

func (s *server) respondError(c *gin.Context, err error) {
	var verr *health.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "validation_failed",
			"message": "Please fill all the fields with valid values.",
			"details": verr.Problems,
		})
	case errors.Is(err, health.ErrPrecondition):
		c.JSON(http.StatusConflict, gin.H{"error": "precondition_failed", "message": err.Error()})
	case errors.Is(err, assessment.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": err.Error()})
	case errors.Is(err, health.ErrConfiguration):
		s.logger.Error().Err(err).Msg("prediction unavailable")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration_error"})
	default:
		s.logger.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
