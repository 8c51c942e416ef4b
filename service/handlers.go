package service

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skinlens/skinlens/pkg/models"
	"github.com/skinlens/skinlens/pkg/render"
	"github.com/skinlens/skinlens/pkg/session"
)

const sessionCookie = "skinlens_session"

// sessionFor finds the caller's session by cookie, creating one (and setting
// the cookie) on first contact.
func (s *Service) sessionFor(c echo.Context) *session.Session {
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		if sess, ok := s.sessions.Get(cookie.Value); ok {
			s.sessions.Touch(sess)
			return sess
		}
	}
	sess := s.sessions.New()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
	})
	return sess
}

func (s *Service) Page(c echo.Context) error {
	sess := s.sessionFor(c)
	return c.Render(http.StatusOK, "page", newPageData(sess))
}

func (s *Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Upload takes the first file under the "image" field as the new selection;
// any additional files are silently ignored. No type or size validation
// beyond the multipart cap: a non-image simply renders as a broken preview.
func (s *Service) Upload(c echo.Context) error {
	sess := s.sessionFor(c)

	filename, contentType, data, err := extractImageFromRequest(c, s.cfg.Upload.MaxSizeMB<<20)
	if err != nil {
		//refused while a request is in flight, like every other mutation
		sess.ShowError(fmt.Sprintf("failed to read uploaded file: %v", err))
		return c.Redirect(http.StatusSeeOther, "/")
	}

	if err := sess.SelectImage(filename, contentType, data); err != nil {
		//browse is disabled while a request is in flight
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func extractImageFromRequest(c echo.Context, maxSize int64) (string, string, []byte, error) {
	c.Request().ParseMultipartForm(maxSize)
	form, err := c.MultipartForm()
	if err != nil {
		return "", "", nil, err
	}

	files, exists := form.File["image"]
	if !exists || len(files) == 0 {
		return "", "", nil, fmt.Errorf("image file not found in the req")
	}

	//only the first file counts, the rest of a multi-select is dropped
	src, err := files[0].Open()
	if err != nil {
		return "", "", nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", nil, err
	}
	return files[0].Filename, files[0].Header.Get("Content-Type"), data, nil
}

// Analyze runs the whole request lifecycle: guard, lock, one POST to the
// inference endpoint, settle, unlock. The deferred EnsureSettled guarantees
// the page never stays locked, whatever path this exits through.
func (s *Service) Analyze(c echo.Context) error {
	sess := s.sessionFor(c)

	img, err := sess.BeginAnalysis()
	if err != nil {
		if errors.Is(err, session.ErrBusy) {
			//trigger is disabled while loading; a duplicate submit is dropped
			return c.Redirect(http.StatusSeeOther, "/")
		}
		//no image selected: prompt recorded on the session, no request issued
		return c.Redirect(http.StatusSeeOther, "/")
	}
	defer sess.EnsureSettled()

	result, err := s.predictor.Predict(c.Request().Context(), img)
	if err != nil {
		sess.FinishError(err.Error())
	} else {
		sess.FinishResult(result)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (s *Service) Reset(c echo.Context) error {
	sess := s.sessionFor(c)
	sess.Reset()
	return c.Redirect(http.StatusSeeOther, "/")
}

// Preview serves the selected image bytes for the <img> element. The URL is
// transient: the v token rotates on every selection, so a URL for a replaced
// or cleared image stops resolving.
func (s *Service) Preview(c echo.Context) error {
	sess, ok := s.sessions.Get(c.Param("id"))
	if !ok {
		return c.NoContent(http.StatusNotFound)
	}
	img, _ := sess.Image()
	if img == nil || c.QueryParam("v") != img.PreviewToken {
		return c.NoContent(http.StatusNotFound)
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, contentType, img.Data)
}

// SessionStatus reports the page state machine as JSON.
func (s *Service) SessionStatus(c echo.Context) error {
	sess := s.sessionFor(c)
	snap := sess.Snapshot()

	resp := map[string]any{
		"state":     snap.State,
		"has_image": snap.Image != nil,
	}
	if snap.Prompt != "" {
		resp["prompt"] = snap.Prompt
	}
	if snap.ErrorMessage != "" {
		resp["error"] = snap.ErrorMessage
	}
	if snap.State == models.StateResultShown {
		view := render.NewResultView(snap.Result)
		resp["result"] = map[string]string{
			"prediction": view.Label,
			"confidence": view.Confidence,
			"badge":      view.Badge,
		}
	}
	return c.JSON(http.StatusOK, resp)
}
