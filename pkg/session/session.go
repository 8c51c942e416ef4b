package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/skinlens/skinlens/pkg/models"
)

var (
	//analyze pressed with nothing selected; a guard, not a state transition
	ErrNoImage = errors.New("Please upload an image first")
	//a request is already in flight for this session
	ErrBusy = errors.New("analysis already in progress")
)

// Session holds everything one browser tab sees: the selected image, the
// page state and the panel contents. All transitions go through methods so
// that the state machine stays explicit.
type Session struct {
	ID string

	mu      sync.Mutex
	state   models.UIState
	image   *models.SelectedImage
	result  *models.PredictionResult
	errText string
	prompt  string
}

func New() *Session {
	return &Session{
		ID:    uuid.NewString(),
		state: models.StateIdle,
	}
}

// Snapshot is a consistent read of the session for rendering.
type Snapshot struct {
	State        models.UIState
	Image        *models.SelectedImage
	Result       *models.PredictionResult
	ErrorMessage string
	Prompt       string
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:        s.state,
		Image:        s.image,
		Result:       s.result,
		ErrorMessage: s.errText,
		Prompt:       s.prompt,
	}
}

// SelectImage replaces any prior selection. The preview token rotates so the
// previous preview URL stops resolving, and stale result or error panels are
// cleared because they belong to the previous image.
func (s *Session) SelectImage(filename, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.StateLoading {
		return ErrBusy
	}
	s.image = &models.SelectedImage{
		Filename:     filename,
		ContentType:  contentType,
		Data:         data,
		PreviewToken: uuid.NewString(),
	}
	s.state = models.StateIdle
	s.result = nil
	s.errText = ""
	s.prompt = ""
	return nil
}

// Image returns the current selection together with the session's busy flag.
func (s *Session) Image() (*models.SelectedImage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image, s.state == models.StateLoading
}

// BeginAnalysis moves Idle/ResultShown/ErrorShown into Loading and returns
// the image the request must use, captured under the same lock so a
// concurrent Reset cannot pull it away. It fails without a transition when
// no image is selected (ErrNoImage, surfaced as a prompt) or when a request
// is already in flight (ErrBusy). A non-nil image means the caller now owns
// the in-flight request and must settle it.
func (s *Session) BeginAnalysis() (*models.SelectedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.StateLoading {
		return nil, ErrBusy
	}
	if s.image == nil {
		s.prompt = ErrNoImage.Error()
		return nil, ErrNoImage
	}
	//entering Loading hides any prior panel
	s.state = models.StateLoading
	s.result = nil
	s.errText = ""
	s.prompt = ""
	return s.image, nil
}

// FinishResult settles an in-flight request on the success path. A session
// that is no longer Loading was reset while the request was outstanding; its
// outcome is discarded rather than resurrected onto the fresh session.
func (s *Session) FinishResult(res *models.PredictionResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.StateLoading {
		return
	}
	s.state = models.StateResultShown
	s.result = res
	s.errText = ""
}

// FinishError settles an in-flight request on the failure path, with the
// same discard rule as FinishResult.
func (s *Session) FinishError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != models.StateLoading {
		return
	}
	s.state = models.StateErrorShown
	s.errText = message
	s.result = nil
}

// ShowError surfaces a failure that happened outside the request lifecycle,
// such as an unreadable upload. Refused while a request is in flight so it
// cannot stomp the Loading lock.
func (s *Session) ShowError(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.StateLoading {
		return ErrBusy
	}
	s.state = models.StateErrorShown
	s.errText = message
	s.result = nil
	s.prompt = ""
	return nil
}

// EnsureSettled is deferred around the network call. If the session is still
// Loading when it runs, something exited without settling (a panic in the
// handler), and the UI must not stay locked.
func (s *Session) EnsureSettled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == models.StateLoading {
		s.state = models.StateErrorShown
		s.errText = "analysis did not complete"
	}
}

// Reset returns the session to its initial state: selection, preview, result
// and error panels are all cleared regardless of where the session was.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.StateIdle
	s.image = nil
	s.result = nil
	s.errText = ""
	s.prompt = ""
}
