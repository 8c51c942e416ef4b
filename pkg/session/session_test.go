package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skinlens/skinlens/pkg/models"
)

func sessionWithImage(t *testing.T) *Session {
	t.Helper()
	sess := New()
	require.NoError(t, sess.SelectImage("lesion.jpg", "image/jpeg", []byte("bytes")))
	return sess
}

func TestNewSessionStartsIdle(t *testing.T) {
	sess := New()
	snap := sess.Snapshot()
	assert.Equal(t, models.StateIdle, snap.State)
	assert.Nil(t, snap.Image)
	assert.NotEmpty(t, sess.ID)
}

func TestBeginAnalysisWithoutImage(t *testing.T) {
	sess := New()

	img, err := sess.BeginAnalysis()

	require.ErrorIs(t, err, ErrNoImage)
	assert.Nil(t, img)
	snap := sess.Snapshot()
	//a guard, not a transition: the session stays Idle with a prompt
	assert.Equal(t, models.StateIdle, snap.State)
	assert.Equal(t, "Please upload an image first", snap.Prompt)
}

func TestAnalysisLifecycle_Success(t *testing.T) {
	sess := sessionWithImage(t)

	img, err := sess.BeginAnalysis()
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, models.StateLoading, sess.Snapshot().State)

	prediction := "melanoma"
	sess.FinishResult(&models.PredictionResult{Prediction: &prediction})

	snap := sess.Snapshot()
	assert.Equal(t, models.StateResultShown, snap.State)
	require.NotNil(t, snap.Result)
	assert.Equal(t, "melanoma", *snap.Result.Prediction)
	assert.Empty(t, snap.ErrorMessage)
}

func TestAnalysisLifecycle_Failure(t *testing.T) {
	sess := sessionWithImage(t)

	_, err := sess.BeginAnalysis()
	require.NoError(t, err)
	sess.FinishError("model not loaded")

	snap := sess.Snapshot()
	assert.Equal(t, models.StateErrorShown, snap.State)
	assert.Equal(t, "model not loaded", snap.ErrorMessage)
	assert.Nil(t, snap.Result)
}

func TestBeginAnalysisWhileLoading(t *testing.T) {
	sess := sessionWithImage(t)
	_, err := sess.BeginAnalysis()
	require.NoError(t, err)

	_, err = sess.BeginAnalysis()
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, sess.SelectImage("other.png", "image/png", nil), ErrBusy)
}

func TestBeginAnalysisClearsPriorPanels(t *testing.T) {
	sess := sessionWithImage(t)
	_, err := sess.BeginAnalysis()
	require.NoError(t, err)
	sess.FinishError("first attempt failed")

	_, err = sess.BeginAnalysis()
	require.NoError(t, err)

	snap := sess.Snapshot()
	assert.Equal(t, models.StateLoading, snap.State)
	assert.Empty(t, snap.ErrorMessage)
	assert.Nil(t, snap.Result)
}

func TestSelectImageReplacesPriorSelection(t *testing.T) {
	sess := sessionWithImage(t)
	first, _ := sess.Image()

	require.NoError(t, sess.SelectImage("second.png", "image/png", []byte("other")))

	second, busy := sess.Image()
	assert.False(t, busy)
	assert.Equal(t, "second.png", second.Filename)
	//the preview token rotates so the old preview URL stops resolving
	assert.NotEqual(t, first.PreviewToken, second.PreviewToken)
}

func TestSelectImageClearsStalePanels(t *testing.T) {
	sess := sessionWithImage(t)
	_, err := sess.BeginAnalysis()
	require.NoError(t, err)
	sess.FinishError("boom")

	require.NoError(t, sess.SelectImage("fresh.jpg", "image/jpeg", []byte("x")))

	snap := sess.Snapshot()
	assert.Equal(t, models.StateIdle, snap.State)
	assert.Empty(t, snap.ErrorMessage)
	assert.Nil(t, snap.Result)
}

func TestEnsureSettledUnlocksAbandonedRequest(t *testing.T) {
	sess := sessionWithImage(t)
	_, err := sess.BeginAnalysis()
	require.NoError(t, err)

	sess.EnsureSettled()

	snap := sess.Snapshot()
	assert.Equal(t, models.StateErrorShown, snap.State)
	assert.NotEmpty(t, snap.ErrorMessage)
}

func TestEnsureSettledIsNoOpAfterSettling(t *testing.T) {
	sess := sessionWithImage(t)
	_, err := sess.BeginAnalysis()
	require.NoError(t, err)
	prediction := "nevus"
	sess.FinishResult(&models.PredictionResult{Prediction: &prediction})

	sess.EnsureSettled()

	snap := sess.Snapshot()
	assert.Equal(t, models.StateResultShown, snap.State)
	assert.NotNil(t, snap.Result)
}

func TestResetClearsEverything(t *testing.T) {
	states := []func(s *Session){
		func(s *Session) {}, //idle with image
		func(s *Session) {
			_, _ = s.BeginAnalysis()
			s.FinishResult(&models.PredictionResult{})
		},
		func(s *Session) {
			_, _ = s.BeginAnalysis()
			s.FinishError("boom")
		},
		func(s *Session) {
			_, _ = s.BeginAnalysis() //still loading
		},
	}

	for _, setup := range states {
		sess := sessionWithImage(t)
		setup(sess)

		sess.Reset()

		snap := sess.Snapshot()
		assert.Equal(t, models.StateIdle, snap.State)
		assert.Nil(t, snap.Image)
		assert.Nil(t, snap.Result)
		assert.Empty(t, snap.ErrorMessage)
		assert.Empty(t, snap.Prompt)
	}
}

func TestBeginAnalysisImageSurvivesReset(t *testing.T) {
	sess := sessionWithImage(t)

	img, err := sess.BeginAnalysis()
	require.NoError(t, err)
	sess.Reset()

	//the in-flight request keeps the image captured at transition time
	require.NotNil(t, img)
	assert.Equal(t, "lesion.jpg", img.Filename)
	cleared, _ := sess.Image()
	assert.Nil(t, cleared)
}

func TestSettleAfterResetIsDiscarded(t *testing.T) {
	prediction := "melanoma"

	t.Run("success outcome", func(t *testing.T) {
		sess := sessionWithImage(t)
		_, err := sess.BeginAnalysis()
		require.NoError(t, err)
		sess.Reset()

		sess.FinishResult(&models.PredictionResult{Prediction: &prediction})

		snap := sess.Snapshot()
		assert.Equal(t, models.StateIdle, snap.State)
		assert.Nil(t, snap.Result)
	})

	t.Run("failure outcome", func(t *testing.T) {
		sess := sessionWithImage(t)
		_, err := sess.BeginAnalysis()
		require.NoError(t, err)
		sess.Reset()

		sess.FinishError("boom")

		snap := sess.Snapshot()
		assert.Equal(t, models.StateIdle, snap.State)
		assert.Empty(t, snap.ErrorMessage)
	})
}

func TestShowErrorRefusedWhileLoading(t *testing.T) {
	sess := sessionWithImage(t)
	_, err := sess.BeginAnalysis()
	require.NoError(t, err)

	assert.ErrorIs(t, sess.ShowError("failed to read uploaded file"), ErrBusy)
	assert.Equal(t, models.StateLoading, sess.Snapshot().State)
}

func TestShowErrorWhileIdle(t *testing.T) {
	sess := New()

	require.NoError(t, sess.ShowError("failed to read uploaded file: EOF"))

	snap := sess.Snapshot()
	assert.Equal(t, models.StateErrorShown, snap.State)
	assert.Equal(t, "failed to read uploaded file: EOF", snap.ErrorMessage)
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(time.Minute)

	sess := store.New()
	got, ok := store.Get(sess.ID)

	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = store.Get("nope")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore(10 * time.Millisecond)

	sess := store.New()
	time.Sleep(30 * time.Millisecond)

	_, ok := store.Get(sess.ID)
	assert.False(t, ok)
}
