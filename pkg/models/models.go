package models

// UIState is the page state machine. Exactly one state is active at a time;
// StateIdle is both the initial state and the reset target.
type UIState string

const (
	StateIdle        UIState = "idle"
	StateLoading     UIState = "loading"
	StateResultShown UIState = "result"
	StateErrorShown  UIState = "error"
)

// SelectedImage is the file currently chosen for analysis. It is replaced on
// the next selection and cleared on reset. PreviewToken rotates with every
// selection so stale preview URLs stop resolving.
type SelectedImage struct {
	Filename     string
	ContentType  string
	Data         []byte
	PreviewToken string
}

// PredictionResult mirrors the inference endpoint's success payload. Both
// fields are optional on the wire, so absence must stay distinguishable from
// a zero value.
type PredictionResult struct {
	Prediction *string  `json:"prediction"`
	Confidence *float64 `json:"confidence"`
}
