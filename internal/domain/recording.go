package domain

// RecordingState is the state of an audio capture flow.
type RecordingState string

const (
	RecordingIdle      RecordingState = "idle"
	RecordingActive    RecordingState = "recording"
	RecordingPreview   RecordingState = "preview"
	RecordingUploading RecordingState = "uploading"
)

// RecordingEvent drives RecordingState transitions.
type RecordingEvent string

const (
	EventStart    RecordingEvent = "start"
	EventStop     RecordingEvent = "stop"
	EventConfirm  RecordingEvent = "confirm"
	EventReRecord RecordingEvent = "re_record"
	EventSucceed  RecordingEvent = "succeed"
	EventFail     RecordingEvent = "fail"
)

type recordingTransition struct {
	from  RecordingState
	event RecordingEvent
}

var recordingTable = map[recordingTransition]RecordingState{
	{RecordingIdle, EventStart}:        RecordingActive,
	{RecordingActive, EventStop}:       RecordingPreview,
	{RecordingPreview, EventConfirm}:   RecordingUploading,
	{RecordingPreview, EventReRecord}:  RecordingActive,
	{RecordingUploading, EventSucceed}: RecordingIdle,
	{RecordingUploading, EventFail}:    RecordingPreview,
}

// Next returns the state reached from s on e, and false when the
// transition is not allowed.
func (s RecordingState) Next(e RecordingEvent) (RecordingState, bool) {
	to, ok := recordingTable[recordingTransition{s, e}]
	if !ok {
		return s, false
	}
	return to, true
}
