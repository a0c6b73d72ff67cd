package types

type TranscriptionResult struct {
	Transcription     string `json:"transcription"`
	SourceFilename    string `json:"source_filename"`
	AudioArtifactName string `json:"audio_artifact_name"`
}

type OutlineRequest struct {
	TopicSpec
	SourceTranscript string `json:"source_transcript,omitempty"`
}

type LessonRequest struct {
	Section Section   `json:"section"`
	Spec    TopicSpec `json:"spec"`
}

type QuestionRequest struct {
	Topic string `json:"topic"`
}

type RemoteVideoRequest struct {
	URL string `json:"url"`
}

type ExportRequest struct {
	Topic     string       `json:"topic"`
	Questions QuestionBank `json:"questions"`
}
