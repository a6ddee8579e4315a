package models

// Evaluation references a previously generated interview evaluation
// artifact. FileName is nil when the backend stored the artifact without a
// label; display code substitutes a positional fallback.
type Evaluation struct {
	FileName *string `bson:"fileName,omitempty" json:"fileName,omitempty"`
	FileURL  string  `bson:"fileUrl" json:"fileUrl"`
}
