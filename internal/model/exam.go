package model

// ExamMetadata is the free-text header information of an exam paper.
// Every field is optional.
type ExamMetadata struct {
	Title       string `json:"title"`
	Institution string `json:"institution"`
	Course      string `json:"course"`
	Discipline  string `json:"discipline"`
	Instructor  string `json:"instructor"`
}

// FilterCriteria narrows the question bank. An empty categorical field
// places no constraint on that dimension.
type FilterCriteria struct {
	Term       string     `json:"term"`
	Discipline string     `json:"discipline"`
	Difficulty Difficulty `json:"difficulty"`
	Type       string     `json:"type"`
	Creator    string     `json:"creator"`
}

// UpdateMetadataRequest is the payload for replacing exam metadata.
type UpdateMetadataRequest struct {
	Title       string `json:"title" binding:"max=255"`
	Institution string `json:"institution" binding:"max=255"`
	Course      string `json:"course" binding:"max=255"`
	Discipline  string `json:"discipline" binding:"max=255"`
	Instructor  string `json:"instructor" binding:"max=255"`
}

// ToMetadata converts the request into ExamMetadata.
func (r UpdateMetadataRequest) ToMetadata() ExamMetadata {
	return ExamMetadata(r)
}

// UpdateCriteriaRequest is the payload for replacing filter criteria.
type UpdateCriteriaRequest struct {
	Term       string `json:"term" binding:"max=200"`
	Discipline string `json:"discipline" binding:"max=255"`
	Difficulty string `json:"difficulty" binding:"difficulty"`
	Type       string `json:"type" binding:"max=100"`
	Creator    string `json:"creator" binding:"max=255"`
}

// ToCriteria converts the request into FilterCriteria.
func (r UpdateCriteriaRequest) ToCriteria() FilterCriteria {
	return FilterCriteria{
		Term:       r.Term,
		Discipline: r.Discipline,
		Difficulty: Difficulty(r.Difficulty),
		Type:       r.Type,
		Creator:    r.Creator,
	}
}
