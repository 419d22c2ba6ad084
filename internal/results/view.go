package results

import "github.com/school-system/results-portal/internal/models"

// Views are what leaves the process. Every sgpa, cgpa and grade point in
// a view is a finite number or "N/A"; stored values are never rewritten.

type SubjectView struct {
	Name        string      `json:"name"`
	Credit      int         `json:"credit"`
	Grade       string      `json:"grade"`
	GradePoints interface{} `json:"gradePoints"`
}

type ResultView struct {
	ResultKey string        `json:"resultKey"`
	Semester  string        `json:"semester"`
	SGPA      interface{}   `json:"sgpa"`
	CGPA      interface{}   `json:"cgpa"`
	Subjects  []SubjectView `json:"subjects"`
}

type SummaryView struct {
	Metadata      models.Metadata `json:"metadata"`
	AvailableKeys []string        `json:"availableKeys"`
	DefaultKey    string          `json:"defaultKey"`
}

type DetailView struct {
	Metadata models.Metadata `json:"metadata"`
	Result   ResultView      `json:"result"`
}

type StudentView struct {
	Metadata models.Metadata       `json:"metadata"`
	Results  map[string]ResultView `json:"results"`
}

type StoreView struct {
	UploadedFiles []models.UploadFileRecord `json:"uploadedFiles"`
	StudentData   map[string]StudentView    `json:"studentData"`
}

func NewResultView(b models.ResultBlock) ResultView {
	v := ResultView{
		ResultKey: b.ResultKey,
		Semester:  b.Semester,
		SGPA:      b.SGPA.Display(),
		CGPA:      b.CGPA.Display(),
		Subjects:  make([]SubjectView, 0, len(b.Subjects)),
	}
	for _, s := range b.Subjects {
		grade := s.Grade
		if grade == "" {
			grade = models.NotAvailable
		}
		v.Subjects = append(v.Subjects, SubjectView{
			Name:        s.Name,
			Credit:      s.Credit,
			Grade:       grade,
			GradePoints: s.GradePoints.Display(),
		})
	}
	return v
}

func NewSummaryView(s Summary) SummaryView {
	keys := s.AvailableKeys
	if keys == nil {
		keys = []string{}
	}
	return SummaryView{Metadata: s.Metadata, AvailableKeys: keys, DefaultKey: s.DefaultKey}
}

func NewDetailView(d Detail) DetailView {
	return DetailView{Metadata: d.Metadata, Result: NewResultView(d.Result)}
}

// NewStoreView renders the whole store in the snapshot's shape.
func NewStoreView(store *models.Store) StoreView {
	v := StoreView{
		UploadedFiles: store.UploadedFiles,
		StudentData:   make(map[string]StudentView, len(store.StudentData)),
	}
	if v.UploadedFiles == nil {
		v.UploadedFiles = []models.UploadFileRecord{}
	}
	for id, rec := range store.StudentData {
		sv := StudentView{Metadata: rec.Metadata, Results: make(map[string]ResultView, len(rec.Results))}
		for key, block := range rec.Results {
			sv.Results[key] = NewResultView(block)
		}
		v.StudentData[id] = sv
	}
	return v
}
