package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Grade labels for the school years the center tutors.
const (
	GradePrimary1 = "grade_1"
	GradePrimary2 = "grade_2"
	GradePrimary3 = "grade_3"
	GradePrimary4 = "grade_4"
	GradePrimary5 = "grade_5"
	GradePrimary6 = "grade_6"
	GradeJunior1  = "junior_1"
	GradeJunior2  = "junior_2"
	GradeJunior3  = "junior_3"
	GradeSenior1  = "senior_1"
	GradeSenior2  = "senior_2"
	GradeSenior3  = "senior_3"
)

// ValidGrade reports whether the label is a known grade.
func ValidGrade(grade string) bool {
	switch grade {
	case GradePrimary1, GradePrimary2, GradePrimary3, GradePrimary4, GradePrimary5, GradePrimary6,
		GradeJunior1, GradeJunior2, GradeJunior3,
		GradeSenior1, GradeSenior2, GradeSenior3:
		return true
	}
	return false
}

// Student represents an enrolled learner. The IsOldStudent flag feeds the
// three-subject discount tier during settlement.
type Student struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	Name         string         `gorm:"size:255;not null" json:"name"`
	Grade        string         `gorm:"size:32;not null" json:"grade"`
	Phone        string         `gorm:"size:32" json:"phone"`
	Wechat       string         `gorm:"size:64" json:"wechat,omitempty"`
	IsOldStudent bool           `gorm:"not null" json:"is_old_student"`
	Subjects     datatypes.JSON `gorm:"type:json" json:"subjects"`
	Remarks      string         `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// SubjectList decodes the enrolled subject set. Enrollment is advisory:
// billing is driven by class records, not this list.
func (s Student) SubjectList() []Subject {
	if len(s.Subjects) == 0 {
		return nil
	}
	var subjects []Subject
	if err := json.Unmarshal(s.Subjects, &subjects); err != nil {
		return nil
	}
	return subjects
}

// SetSubjects encodes the enrolled subject set onto the JSON column.
func (s *Student) SetSubjects(subjects []Subject) error {
	payload, err := json.Marshal(subjects)
	if err != nil {
		return err
	}
	s.Subjects = datatypes.JSON(payload)
	return nil
}
