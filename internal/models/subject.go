package models

// Subject identifies one of the subjects taught at the center.
type Subject string

const (
	SubjectChinese   Subject = "chinese"
	SubjectMath      Subject = "math"
	SubjectEnglish   Subject = "english"
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
)

// AllSubjects lists every subject the center offers.
var AllSubjects = []Subject{
	SubjectChinese,
	SubjectMath,
	SubjectEnglish,
	SubjectPhysics,
	SubjectChemistry,
}

// Valid reports whether the subject is one of the known subjects.
func (s Subject) Valid() bool {
	switch s {
	case SubjectChinese, SubjectMath, SubjectEnglish, SubjectPhysics, SubjectChemistry:
		return true
	}
	return false
}

// IsChinese reports whether the subject is priced on the standalone Chinese
// rate instead of the multi-subject tier scheme.
func (s Subject) IsChinese() bool {
	return s == SubjectChinese
}
