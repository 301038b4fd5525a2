package model

// Syllogism pairs a major and a minor premise with an optional derived conclusion.
// Conclusion is written only by the deductive validator.
type Syllogism struct {
	MajorPremise *Proposition `json:"major_premise,omitempty" yaml:"major_premise,omitempty"`
	MinorPremise *Proposition `json:"minor_premise,omitempty" yaml:"minor_premise,omitempty"`
	Conclusion   *Proposition `json:"conclusion,omitempty" yaml:"conclusion,omitempty"`
}

// NewSyllogism builds a candidate syllogism with no conclusion yet
func NewSyllogism(major, minor *Proposition) *Syllogism {
	return &Syllogism{MajorPremise: major, MinorPremise: minor}
}

// Complete reports whether both premises are present
func (s *Syllogism) Complete() bool {
	return s != nil && s.MajorPremise != nil && s.MinorPremise != nil
}

// Mood names a classical valid syllogistic form (Barbara, Celarent, ...)
type Mood string

const (
	// Figure 1: M-P, S-M
	MoodBarbara  Mood = "Barbara"
	MoodCelarent Mood = "Celarent"
	MoodDarii    Mood = "Darii"
	MoodFerio    Mood = "Ferio"

	// Figure 2: P-M, S-M
	MoodCesare    Mood = "Cesare"
	MoodCamestres Mood = "Camestres"
	MoodFestino   Mood = "Festino"
	MoodBaroco    Mood = "Baroco"

	// Figure 3: M-P, M-S
	MoodDarapti  Mood = "Darapti"
	MoodFelapton Mood = "Felapton"
	MoodDisamis  Mood = "Disamis"
	MoodDatisi   Mood = "Datisi"
	MoodBocardo  Mood = "Bocardo"
	MoodFerison  Mood = "Ferison"

	// Figure 4: P-M, M-S
	MoodBaralipton Mood = "Baralipton"
	MoodCelantes   Mood = "Celantes"
	MoodDabitis    Mood = "Dabitis"
	MoodFapesmo    Mood = "Fapesmo"
	MoodCamenes    Mood = "Camenes"
)

func (m Mood) String() string {
	return string(m)
}
