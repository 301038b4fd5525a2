package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/syllogix/internal/model"
)

func prop(q model.Quantifier, s, p string) *model.Proposition {
	return model.NewProposition(q, s, p)
}

// canonicalCases are the literal table rows: one premise pair per mood.
var canonicalCases = []struct {
	mood       model.Mood
	major      *model.Proposition
	minor      *model.Proposition
	conclusion *model.Proposition
}{
	// Figure 1
	{model.MoodBarbara, prop(qA, "M", "P"), prop(qA, "S", "M"), prop(qA, "S", "P")},
	{model.MoodCelarent, prop(qE, "M", "P"), prop(qA, "S", "M"), prop(qE, "S", "P")},
	{model.MoodDarii, prop(qA, "M", "P"), prop(qI, "S", "M"), prop(qI, "S", "P")},
	{model.MoodFerio, prop(qE, "M", "P"), prop(qI, "S", "M"), prop(qO, "S", "P")},
	// Figure 2
	{model.MoodCesare, prop(qE, "P", "M"), prop(qA, "S", "M"), prop(qE, "S", "P")},
	{model.MoodCamestres, prop(qA, "P", "M"), prop(qE, "S", "M"), prop(qE, "S", "P")},
	{model.MoodFestino, prop(qE, "P", "M"), prop(qI, "S", "M"), prop(qO, "S", "P")},
	{model.MoodBaroco, prop(qA, "P", "M"), prop(qO, "S", "M"), prop(qO, "S", "P")},
	// Figure 3
	{model.MoodDarapti, prop(qA, "M", "P"), prop(qA, "M", "S"), prop(qI, "S", "P")},
	{model.MoodFelapton, prop(qE, "M", "P"), prop(qA, "M", "S"), prop(qO, "S", "P")},
	{model.MoodDisamis, prop(qI, "M", "P"), prop(qA, "M", "S"), prop(qI, "S", "P")},
	{model.MoodDatisi, prop(qA, "M", "P"), prop(qI, "M", "S"), prop(qI, "S", "P")},
	{model.MoodBocardo, prop(qO, "M", "P"), prop(qA, "M", "S"), prop(qO, "S", "P")},
	{model.MoodFerison, prop(qE, "M", "P"), prop(qI, "M", "S"), prop(qO, "S", "P")},
	// Figure 4
	{model.MoodBaralipton, prop(qA, "P", "M"), prop(qA, "M", "S"), prop(qI, "S", "P")},
	{model.MoodCelantes, prop(qE, "P", "M"), prop(qA, "M", "S"), prop(qE, "S", "P")},
	{model.MoodDabitis, prop(qI, "P", "M"), prop(qA, "M", "S"), prop(qI, "S", "P")},
	{model.MoodFapesmo, prop(qE, "P", "M"), prop(qI, "M", "S"), prop(qO, "S", "P")},
	{model.MoodCamenes, prop(qA, "P", "M"), prop(qE, "M", "S"), prop(qE, "S", "P")},
}

func TestValidate_CanonicalMoods(t *testing.T) {
	v := NewValidator()

	for _, tc := range canonicalCases {
		t.Run(string(tc.mood), func(t *testing.T) {
			step := model.NewDeductiveStep(1, "canonical", tc.major, tc.minor)
			step.Confidence = 0.2

			got := v.Validate(step)
			require.Same(t, step, got)
			require.True(t, got.IsValid)
			require.NotNil(t, got.Mood)
			assert.Equal(t, tc.mood, *got.Mood)
			assert.Equal(t, 1.0, got.Confidence)
			assert.Empty(t, got.Summary)

			concl := got.Syllogism.Conclusion
			require.NotNil(t, concl)
			assert.Equal(t, tc.conclusion.Quantifier, concl.Quantifier)
			assert.Equal(t, tc.conclusion.Subject, concl.Subject)
			assert.Equal(t, tc.conclusion.Predicate, concl.Predicate)
		})
	}
}

func TestValidate_ConcreteTerms(t *testing.T) {
	v := NewValidator()

	step := v.ValidatePremises("Is Socrates mortal?",
		prop(qA, "men", "mortal"),
		prop(qA, "Greeks", "men"),
	)
	require.True(t, step.IsValid)
	assert.Equal(t, model.MoodBarbara, *step.Mood)
	assert.Equal(t, "All Greeks are mortal", step.Syllogism.Conclusion.String())

	// Figure 3: S comes from the minor premise's predicate
	step = v.ValidatePremises("", prop(qI, "students", "athletes"), prop(qA, "students", "enrolled"))
	require.True(t, step.IsValid)
	assert.Equal(t, model.MoodDisamis, *step.Mood)
	assert.Equal(t, "Some enrolled are athletes", step.Syllogism.Conclusion.String())
}

func TestValidate_UnrelatedPremises(t *testing.T) {
	v := NewValidator()
	step := model.NewDeductiveStep(1, "q", prop(qA, "X", "Y"), prop(qA, "A", "B"))

	v.Validate(step)

	assert.False(t, step.IsValid)
	assert.Nil(t, step.Syllogism.Conclusion)
	assert.Nil(t, step.Mood)
	assert.Contains(t, step.Summary, "Premises do not form a valid known syllogism")
	assert.Contains(t, step.Summary, MarkerNoMatchingMood)
}

func TestValidate_MissingPremises(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name string
		step *model.ReasoningStep
	}{
		{"no syllogism", model.NewStep(1, "q", model.ReasoningDeductive)},
		{"both absent", model.NewDeductiveStep(1, "q", nil, nil)},
		{"major absent", model.NewDeductiveStep(1, "q", nil, prop(qA, "S", "M"))},
		{"minor absent", model.NewDeductiveStep(1, "q", prop(qA, "M", "P"), nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.step.Summary = "formalizer output"
			got := v.Validate(tt.step)
			assert.False(t, got.IsValid)
			assert.Nil(t, got.Mood)
			assert.Contains(t, got.Summary, "[EngineError: Missing")
			assert.Equal(t, "formalizer output "+MarkerMissingPremises, got.Summary)
		})
	}
}

func TestValidate_LeavesMoodUntouchedOnMissingPremises(t *testing.T) {
	v := NewValidator()
	step := model.NewStep(1, "q", model.ReasoningDeductive)
	mood := model.MoodFerio
	step.Mood = &mood

	v.Validate(step)

	require.NotNil(t, step.Mood)
	assert.Equal(t, model.MoodFerio, *step.Mood)
}

func TestValidate_Idempotent(t *testing.T) {
	v := NewValidator()
	step := model.NewDeductiveStep(1, "q", prop(qE, "P", "M"), prop(qI, "S", "M"))

	v.Validate(step)
	require.True(t, step.IsValid)
	firstMood := *step.Mood
	firstConclusion := *step.Syllogism.Conclusion

	v.Validate(step)
	require.True(t, step.IsValid)
	assert.Equal(t, firstMood, *step.Mood)
	assert.Equal(t, firstConclusion, *step.Syllogism.Conclusion)
	assert.Empty(t, step.Summary)
}

func TestValidate_DoesNotMutatePremises(t *testing.T) {
	v := NewValidator()
	major, minor := prop(qA, "M", "P"), prop(qA, "S", "M")
	majorCopy, minorCopy := *major, *minor

	v.Validate(model.NewDeductiveStep(1, "q", major, minor))

	assert.Equal(t, majorCopy, *major)
	assert.Equal(t, minorCopy, *minor)
}

func TestValidate_StatisticalNeverMatches(t *testing.T) {
	v := NewValidator()
	stat := model.NewStatistical(80, "M", "P")

	for _, q := range []model.Quantifier{qA, qE, qI, qO} {
		step := v.ValidatePremises("q", stat, prop(q, "S", "M"))
		assert.False(t, step.IsValid, "statistical major with %s minor", q)

		step = v.ValidatePremises("q", prop(q, "M", "P"), model.NewStatistical(80, "S", "M"))
		assert.False(t, step.IsValid, "%s major with statistical minor", q)
	}
}

// Structure matching is case-sensitive while ledger lookup is not; both are intended.
func TestValidate_TermIdentityIsCaseSensitive(t *testing.T) {
	v := NewValidator()

	step := v.ValidatePremises("q", prop(qA, "Men", "mortal"), prop(qA, "Greeks", "men"))
	assert.False(t, step.IsValid)

	step = v.ValidatePremises("q", prop(qA, "men ", "mortal"), prop(qA, "Greeks", "men"))
	assert.False(t, step.IsValid)
}

func TestRuleSet_EveryRuleReachableAndUnshadowed(t *testing.T) {
	rs := DefaultRuleSet()
	require.Equal(t, len(canonicalCases), rs.Len())

	fired := make(map[model.Mood]bool)
	for _, tc := range canonicalCases {
		matches := rs.Matches(tc.major, tc.minor)
		require.Equal(t, []model.Mood{tc.mood}, matches, "exactly one mood for %s", tc.mood)

		rule, _, ok := rs.First(tc.major, tc.minor)
		require.True(t, ok)
		assert.Equal(t, tc.mood, rule.Mood)
		fired[rule.Mood] = true
	}

	for _, r := range rs.Rules() {
		assert.True(t, fired[r.Mood], "mood %s never fired", r.Mood)
	}
}

func TestRuleSet_Order(t *testing.T) {
	want := []model.Mood{
		model.MoodBarbara, model.MoodCelarent, model.MoodDarii, model.MoodFerio,
		model.MoodCesare, model.MoodCamestres, model.MoodFestino, model.MoodBaroco,
		model.MoodDarapti, model.MoodFelapton, model.MoodDisamis, model.MoodDatisi, model.MoodBocardo, model.MoodFerison,
		model.MoodBaralipton, model.MoodCelantes, model.MoodDabitis, model.MoodFapesmo, model.MoodCamenes,
	}

	var got []model.Mood
	lastFigure := Figure1
	for _, r := range DefaultRuleSet().Rules() {
		got = append(got, r.Mood)
		assert.GreaterOrEqual(t, r.Figure, lastFigure, "figures ascend")
		lastFigure = r.Figure
	}
	assert.Equal(t, want, got)
}

// A premise pair that reuses one term satisfies several figures; the table order decides.
func TestRuleSet_FirstMatchWinsOnDegeneratePremises(t *testing.T) {
	v := NewValidator()
	major, minor := prop(qA, "M", "M"), prop(qA, "M", "M")

	assert.Equal(t, []model.Mood{model.MoodBarbara, model.MoodDarapti, model.MoodBaralipton},
		v.Rules().Matches(major, minor))

	step := v.ValidatePremises("q", major, minor)
	require.True(t, step.IsValid)
	assert.Equal(t, model.MoodBarbara, *step.Mood)
	assert.Equal(t, qA, step.Syllogism.Conclusion.Quantifier)
}

func TestRuleSet_CustomOrderChangesWinner(t *testing.T) {
	darapti, _ := DefaultRuleSet().Lookup(model.MoodDarapti)
	barbara, _ := DefaultRuleSet().Lookup(model.MoodBarbara)

	rs, err := NewRuleSet(darapti, barbara)
	require.NoError(t, err)

	step := NewValidatorWithRules(rs).ValidatePremises("q", prop(qA, "M", "M"), prop(qA, "M", "M"))
	assert.Equal(t, model.MoodDarapti, *step.Mood)
}

func TestNewRuleSet_RejectsShadowingAndDuplicates(t *testing.T) {
	barbara, _ := DefaultRuleSet().Lookup(model.MoodBarbara)

	_, err := NewRuleSet(barbara, barbara)
	assert.ErrorContains(t, err, "registered twice")

	shadow := barbara
	shadow.Mood = "Barbari"
	shadow.Conclusion = qI
	_, err = NewRuleSet(barbara, shadow)
	assert.ErrorContains(t, err, "shadows Barbara")

	bad := barbara
	bad.Mood = "Statistica"
	bad.Major = model.QuantifierStatistical
	_, err = NewRuleSet(bad)
	assert.Error(t, err)

	_, err = NewRuleSet(Rule{Mood: "Nowhere", Figure: 5, Major: qA, Minor: qA, Conclusion: qA})
	assert.ErrorContains(t, err, "unknown figure")
}

func TestRule_FormAndDescribe(t *testing.T) {
	rs := DefaultRuleSet()

	forms := map[model.Mood]string{
		model.MoodBarbara:    "AAA-1",
		model.MoodCamestres:  "AEE-2",
		model.MoodBocardo:    "OAO-3",
		model.MoodFapesmo:    "EIO-4",
		model.MoodBaralipton: "AAI-4",
	}
	for mood, form := range forms {
		r, ok := rs.Lookup(mood)
		require.True(t, ok)
		assert.Equal(t, form, r.Form())
	}

	barbara, _ := rs.Lookup(model.MoodBarbara)
	assert.Equal(t, "All M are P, All S are M => All S are P", barbara.Describe())
	assert.Equal(t, "M-P, S-M", barbara.Figure.Pattern())

	_, ok := rs.Lookup("Bramantip")
	assert.False(t, ok)
}

func TestRules_ReturnsCopy(t *testing.T) {
	rules := DefaultRuleSet().Rules()
	rules[0].Mood = "Mutated"

	first := DefaultRuleSet().Rules()[0]
	assert.Equal(t, model.MoodBarbara, first.Mood)
}
