package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDisease_KeywordMatches(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected DiseaseCategory
	}{
		{"cardiac event", "Possible cardiac event noted", DiseaseCategoryCardiovascular},
		{"uppercase keyword", "HEART murmur detected", DiseaseCategoryCardiovascular},
		{"brain", "MRI of the brain shows no abnormality", DiseaseCategoryNeurological},
		{"epilepsy", "History of Epilepsy", DiseaseCategoryNeurological},
		{"asthma", "mild asthma, use inhaler", DiseaseCategoryRespiratory},
		{"multi word keyword", "Elevated Blood Sugar levels", DiseaseCategoryDiabetes},
		{"insulin", "insulin resistance suspected", DiseaseCategoryDiabetes},
		{"tumor", "a small tumor was found", DiseaseCategoryCancer},
		{"substring inside word", "osteoarthritis of the knee joints", DiseaseCategoryOrthopedic},
		{"general keyword", "routine examination completed", DiseaseCategoryGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDisease(tt.text))
		})
	}
}

func TestClassifyDisease_DeclarationOrderWins(t *testing.T) {
	// joint appears first in the text but cancer is declared before orthopedic.
	assert.Equal(t, DiseaseCategoryCancer, ClassifyDisease("joint pain near the tumor site"))
	// stroke is listed under both cardiovascular and neurological.
	assert.Equal(t, DiseaseCategoryCardiovascular, ClassifyDisease("history of stroke affecting the brain"))
	assert.Equal(t, DiseaseCategoryCardiovascular, ClassifyDisease("stroke"))
}

func TestClassifyDisease_NoKeywordFallsBackToGeneral(t *testing.T) {
	assert.Equal(t, DiseaseCategoryGeneral, ClassifyDisease("Vitamin D levels are within range."))
	assert.Equal(t, DiseaseCategoryGeneral, ClassifyDisease(""))
	assert.Equal(t, DiseaseCategoryGeneral, ClassifyDisease("No result"))
}

func TestClassifyDisease_AlwaysInClosedSet(t *testing.T) {
	inputs := []string{"", "heart", "???", "lungs and bone", "ÜBER cancer", "treatment"}
	for _, input := range inputs {
		assert.True(t, ClassifyDisease(input).IsValid(), input)
	}
}

func TestResolveSpecialty_Total(t *testing.T) {
	expected := map[DiseaseCategory]Specialty{
		DiseaseCategoryCardiovascular: SpecialtyCardiology,
		DiseaseCategoryNeurological:   SpecialtyNeurology,
		DiseaseCategoryRespiratory:    SpecialtyPulmonology,
		DiseaseCategoryDiabetes:       SpecialtyEndocrinology,
		DiseaseCategoryCancer:         SpecialtyOncology,
		DiseaseCategoryOrthopedic:     SpecialtyOrthopedics,
		DiseaseCategoryGeneral:        SpecialtyGeneralPractitioner,
	}

	seen := make(map[Specialty]DiseaseCategory)
	for _, category := range DiseaseCategories() {
		specialty := ResolveSpecialty(category)
		assert.Equal(t, expected[category], specialty)
		if other, dup := seen[specialty]; dup {
			t.Errorf("specialty %q shared by %q and %q", specialty, other, category)
		}
		seen[specialty] = category
	}
	assert.Len(t, seen, 7)
}

func TestResolveSpecialty_UnknownCategory(t *testing.T) {
	assert.Equal(t, SpecialtyGeneralPractitioner, ResolveSpecialty("dermatological"))
	assert.Equal(t, SpecialtyGeneralPractitioner, ResolveSpecialty(""))
	assert.False(t, DiseaseCategory("dermatological").IsValid())
}
