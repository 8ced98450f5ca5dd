package entities

import "strings"

// DiseaseCategory is a coarse bucket assigned to a report summary.
type DiseaseCategory string

const (
	DiseaseCategoryCardiovascular DiseaseCategory = "cardiovascular"
	DiseaseCategoryNeurological   DiseaseCategory = "neurological"
	DiseaseCategoryRespiratory    DiseaseCategory = "respiratory"
	DiseaseCategoryDiabetes       DiseaseCategory = "diabetes"
	DiseaseCategoryCancer         DiseaseCategory = "cancer"
	DiseaseCategoryOrthopedic     DiseaseCategory = "orthopedic"
	DiseaseCategoryGeneral        DiseaseCategory = "general"
)

// Specialty is the practitioner type used as the doctor search keyword.
type Specialty string

const (
	SpecialtyCardiology          Specialty = "cardiology"
	SpecialtyNeurology           Specialty = "neurology"
	SpecialtyPulmonology         Specialty = "pulmonology"
	SpecialtyEndocrinology       Specialty = "endocrinology"
	SpecialtyOncology            Specialty = "oncology"
	SpecialtyOrthopedics         Specialty = "orthopedics"
	SpecialtyGeneralPractitioner Specialty = "general practitioner"
)

type categoryKeywords struct {
	category DiseaseCategory
	keywords []string
}

// Declaration order is the only tie-break: the first category with a matching
// keyword wins. "stroke" is listed under both cardiovascular and neurological,
// so it always resolves to cardiovascular.
var diseaseKeywordTable = []categoryKeywords{
	{DiseaseCategoryCardiovascular, []string{"heart", "cardiac", "stroke"}},
	{DiseaseCategoryNeurological, []string{"brain", "neurology", "stroke", "epilepsy"}},
	{DiseaseCategoryRespiratory, []string{"lungs", "asthma", "bronchitis"}},
	{DiseaseCategoryDiabetes, []string{"diabetes", "insulin", "blood sugar"}},
	{DiseaseCategoryCancer, []string{"cancer", "tumor", "oncology"}},
	{DiseaseCategoryOrthopedic, []string{"joint", "bone", "orthopedic"}},
	{DiseaseCategoryGeneral, []string{"health", "examination", "treatment"}},
}

var specialtyByCategory = map[DiseaseCategory]Specialty{
	DiseaseCategoryCardiovascular: SpecialtyCardiology,
	DiseaseCategoryNeurological:   SpecialtyNeurology,
	DiseaseCategoryRespiratory:    SpecialtyPulmonology,
	DiseaseCategoryDiabetes:       SpecialtyEndocrinology,
	DiseaseCategoryCancer:         SpecialtyOncology,
	DiseaseCategoryOrthopedic:     SpecialtyOrthopedics,
	DiseaseCategoryGeneral:        SpecialtyGeneralPractitioner,
}

// DiseaseCategories returns the closed set of categories in declaration order.
func DiseaseCategories() []DiseaseCategory {
	categories := make([]DiseaseCategory, 0, len(diseaseKeywordTable))
	for _, row := range diseaseKeywordTable {
		categories = append(categories, row.category)
	}
	return categories
}

// IsValid reports whether c belongs to the closed category set.
func (c DiseaseCategory) IsValid() bool {
	_, ok := specialtyByCategory[c]
	return ok
}

// ClassifyDisease returns the first category whose keyword occurs as a
// case-insensitive substring of text, or DiseaseCategoryGeneral when none does.
func ClassifyDisease(text string) DiseaseCategory {
	lowered := strings.ToLower(text)
	for _, row := range diseaseKeywordTable {
		for _, keyword := range row.keywords {
			if strings.Contains(lowered, keyword) {
				return row.category
			}
		}
	}
	return DiseaseCategoryGeneral
}

// ResolveSpecialty maps a category to its specialty. Unknown categories map
// to the general practitioner.
func ResolveSpecialty(category DiseaseCategory) Specialty {
	if specialty, ok := specialtyByCategory[category]; ok {
		return specialty
	}
	return SpecialtyGeneralPractitioner
}
