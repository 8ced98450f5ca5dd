package entities

import (
	"encoding/json"
	"testing"

	apperrors "github.com/docify/docify/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMedicineRecord_StrictJSON(t *testing.T) {
	text := `  {"Uses":"pain relief","Dosage":"500mg","Side Effects":"nausea","Route":"oral","Disclaimer":"ask a doctor"}  `

	record, err := ParseMedicineRecord(text)
	require.NoError(t, err)

	assert.Equal(t, "pain relief", record.Uses.Text())
	assert.Equal(t, "nausea", record.SideEffects.Text())
	assert.Equal(t, "ask a doctor", record.Disclaimer.Text())
}

func TestParseMedicineRecord_RecoversFromTrailingText(t *testing.T) {
	record, err := ParseMedicineRecord(`{"Uses":"pain relief"} trailing garbage`)
	require.NoError(t, err)

	assert.Equal(t, "pain relief", record.Uses.Text())
	assert.Empty(t, record.Dosage)

	encoded, err := json.Marshal(record)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Uses":"pain relief"}`, string(encoded))
}

func TestParseMedicineRecord_NoClosingBrace(t *testing.T) {
	record, err := ParseMedicineRecord(`Uses: pain relief, Dosage: 500mg`)

	assert.Nil(t, record)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParse))
}

func TestParseMedicineRecord_RecoveryFailsOnce(t *testing.T) {
	// Cutting at the last brace still leaves the leading prose.
	_, err := ParseMedicineRecord(`Here you go: {"Uses":"pain relief"}`)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParse))

	_, err = ParseMedicineRecord(`{"Uses": "pain relief", "Dosage": }`)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeParse))
}

func TestParseMedicineRecord_RejectsNonObjects(t *testing.T) {
	for _, text := range []string{"", "null", `["Uses"]`, `"Uses"`} {
		_, err := ParseMedicineRecord(text)
		assert.Error(t, err, text)
	}
}

func TestMedicineRecord_FieldsRendersNestedValues(t *testing.T) {
	record, err := ParseMedicineRecord(`{"Uses":"fever","Dosage":{"Adults":"1 tablet","Children":"ask"},"Route":"oral"}`)
	require.NoError(t, err)

	fields := record.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, MedicineFieldView{Name: "Uses", Value: "fever"}, fields[0])
	assert.Equal(t, "Dosage", fields[1].Name)
	assert.Equal(t, "{\n  \"Adults\": \"1 tablet\",\n  \"Children\": \"ask\"\n}", fields[1].Value)
	assert.True(t, record.Dosage.IsStructured())
	assert.Equal(t, "Route", fields[2].Name)
}

func TestMedicineRecordSchema_ListsAllKeys(t *testing.T) {
	require.NotNil(t, MedicineRecordSchema)
	require.NotNil(t, MedicineRecordSchema.Properties)
	for _, name := range MedicineFieldNames {
		_, ok := MedicineRecordSchema.Properties.Get(name)
		assert.True(t, ok, name)
	}
	assert.ElementsMatch(t, MedicineFieldNames, MedicineRecordSchema.Required)
}
