package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/docify/docify/pkg/errors"
)

// PresetMedicineNames are offered to users as quick picks.
var PresetMedicineNames = []string{"Aspirin", "DOLO 65", "Crocin", "Combiflame", "Diclofenac"}

// MedicineField holds one generated value verbatim. The generator may answer
// with a plain string or with a nested object or list.
type MedicineField []byte

// MarshalJSON implements json.Marshaler.
func (f MedicineField) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("null"), nil
	}
	return f, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *MedicineField) UnmarshalJSON(data []byte) error {
	if f == nil {
		return fmt.Errorf("entities.MedicineField: UnmarshalJSON on nil pointer")
	}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = nil
		return nil
	}
	*f = append((*f)[0:0], data...)
	return nil
}

// IsStructured reports whether the value is an object or a list.
func (f MedicineField) IsStructured() bool {
	trimmed := bytes.TrimSpace(f)
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// Text renders the value for display: strings unquoted, everything else
// pretty printed with two-space indentation.
func (f MedicineField) Text() string {
	trimmed := bytes.TrimSpace(f)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	if !f.IsStructured() {
		return string(trimmed)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return out.String()
}

// MedicineRecord is the structured description generated for a medicine.
type MedicineRecord struct {
	Uses        MedicineField `json:"Uses,omitempty"`
	Dosage      MedicineField `json:"Dosage,omitempty"`
	SideEffects MedicineField `json:"Side Effects,omitempty"`
	Route       MedicineField `json:"Route,omitempty"`
	Disclaimer  MedicineField `json:"Disclaimer,omitempty"`
}

// MedicineFieldNames lists the record keys in display order.
var MedicineFieldNames = []string{"Uses", "Dosage", "Side Effects", "Route", "Disclaimer"}

// MedicineFieldView is one rendered record entry.
type MedicineFieldView struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Fields renders the populated fields in display order.
func (r *MedicineRecord) Fields() []MedicineFieldView {
	values := []MedicineField{r.Uses, r.Dosage, r.SideEffects, r.Route, r.Disclaimer}
	views := make([]MedicineFieldView, 0, len(values))
	for i, value := range values {
		if len(value) == 0 {
			continue
		}
		views = append(views, MedicineFieldView{Name: MedicineFieldNames[i], Value: value.Text()})
	}
	return views
}

// ParseMedicineRecord parses generated text into a MedicineRecord. When the
// text is not a JSON object it is cut after the last closing brace and parsed
// once more. Anything still unparseable is a parse error and no partial
// record is returned.
func ParseMedicineRecord(text string) (*MedicineRecord, error) {
	trimmed := strings.TrimSpace(text)

	record, err := decodeMedicineRecord(trimmed)
	if err == nil {
		return record, nil
	}

	end := strings.LastIndex(trimmed, "}")
	if end < 0 {
		return nil, apperrors.NewParseError("generated text contains no JSON object", err)
	}

	record, retryErr := decodeMedicineRecord(trimmed[:end+1])
	if retryErr != nil {
		return nil, apperrors.NewParseError("generated text is not valid JSON", retryErr)
	}
	return record, nil
}

func decodeMedicineRecord(text string) (*MedicineRecord, error) {
	if !strings.HasPrefix(text, "{") {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var record MedicineRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, err
	}
	return &record, nil
}
