package entities

import "github.com/invopop/jsonschema"

// medicineRecordShape mirrors MedicineRecord with plain string values, which
// is what structured output modes accept.
type medicineRecordShape struct {
	Uses        string `json:"Uses" jsonschema:"description=What the medicine is used for"`
	Dosage      string `json:"Dosage" jsonschema:"description=Typical adult dosage"`
	SideEffects string `json:"Side Effects" jsonschema:"description=Common side effects"`
	Route       string `json:"Route" jsonschema:"description=Route of administration"`
	Disclaimer  string `json:"Disclaimer" jsonschema:"description=Medical disclaimer"`
}

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// MedicineRecordSchemaName names the schema in structured output requests.
const MedicineRecordSchemaName = "medicine_record"

// MedicineRecordSchema is the JSON schema requested from generators that
// support structured output.
var MedicineRecordSchema = generateSchema[medicineRecordShape]()
