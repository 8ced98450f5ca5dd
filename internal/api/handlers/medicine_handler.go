package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/docify/docify/internal/application/services"
)

const maxMedicineRequestBytes = 4 << 10

// MedicineDescriber generates medicine descriptions.
type MedicineDescriber interface {
	DescribeMedicine(ctx context.Context, name string) (*services.MedicineDescription, error)
	PresetMedicines() []string
}

// MedicineHandler handles medicine description endpoints.
type MedicineHandler struct {
	medicines MedicineDescriber
}

// NewMedicineHandler creates a new medicine handler.
func NewMedicineHandler(medicines MedicineDescriber) *MedicineHandler {
	return &MedicineHandler{medicines: medicines}
}

type describeMedicineRequest struct {
	Name string `json:"name"`
}

// DescribeMedicine handles POST /api/medicines/describe
func (h *MedicineHandler) DescribeMedicine(w http.ResponseWriter, r *http.Request) {
	var req describeMedicineRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMedicineRequestBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	description, err := h.medicines.DescribeMedicine(r.Context(), req.Name)
	if err != nil {
		respondWithAppError(w, r, err, "error occurred during generation or JSON parsing")
		return
	}

	respondWithJSON(w, http.StatusOK, description)
}

// ListPresets handles GET /api/medicines/presets
func (h *MedicineHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"medicines": h.medicines.PresetMedicines(),
	})
}
