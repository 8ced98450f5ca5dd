package services_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/docify/docify/internal/domain/entities"
	"github.com/docify/docify/internal/domain/providers"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type stubOCR struct {
	text string
	err  error
}

func (s *stubOCR) ExtractText(ctx context.Context, image []byte) (string, error) {
	return s.text, s.err
}

// MockTextGenerator is a testify mock for providers.TextGenerator.
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

// sequenceGenerator returns its replies in order, repeating the last one.
type sequenceGenerator struct {
	mu      sync.Mutex
	replies []string
	calls   int
}

func (g *sequenceGenerator) Generate(ctx context.Context, req providers.GenerationRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	reply := g.replies[len(g.replies)-1]
	if g.calls < len(g.replies) {
		reply = g.replies[g.calls]
	}
	g.calls++
	return reply, nil
}

type stubDirectory struct {
	response *entities.PlacesSearchResponse
	err      error
	calls    atomic.Int32
	block    chan struct{}

	mu          sync.Mutex
	specialties []entities.Specialty
}

func (d *stubDirectory) NearbyDoctors(ctx context.Context, center providers.Coordinates, specialty entities.Specialty) (*entities.PlacesSearchResponse, error) {
	d.calls.Add(1)
	d.mu.Lock()
	d.specialties = append(d.specialties, specialty)
	d.mu.Unlock()
	if d.block != nil {
		<-d.block
	}
	return d.response, d.err
}

func (d *stubDirectory) Specialties() []entities.Specialty {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entities.Specialty(nil), d.specialties...)
}

func placesResponse(count int) *entities.PlacesSearchResponse {
	resp := &entities.PlacesSearchResponse{Status: "OK"}
	for i := 0; i < count; i++ {
		rating := 4.0
		resp.Results = append(resp.Results, entities.PlaceResult{
			PlaceID:  "place",
			Name:     "Clinic",
			Vicinity: "1 Main St",
			Rating:   &rating,
		})
	}
	return resp
}
