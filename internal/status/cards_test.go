package status

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Normal", "#10b981"},
		{"Operational", "#10b981"},
		{"High Alert", "#f59e0b"},
		{"Maintenance", "#f59e0b"},
		{"Critical", "#ef4444"},
		{"Down", "#ef4444"},
		{"Sunny +31°C", "#000"},
		{"", "#000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SeverityColor(tt.text), "text %q", tt.text)
	}
}

func TestBoardSlots(t *testing.T) {
	b := NewBoard()

	cards := b.Cards()
	assert.Len(t, cards, 4)
	for _, c := range cards {
		assert.Equal(t, "Loading...", c.Value)
	}

	b.Update(SlotEmergency, "Critical")
	b.UpdateCount(7)
	assert.Equal(t, "Critical", b.Get(SlotEmergency))
	assert.Equal(t, "7", b.Get(SlotReportCount))

	// Unknown slots never create new cards.
	b.Update(Slot("bogus"), "x")
	assert.Len(t, b.Cards(), 4)
}

type lookupFunc func(ctx context.Context, place string) (string, error)

func (f lookupFunc) Lookup(ctx context.Context, place string) (string, error) {
	return f(ctx, place)
}

func TestWeatherText(t *testing.T) {
	ok := lookupFunc(func(ctx context.Context, place string) (string, error) {
		return "Partly cloudy +29°C", nil
	})
	failing := lookupFunc(func(ctx context.Context, place string) (string, error) {
		return "", errors.New("timeout")
	})

	assert.Equal(t, "Partly cloudy +29°C", WeatherText(context.Background(), ok, "Kampung Seri Aman"))
	assert.Equal(t, WeatherUnavailable, WeatherText(context.Background(), failing, "Kampung Seri Aman"))
	// No recorded village name is also the unavailable case.
	assert.Equal(t, WeatherUnavailable, WeatherText(context.Background(), ok, ""))
}
