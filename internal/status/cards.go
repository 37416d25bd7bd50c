package status

import (
	"context"
	"strconv"
	"sync"

	"village-ems/internal/models"
)

// Slot names the four fixed status cards.
type Slot string

const (
	SlotWeather     Slot = "weather"
	SlotEmergency   Slot = "emergencyLevel"
	SlotReportCount Slot = "reportCount"
	SlotService     Slot = "serviceLevel"
)

const loadingText = "Loading..."

// WeatherUnavailable is the literal fallback shown when the lookup
// fails or the user has no recorded village name.
const WeatherUnavailable = "Unavailable"

type Card struct {
	Slot  Slot
	Label string
	Value string
}

// slotOrder fixes the display order of the cards.
var slotOrder = []Slot{SlotWeather, SlotEmergency, SlotReportCount, SlotService}

var slotLabels = map[Slot]string{
	SlotWeather:     "Weather",
	SlotEmergency:   "Emergency Status",
	SlotReportCount: "Today's Reports",
	SlotService:     "Service Status",
}

// Board holds the card slots. Slots are created once at init and only
// their text mutates afterwards.
type Board struct {
	mu     sync.RWMutex
	values map[Slot]string
}

func NewBoard() *Board {
	values := make(map[Slot]string, len(slotOrder))
	for _, slot := range slotOrder {
		values[slot] = loadingText
	}
	return &Board{values: values}
}

// Update sets a slot's display text. Unknown slots are ignored.
func (b *Board) Update(slot Slot, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[slot]; ok {
		b.values[slot] = text
	}
}

// UpdateCount renders the report count into its slot.
func (b *Board) UpdateCount(n int) {
	b.Update(SlotReportCount, strconv.Itoa(n))
}

// Cards returns the cards in display order.
func (b *Board) Cards() []Card {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cards := make([]Card, 0, len(slotOrder))
	for _, slot := range slotOrder {
		cards = append(cards, Card{Slot: slot, Label: slotLabels[slot], Value: b.values[slot]})
	}
	return cards
}

// Get returns the current text of one slot.
func (b *Board) Get(slot Slot) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.values[slot]
}

// Severity colors, applied only for display.
const (
	colorGreen   = "#10b981"
	colorAmber   = "#f59e0b"
	colorRed     = "#ef4444"
	colorNeutral = "#000"
)

var severityColors = map[string]string{
	models.EmergencyNormal:    colorGreen,
	models.EmergencyHighAlert: colorAmber,
	models.EmergencyCritical:  colorRed,
	models.ServiceOperational: colorGreen,
	models.ServiceMaintenance: colorAmber,
	models.ServiceDown:        colorRed,
}

// SeverityColor maps a status text to its display color. Anything
// outside the fixed vocabulary is neutral.
func SeverityColor(text string) string {
	if color, ok := severityColors[text]; ok {
		return color
	}
	return colorNeutral
}

// WeatherLookup resolves a free-text place name to a condition string.
type WeatherLookup interface {
	Lookup(ctx context.Context, place string) (string, error)
}

// WeatherText fetches the weather card text for a village, falling back
// to the literal unavailable marker on any failure, including a user
// with no recorded village name.
func WeatherText(ctx context.Context, lookup WeatherLookup, villageName string) string {
	if villageName == "" {
		return WeatherUnavailable
	}
	text, err := lookup.Lookup(ctx, villageName)
	if err != nil || text == "" {
		return WeatherUnavailable
	}
	return text
}
