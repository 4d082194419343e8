package testsupport

import (
	"context"
	"sync"

	"savekeeper/internal/device"
	"savekeeper/internal/title"
)

// FakeTitle describes one scripted title.
type FakeTitle struct {
	ID          title.ID
	Media       title.MediaKind
	ProductCode string
	Name        string
	Publisher   string
	Saves       []title.SaveType
	// Metadata overrides the blob derived from Name and Publisher.
	Metadata []byte
}

type fakeKey struct {
	media title.MediaKind
	id    title.ID
}

// FakeDevice is a scripted in-memory device.Service that records calls.
type FakeDevice struct {
	mu        sync.Mutex
	order     map[title.MediaKind][]title.ID
	entries   map[fakeKey]FakeTitle
	card      *FakeTitle
	cardKind  device.CardKind
	countErr  map[title.MediaKind]error
	listErr   map[title.MediaKind]error
	cardErr   error
	probeErr  map[title.ID]error
	probes    map[title.ID]int
	metaCalls map[title.ID]int
}

var _ device.Service = (*FakeDevice)(nil)

// NewFakeDevice returns an empty device with no card inserted.
func NewFakeDevice() *FakeDevice {
	return &FakeDevice{
		order:     make(map[title.MediaKind][]title.ID),
		entries:   make(map[fakeKey]FakeTitle),
		countErr:  make(map[title.MediaKind]error),
		listErr:   make(map[title.MediaKind]error),
		probeErr:  make(map[title.ID]error),
		probes:    make(map[title.ID]int),
		metaCalls: make(map[title.ID]int),
	}
}

// AddTitle installs titles in the order given.
func (f *FakeDevice) AddTitle(titles ...FakeTitle) *FakeDevice {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range titles {
		key := fakeKey{media: t.Media, id: t.ID}
		if _, exists := f.entries[key]; !exists {
			f.order[t.Media] = append(f.order[t.Media], t.ID)
		}
		f.entries[key] = t
	}
	return f
}

// InsertCard places a card title in the removable slot.
func (f *FakeDevice) InsertCard(kind device.CardKind, t FakeTitle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t.Media = title.RemovableCard
	f.entries[fakeKey{media: t.Media, id: t.ID}] = t
	f.card = &t
	f.cardKind = kind
}

// EjectCard empties the removable slot.
func (f *FakeDevice) EjectCard() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.card != nil {
		delete(f.entries, fakeKey{media: title.RemovableCard, id: f.card.ID})
	}
	f.card = nil
}

// FailCount makes CountTitles fail for media.
func (f *FakeDevice) FailCount(media title.MediaKind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countErr[media] = err
}

// FailList makes ListTitles fail for media.
func (f *FakeDevice) FailList(media title.MediaKind, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr[media] = err
}

// FailCard makes every card slot query fail.
func (f *FakeDevice) FailCard(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardErr = err
}

// FailProbe makes save-data probes for id fail.
func (f *FakeDevice) FailProbe(id title.ID, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeErr[id] = err
}

// Probes returns how many save-data probes id received.
func (f *FakeDevice) Probes(id title.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.probes[id]
}

// MetadataCalls returns how many metadata fetches id received.
func (f *FakeDevice) MetadataCalls(id title.ID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metaCalls[id]
}

func (f *FakeDevice) CountTitles(_ context.Context, media title.MediaKind) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.countErr[media]; err != nil {
		return 0, err
	}
	if media == title.RemovableCard {
		if f.card == nil {
			return 0, nil
		}
		return 1, nil
	}
	return uint32(len(f.order[media])), nil
}

func (f *FakeDevice) ListTitles(_ context.Context, media title.MediaKind, count uint32) ([]title.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[media]; err != nil {
		return nil, err
	}
	if media == title.RemovableCard {
		if f.card == nil || count == 0 {
			return nil, nil
		}
		return []title.ID{f.card.ID}, nil
	}
	ids := f.order[media]
	if int(count) < len(ids) {
		ids = ids[:count]
	}
	out := make([]title.ID, len(ids))
	copy(out, ids)
	return out, nil
}

func (f *FakeDevice) HasSaveData(_ context.Context, id title.ID, media title.MediaKind, t title.SaveType) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes[id]++
	if err := f.probeErr[id]; err != nil {
		return false, err
	}
	entry, ok := f.entries[fakeKey{media: media, id: id}]
	if !ok {
		return false, &device.ResultError{Op: "has_save_data", Code: device.CodeNotFound}
	}
	for _, s := range entry.Saves {
		if s == t {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeDevice) ProductCode(_ context.Context, id title.ID, media title.MediaKind) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[fakeKey{media: media, id: id}]
	if !ok {
		return "", &device.ResultError{Op: "product_code", Code: device.CodeNotFound}
	}
	return entry.ProductCode, nil
}

func (f *FakeDevice) Metadata(_ context.Context, id title.ID, media title.MediaKind) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metaCalls[id]++
	entry, ok := f.entries[fakeKey{media: media, id: id}]
	if !ok || (entry.Metadata == nil && entry.Name == "") {
		return nil, &device.ResultError{Op: "metadata", Code: device.CodeNotFound}
	}
	if entry.Metadata != nil {
		return entry.Metadata, nil
	}
	return title.EncodeMetadata(title.Metadata{
		Title:     title.NewWideText(entry.Name),
		Publisher: title.NewWideText(entry.Publisher),
	}), nil
}

func (f *FakeDevice) CardInserted(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cardErr != nil {
		return false, f.cardErr
	}
	return f.card != nil, nil
}

func (f *FakeDevice) CardKind(context.Context) (device.CardKind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cardErr != nil {
		return 0, f.cardErr
	}
	if f.card == nil {
		return 0, &device.ResultError{Op: "card_kind", Code: device.CodeNoCard}
	}
	return f.cardKind, nil
}
