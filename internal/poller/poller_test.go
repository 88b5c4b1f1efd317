package poller

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type scriptedFetcher struct {
	batches [][]tgbotapi.Update
	offsets []int
	done    context.CancelFunc
}

func (f *scriptedFetcher) GetUpdates(offset, timeoutSeconds int) ([]tgbotapi.Update, error) {
	f.offsets = append(f.offsets, offset)
	if len(f.batches) == 0 {
		f.done()
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

type capturingPublisher struct {
	bodies [][]byte
	err    error
}

func (p *capturingPublisher) Publish(ctx context.Context, body []byte) error {
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

func TestPollerAdvancesOffset(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &scriptedFetcher{
		batches: [][]tgbotapi.Update{
			{{UpdateID: 100}, {UpdateID: 101}},
			{{UpdateID: 102}},
		},
		done: cancel,
	}
	publisher := &capturingPublisher{}

	err := New(fetcher, publisher, 30).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(publisher.bodies) != 3 {
		t.Fatalf("published %d updates, want 3", len(publisher.bodies))
	}

	var update tgbotapi.Update
	if err := json.Unmarshal(publisher.bodies[2], &update); err != nil {
		t.Fatal(err)
	}
	if update.UpdateID != 102 {
		t.Errorf("UpdateID = %d, want 102", update.UpdateID)
	}

	// First poll starts at zero, then each confirmed batch moves it.
	want := []int{0, 102, 103}
	if len(fetcher.offsets) != len(want) {
		t.Fatalf("offsets = %v, want %v", fetcher.offsets, want)
	}
	for i := range want {
		if fetcher.offsets[i] != want[i] {
			t.Errorf("offsets[%d] = %d, want %d", i, fetcher.offsets[i], want[i])
		}
	}
}

func TestPollerStopsOnPublishFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetcher := &scriptedFetcher{
		batches: [][]tgbotapi.Update{{{UpdateID: 100}}},
		done:    cancel,
	}
	publisher := &capturingPublisher{err: errors.New("broker down")}

	err := New(fetcher, publisher, 30).Run(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		t.Fatalf("expected a publish error, got %v", err)
	}
}
