package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestEffectQueueKeepsLatestUntilAck(t *testing.T) {
	q := NewEffectQueue()
	id := uuid.New()

	if _, ok := q.Peek(id); ok {
		t.Fatal("empty queue reported an effect")
	}
	q.Push(id, Effect{Type: EffectConfirmFinish})
	q.Push(id, *snackbar(snackbarSaved))

	e, ok := q.Peek(id)
	if !ok || e.Type != EffectSnackbar || e.Message != snackbarSaved {
		t.Fatalf("Peek() = %+v, %v", e, ok)
	}
	if _, ok := q.Peek(id); !ok {
		t.Fatal("Peek() must not consume the effect")
	}
	if !q.Ack(id) {
		t.Fatal("Ack() reported nothing pending")
	}
	if q.Ack(id) {
		t.Fatal("second Ack() reported a pending effect")
	}
	if _, ok := q.Peek(uuid.New()); ok {
		t.Fatal("effects leaked across games")
	}
}
