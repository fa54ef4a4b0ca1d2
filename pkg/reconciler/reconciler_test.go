package reconciler

import (
	"testing"
	"time"

	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/stretchr/testify/assert"
)

type fakeEngine struct {
	kind    types.Kind
	order   *[]types.Kind
	reloads int
}

func (f *fakeEngine) Kind() types.Kind { return f.kind }

func (f *fakeEngine) Reload() {
	f.reloads++
	*f.order = append(*f.order, f.kind)
}

type chanExecutor chan func()

func (c chanExecutor) Submit(fn func()) { c <- fn }

func TestReconcileRunsEveryEngineInOrder(t *testing.T) {
	var order []types.Kind
	clips := &fakeEngine{kind: types.KindClip, order: &order}
	columns := &fakeEngine{kind: types.KindColumn, order: &order}
	decks := &fakeEngine{kind: types.KindDeck, order: &order}

	Reconcile(clips, columns, decks)

	assert.Equal(t, []types.Kind{types.KindClip, types.KindColumn, types.KindDeck}, order)
	assert.Equal(t, 1, clips.reloads)
}

func TestReconcilerSubmitsCycles(t *testing.T) {
	var order []types.Kind
	decks := &fakeEngine{kind: types.KindDeck, order: &order}
	exec := make(chanExecutor, 4)

	r := NewReconciler(exec, 10*time.Millisecond, decks)
	r.Start()
	defer r.Stop()

	select {
	case fn := <-exec:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no cycle submitted")
	}
	assert.Equal(t, 1, decks.reloads)
}

func TestReconcilerDisabled(t *testing.T) {
	exec := make(chanExecutor, 1)
	r := NewReconciler(exec, 0)
	r.Start()
	r.Stop()
	r.Stop()

	select {
	case <-exec:
		t.Fatal("disabled reconciler submitted a cycle")
	case <-time.After(30 * time.Millisecond):
	}
}
