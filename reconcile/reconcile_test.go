package reconcile_test

import (
	"errors"
	"testing"

	"github.com/SagorIslamOfficial/hrm-sub003/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeItem is a minimal staged child record for engine tests.
type fakeItem struct {
	id         int64
	name       string
	isNew      bool
	isModified bool
	isDeleted  bool
}

func (f fakeItem) Markers() (bool, bool, bool) { return f.isNew, f.isModified, f.isDeleted }
func (f fakeItem) ItemID() int64               { return f.id }

// fakeStore is an in-memory child table keyed by id.
type fakeStore struct {
	rows   map[int64]string
	nextID int64
}

func newFakeStore(existing map[int64]string) *fakeStore {
	s := &fakeStore{rows: map[int64]string{}, nextID: 100}
	for id, name := range existing {
		s.rows[id] = name
	}
	return s
}

func (s *fakeStore) funcs() reconcile.Funcs[fakeItem] {
	return reconcile.Funcs[fakeItem]{
		Create: func(item fakeItem) error {
			s.nextID++
			s.rows[s.nextID] = item.name
			return nil
		},
		Update: func(id int64, item fakeItem) error {
			if _, ok := s.rows[id]; !ok {
				return errors.New("no such row")
			}
			s.rows[id] = item.name
			return nil
		},
		Delete: func(id int64) error {
			delete(s.rows, id) // missing id is a no-op, not an error
			return nil
		},
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name                         string
		isNew, isModified, isDeleted bool
		want                         reconcile.Op
	}{
		{"unchanged", false, false, false, reconcile.OpNone},
		{"new", true, false, false, reconcile.OpCreate},
		{"modified", false, true, false, reconcile.OpUpdate},
		{"deleted", false, false, true, reconcile.OpDelete},
		{"created then discarded", true, false, true, reconcile.OpSkip},
		{"new wins over modified", true, true, false, reconcile.OpCreate},
		{"deleted wins over modified", false, true, true, reconcile.OpDelete},
		{"all three markers", true, true, true, reconcile.OpSkip},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, reconcile.Classify(tc.isNew, tc.isModified, tc.isDeleted))
		})
	}
}

func TestApplyCreateUpdateDelete(t *testing.T) {
	store := newFakeStore(map[int64]string{1: "alpha", 2: "beta"})

	results := reconcile.Apply([]fakeItem{
		{isNew: true, name: "gamma"},
		{id: 1, isModified: true, name: "alpha-2"},
		{id: 2, isDeleted: true},
	}, store.funcs())

	require.NoError(t, reconcile.FirstError(results))
	assert.Len(t, results, 3)
	assert.Equal(t, "alpha-2", store.rows[1])
	assert.NotContains(t, store.rows, int64(2))
	assert.Contains(t, store.rows, int64(101))
	assert.Equal(t, "gamma", store.rows[101])
}

func TestApplySkipNeverPersists(t *testing.T) {
	store := newFakeStore(nil)

	results := reconcile.Apply([]fakeItem{
		{isNew: true, isDeleted: true, name: "ghost"},
	}, store.funcs())

	require.NoError(t, reconcile.FirstError(results))
	assert.Equal(t, reconcile.OpSkip, results[0].Op)
	assert.Empty(t, store.rows, "created-then-discarded item must never appear in storage")
}

func TestApplyOmissionIsNotDeletion(t *testing.T) {
	store := newFakeStore(map[int64]string{1: "alpha", 2: "beta"})

	// Incoming list mentions only row 1; row 2 must be untouched.
	results := reconcile.Apply([]fakeItem{
		{id: 1, isModified: true, name: "alpha-2"},
	}, store.funcs())

	require.NoError(t, reconcile.FirstError(results))
	assert.Equal(t, "beta", store.rows[2])
}

func TestApplyUpdateIdempotent(t *testing.T) {
	store := newFakeStore(map[int64]string{1: "alpha"})
	item := fakeItem{id: 1, isModified: true, name: "alpha-2"}

	require.NoError(t, reconcile.FirstError(reconcile.Apply([]fakeItem{item}, store.funcs())))
	require.NoError(t, reconcile.FirstError(reconcile.Apply([]fakeItem{item}, store.funcs())))

	assert.Len(t, store.rows, 1, "applying the same modification twice must not duplicate the record")
	assert.Equal(t, "alpha-2", store.rows[1])
}

func TestApplyDeleteMissingIsNoop(t *testing.T) {
	store := newFakeStore(map[int64]string{1: "alpha"})

	results := reconcile.Apply([]fakeItem{
		{id: 42, isDeleted: true},
	}, store.funcs())

	require.NoError(t, reconcile.FirstError(results))
	assert.Equal(t, "alpha", store.rows[1])
}

func TestApplyUnchangedItemNoAction(t *testing.T) {
	calls := 0
	funcs := reconcile.Funcs[fakeItem]{
		Create: func(fakeItem) error { calls++; return nil },
		Update: func(int64, fakeItem) error { calls++; return nil },
		Delete: func(int64) error { calls++; return nil },
	}

	results := reconcile.Apply([]fakeItem{{id: 7}}, funcs)

	assert.Equal(t, 0, calls)
	assert.Equal(t, reconcile.OpNone, results[0].Op)
}

func TestApplyReportsPerItemFailures(t *testing.T) {
	boom := errors.New("boom")
	funcs := reconcile.Funcs[fakeItem]{
		Create: func(fakeItem) error { return boom },
		Update: func(int64, fakeItem) error { return nil },
		Delete: func(int64) error { return nil },
	}

	results := reconcile.Apply([]fakeItem{
		{isNew: true},
		{id: 1, isModified: true},
	}, funcs)

	assert.ErrorIs(t, results[0].Err, boom)
	assert.NoError(t, results[1].Err)
	assert.ErrorIs(t, reconcile.FirstError(results), boom)
}

func TestApplyModifiedWithoutIDFails(t *testing.T) {
	store := newFakeStore(nil)

	results := reconcile.Apply([]fakeItem{
		{isModified: true, name: "orphan"},
	}, store.funcs())

	assert.Error(t, results[0].Err)
}
