// Package reconcile applies client-declared add/modify/delete intents for a
// parent-owned list of child records against persisted state. It knows
// nothing about complaint semantics; parties, comments and documents all run
// through the same engine, parameterized only by the create/update/delete
// functions for that child type.
package reconcile

import "fmt"

// Op is the decoded reconciliation intent for one staged item. The three
// raw booleans are decoded into this variant once at the boundary instead
// of being branched on throughout.
type Op int

const (
	// OpNone leaves the item untouched.
	OpNone Op = iota
	// OpSkip drops an item that was created then discarded client-side.
	OpSkip
	// OpCreate inserts a new child record scoped to the parent.
	OpCreate
	// OpUpdate updates the existing record by identifier.
	OpUpdate
	// OpDelete removes the matching persisted record by identifier.
	OpDelete
)

// String returns the op name for logs and per-item reports.
func (o Op) String() string {
	switch o {
	case OpSkip:
		return "skip"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "none"
}

// Classify decodes the three independent markers into a single Op.
// isNew && isDeleted collapses to OpSkip: the record never existed
// server-side, so there is nothing to persist or remove.
func Classify(isNew, isModified, isDeleted bool) Op {
	switch {
	case isNew && isDeleted:
		return OpSkip
	case isDeleted:
		return OpDelete
	case isNew:
		return OpCreate
	case isModified:
		return OpUpdate
	}
	return OpNone
}

// Item is the view of a staged child record the engine needs: its markers
// and its persisted identifier (zero for genuinely new items).
type Item interface {
	Markers() (isNew, isModified, isDeleted bool)
	ItemID() int64
}

// Funcs supplies the persistence operations for one child type. Delete must
// treat a missing identifier as a no-op; Create receives the item with its
// markers already irrelevant (callers strip them when mapping to entities).
type Funcs[T Item] struct {
	Create func(item T) error
	Update func(id int64, item T) error
	Delete func(id int64) error
}

// Result reports what happened to one staged item so the caller can
// aggregate partial failures without aborting the batch at the application
// layer. Whether the surrounding transaction rolls back is the caller's
// policy choice.
type Result struct {
	Index int
	Op    Op
	Err   error
}

// Apply runs the reconciliation algorithm over the staged items in order.
// Items present in storage but absent from the incoming list are not
// touched: omission is not deletion.
func Apply[T Item](items []T, funcs Funcs[T]) []Result {
	results := make([]Result, 0, len(items))
	for i, item := range items {
		isNew, isModified, isDeleted := item.Markers()
		op := Classify(isNew, isModified, isDeleted)
		res := Result{Index: i, Op: op}

		switch op {
		case OpSkip, OpNone:
			// no persisted effect
		case OpDelete:
			res.Err = funcs.Delete(item.ItemID())
		case OpCreate:
			res.Err = funcs.Create(item)
		case OpUpdate:
			if item.ItemID() == 0 {
				res.Err = fmt.Errorf("modified item at index %d has no identifier", i)
				break
			}
			res.Err = funcs.Update(item.ItemID(), item)
		}

		results = append(results, res)
	}
	return results
}

// FirstError returns the first per-item failure, or nil. Callers that want
// atomic rollback per parent save check this before committing.
func FirstError(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s at index %d: %w", r.Op, r.Index, r.Err)
		}
	}
	return nil
}
