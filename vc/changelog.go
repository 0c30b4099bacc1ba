package vc

// ChangeKind tags a journal record.
type ChangeKind uint8

const (
	ChangeAdd ChangeKind = iota
	ChangeRemove
	ChangeProcessed
)

type change struct {
	kind ChangeKind
	vc   VC
	// index is the list position at the time of the mutation, so a
	// reverse replay restores the exact ordering.
	index int
}

// Log journals every list mutation of a build so a search can roll a
// speculative position back. Records are replayed in reverse: an Add
// is removed, a Remove re-inserted, a Processed flag cleared.
type Log struct {
	changes []change
}

func NewLog() *Log { return &Log{} }

func (l *Log) Len() int { return len(l.changes) }

// Mark returns a position to roll back to later.
func (l *Log) Mark() int { return len(l.changes) }

func (l *Log) pushAdd(v VC, index int) {
	l.changes = append(l.changes, change{kind: ChangeAdd, vc: v, index: index})
}

func (l *Log) pushRemove(v VC, index int) {
	l.changes = append(l.changes, change{kind: ChangeRemove, vc: v, index: index})
}

func (l *Log) pushProcessed(v VC) {
	l.changes = append(l.changes, change{kind: ChangeProcessed, vc: v})
}

// Rollback undoes every journaled mutation.
func (l *Log) Rollback(s *Set) { l.RollbackTo(s, 0) }

// RollbackTo undoes mutations back to a mark. After it returns the
// set equals its state when the mark was taken, list order included.
func (l *Log) RollbackTo(s *Set, mark int) {
	for i := len(l.changes) - 1; i >= mark; i-- {
		c := &l.changes[i]
		list := s.GetList(c.vc.Type, c.vc.X, c.vc.Y)
		switch c.kind {
		case ChangeAdd:
			list.removeAt(c.index)
		case ChangeRemove:
			list.insertAt(c.index, c.vc)
			list.dirty = true
		case ChangeProcessed:
			if j := list.Find(&c.vc); j >= 0 {
				list.vcs[j].Processed = false
			}
		}
	}
	l.changes = l.changes[:mark]
}
