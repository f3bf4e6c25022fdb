package sqlite3

import "strings"

// Batch walks a script of semicolon-separated statements, executing one
// statement per ExecuteNext call. On failure the cursor stays at the
// failing statement so the caller can inspect or skip it.
type Batch struct {
	conn *Conn
	orig string
	rest string
}

// Batch wraps a multi-statement script for stepwise execution on c.
func (c *Conn) Batch(script string) *Batch {
	return &Batch{conn: c, orig: script, rest: script}
}

// State returns the unexecuted remainder of the script.
func (b *Batch) State() string { return b.rest }

// Reset rewinds the cursor to the start of the script.
func (b *Batch) Reset() { b.rest = b.orig }

// ExecuteNext compiles and runs the next statement in the script. It
// returns true while statements remain after the one just executed.
// Whitespace and comments between statements are skipped. On error the
// cursor is left at the statement that failed.
func (b *Batch) ExecuteNext() (bool, error) {
	b.rest = strings.TrimSpace(b.rest)
	if b.rest == "" {
		return false, nil
	}

	s := &Stmt{conn: b.conn}
	if err := s.Prepare(b.rest); err != nil {
		return false, err
	}
	tail := s.Tail()
	if s.IsPrepared() {
		if err := s.Exec(); err != nil {
			s.Finish()
			return false, err
		}
	}
	if err := s.Finish(); err != nil {
		return false, err
	}
	b.rest = strings.TrimSpace(tail)
	return b.rest != "", nil
}

// ExecuteAll runs the script to completion or to the first failure.
func (b *Batch) ExecuteAll() error {
	for {
		more, err := b.ExecuteNext()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}
