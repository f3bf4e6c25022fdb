package sqlite3

// Tx is a scope guard for a transaction. Construct it with BeginTx,
// finish with Commit or Rollback, and defer End as the safety net: End
// settles the transaction per the commitOnEnd choice if neither was
// called, and does nothing otherwise.
type Tx struct {
	conn        *Conn
	commitOnEnd bool
	done        bool
}

// BeginTx opens a transaction on c. commitOnEnd selects whether End
// commits or rolls back when the transaction was not settled explicitly;
// immediate requests an IMMEDIATE transaction, taking the write lock up
// front.
func (c *Conn) BeginTx(commitOnEnd, immediate bool) (*Tx, error) {
	var err error
	if immediate {
		err = c.BeginImmediate()
	} else {
		err = c.Begin()
	}
	if err != nil {
		return nil, err
	}
	return &Tx{conn: c, commitOnEnd: commitOnEnd}, nil
}

// Commit commits the transaction. Calling it on an already settled
// transaction is a misuse error.
func (tx *Tx) Commit() error {
	if tx.done {
		return &Error{Code: CodeMisuse, Message: "transaction already ended"}
	}
	tx.done = true
	return tx.conn.Commit()
}

// Rollback rolls the transaction back. Calling it on an already settled
// transaction is a misuse error.
func (tx *Tx) Rollback() error {
	if tx.done {
		return &Error{Code: CodeMisuse, Message: "transaction already ended"}
	}
	tx.done = true
	return tx.conn.Rollback()
}

// End settles the transaction if Commit and Rollback have not run, using
// the commitOnEnd choice made at BeginTx. It is safe to defer
// unconditionally.
func (tx *Tx) End() error {
	if tx.done {
		return nil
	}
	tx.done = true
	if tx.commitOnEnd {
		return tx.conn.Commit()
	}
	return tx.conn.Rollback()
}
